package app

// Command はバイナリの起動モードを表す。
type Command string

const (
	// CommandServe は会員管理APIサーバーとして起動する。
	CommandServe Command = "serve"
	// CommandWorker は期限切れスイープとリマインダー送信のワーカーとして起動する。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベーススキーマを最新化して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は稼働中サーバーの死活確認を行って終了する。
	// シェルを持たないコンテナイメージのHEALTHCHECKから呼ばれる。
	CommandHealthcheck Command = "healthcheck"
)

var commands = map[string]Command{
	"serve":       CommandServe,
	"worker":      CommandWorker,
	"migrate":     CommandMigrate,
	"healthcheck": CommandHealthcheck,
}

// ParseCommand は先頭引数をサブコマンドとして解釈する。
// 引数なし・未知のサブコマンドはserveとして扱う。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}
	if cmd, ok := commands[args[0]]; ok {
		return cmd
	}
	return CommandServe
}
