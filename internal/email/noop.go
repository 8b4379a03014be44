package email

import (
	"context"
	"log/slog"
)

// NoopSender は開発・テスト用のSender実装。実際の配信は行わずログのみ出力する。
// RESEND_API_KEYが未設定の環境で使用される。
type NoopSender struct {
	logger *slog.Logger
}

// NewNoopSender はNoopSenderを生成する。
func NewNoopSender(logger *slog.Logger) *NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopSender{logger: logger}
}

// Send はメールをログに出力するだけで配信しない。
func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("メール送信をスキップしました（noop）",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
