// Package email は外部プロバイダ経由のメール送信を提供する。
//
// 低レベルのSenderインターフェースがプロバイダ（Resend）を抽象化し、
// Mailerが会員向け通知メールのテンプレート構築と送信を担う。
// 送信失敗は呼び出し側で会員単位に隔離される前提であり、
// このパッケージはエラーを返すだけでリトライしない。
package email

import "context"

// Message は送信する1通のメールを表す。
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender はメールプロバイダの送信インターフェース。
type Sender interface {
	// Send はメールを1通送信する。
	Send(ctx context.Context, msg Message) error
}
