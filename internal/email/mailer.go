package email

import (
	"context"
	"fmt"
	"html"
	"time"
)

// Mailer は会員向け通知メールのテンプレート構築と送信を行う。
type Mailer struct {
	sender      Sender
	frontendURL string
}

// NewMailer はMailerを生成する。
// frontendURLはメール本文の更新リンクに使用される。
func NewMailer(sender Sender, frontendURL string) *Mailer {
	return &Mailer{
		sender:      sender,
		frontendURL: frontendURL,
	}
}

// SendExpiryEmail は会員資格の期限切れ通知メールを送信する。
func (m *Mailer) SendExpiryEmail(ctx context.Context, to, name, packageType string) error {
	msg := Message{
		To:      to,
		Subject: "Your Gym Membership Has Expired - Renewal Required",
		HTML:    m.expiryBody(name, packageType),
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("期限切れ通知メールの送信に失敗しました: %w", err)
	}
	return nil
}

// SendReminderEmail は期限切れ前のリマインダーメールを送信する。
func (m *Mailer) SendReminderEmail(ctx context.Context, to, name, packageType string, daysRemaining int) error {
	msg := Message{
		To:      to,
		Subject: fmt.Sprintf("Your Gym Membership Expires in %d Days - Renew Now", daysRemaining),
		HTML:    m.reminderBody(name, packageType, daysRemaining),
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("リマインダーメールの送信に失敗しました: %w", err)
	}
	return nil
}

// expiryBody は期限切れ通知メールのHTML本文を構築する。
func (m *Mailer) expiryBody(name, packageType string) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Membership Expired</h1>
    <p>Hi <strong>%s</strong>,</p>
    <p>We noticed that your gym membership (%s) has expired on <strong>%s</strong>.</p>
    <p>To continue enjoying our premium gym facilities and services,
       please renew your membership at your earliest convenience.</p>
    <p><strong>What happens next?</strong><br>
       Your membership access will be restricted until you renew your subscription.</p>
    <p><a href="%s/login">Renew Membership</a></p>
  </div>
</body>
</html>`,
		html.EscapeString(name),
		html.EscapeString(packageType),
		time.Now().Format("2006-01-02"),
		m.frontendURL,
	)
}

// reminderBody はリマインダーメールのHTML本文を構築する。
func (m *Mailer) reminderBody(name, packageType string, daysRemaining int) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Membership Renewal Reminder</h1>
    <p>Hi <strong>%s</strong>,</p>
    <p>Your gym membership (%s) will expire in <strong>%d days</strong>!</p>
    <p>Don't miss out on uninterrupted access to our gym facilities.
       Renew your membership now to avoid any service interruption.</p>
    <p><a href="%s/login">Renew Your Membership</a></p>
  </div>
</body>
</html>`,
		html.EscapeString(name),
		html.EscapeString(packageType),
		daysRemaining,
		m.frontendURL,
	)
}
