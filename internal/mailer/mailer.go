// Package mailer sends transactional email to agents. Sending is best-effort
// everywhere it is used: a mail failure never fails the calling flow.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/yaduvivaah/agent-portal-api/internal/config"
)

// Sender delivers transactional email.
type Sender interface {
	SendWelcome(to, name string) error
}

// Mailer is an SMTP-backed Sender.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

// New creates a Mailer, or nil when no SMTP host is configured. A nil
// *Mailer is a valid Sender that drops all mail.
func New(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}

	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendWelcome sends the post-registration welcome email.
func (m *Mailer) SendWelcome(to, name string) error {
	if m == nil {
		return nil
	}

	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your agent registration is complete. You can now log in with your
		registered mobile number to manage your profile and track your business.</p>

		<p>Thank you,</p>
		<p>Yaduvivaah Team</p>
	`, name)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome to the Yaduvivaah Agent Panel")
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
