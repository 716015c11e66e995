package mail

import (
	"fmt"

	"github.com/hestonauto/appraise-backend/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// ResetMessage is the queued payload for a password-reset email.
type ResetMessage struct {
	To       string `json:"to"`
	ResetURL string `json:"reset_url"`
}

// Sender delivers reset emails. Satisfied by *Mailer; faked in tests.
type Sender interface {
	SendReset(msg ResetMessage) error
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer creates a Mailer from SMTP configuration.
func NewMailer(cfg *config.Config) *Mailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &Mailer{dialer: d, from: cfg.EmailFrom}
}

// SendReset delivers a password-reset email with a one-time link.
func (m *Mailer) SendReset(msg ResetMessage) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", "Password Reset - Heston Automotive")
	gm.SetBody("text/html", fmt.Sprintf(
		`<p>You requested a password reset.</p>
<p><a href=%q>Click here to reset your password</a></p>
<p>This link will expire in 1 hour.</p>`, msg.ResetURL))

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}
