package mail

import (
	"context"

	"github.com/student-bubble/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpMailer struct {
	from   string
	dialer dialer
}

// NewSMTPMailer returns a Mailer that delivers through the configured SMTP relay.
func NewSMTPMailer(cfg config.Mail) Mailer {
	return &smtpMailer{
		from:   cfg.SMTPFrom,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (m *smtpMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.dialer.DialAndSend(newMessage(m.from, to, subject, body))
}

func newMessage(from, to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
