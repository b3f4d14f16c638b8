package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/divaskloset/storefront/internal/config"
)

// Mailer delivers transactional mail. The auth flow treats a send failure as
// fatal to the request, so implementations must return delivery errors.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewSMTP(cfg *config.Config) Mailer {
	return &smtpMailer{
		host:     cfg.SMTP_HOST,
		port:     cfg.SMTP_PORT,
		from:     cfg.SMTP_FROM,
		username: cfg.SMTP_USER,
		password: cfg.SMTP_PASSWORD,
	}
}

func (m *smtpMailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
