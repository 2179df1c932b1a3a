package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/meetinglens/meetinglens/pkg/config"
)

// Sender delivers plain-text mail.
type Sender interface {
	Send(recipient, subject, body string) error
}

type smtpSender struct {
	cfg config.EmailConfig
}

// NewSender creates an SMTP-backed mail sender.
func NewSender(cfg config.EmailConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(recipient, subject, body string) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("smtp is not configured")
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg := buildMessage(s.cfg.From, recipient, subject, body)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
