// Package mailer delivers transactional mail (OTP codes, order notices).
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GoMarket-Shop/GoMarket/internal/config"
)

// Mailer sends a plain text mail to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer creates a mailer from the SMTP config section.
func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

// Send delivers the message. Recipient addresses are not validated here,
// the relay rejects malformed ones.
func (m *SMTPMailer) Send(to, subject, body string) error {
	var msg strings.Builder

	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	return nil
}

// LogMailer writes mail to the log instead of delivering it. Used in dev
// mode and whenever no SMTP host is configured.
type LogMailer struct{}

// Send logs the message.
func (LogMailer) Send(to, subject, body string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail (log delivery)")

	return nil
}

// FromConfig picks the SMTP mailer when a host is configured, the log
// mailer otherwise.
func FromConfig(cfg *config.Config) Mailer {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("no smtp host configured: mail is written to the log")

		return LogMailer{}
	}

	return NewSMTPMailer(cfg.SMTP)
}
