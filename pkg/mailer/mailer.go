// Package mailer sends plain-text or HTML e-mail over SMTP with PLAIN auth.
// Development setups typically point it at Mailtrap (smtp.mailtrap.io:2525).
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender abstracts delivery so consumers can be tested without an SMTP server.
type Sender interface {
	Send(recipient, subject, body string) error
}

// Config holds the SMTP server settings.
type Config struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Mailer sends e-mail through one SMTP server.
type Mailer struct {
	cfg      Config
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New validates cfg and returns a Mailer.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, errors.New("SMTP host and port must be provided")
	}
	if cfg.From == "" {
		return nil, errors.New("sender email address cannot be empty")
	}
	return &Mailer{cfg: cfg, sendMail: smtp.SendMail}, nil
}

// Send delivers one message. The Content-Type is inferred from simple HTML markers in body.
func (m *Mailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return errors.New("recipient email address cannot be empty")
	}
	if subject == "" {
		return errors.New("email subject cannot be empty")
	}

	var auth smtp.Auth
	if m.cfg.User != "" || m.cfg.Pass != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.sendMail(addr, auth, m.cfg.From, []string{recipient}, buildMessage(m.cfg.From, recipient, subject, body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMessage(sender, recipient, subject, body string) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))
}
