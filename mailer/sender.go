// Package mailer delivers transactional email through Resend, SMTP, or a
// log-only sender for development.
package mailer

import (
	"context"
	"log/slog"
)

// Message is a single outbound HTML email.
type Message struct {
	To      []string
	From    string // Resend falls back to its default; SMTP always sends from its account
	Subject string
	HTML    string
	ReplyTo string
}

// Sender delivers one message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Settings selects and configures a Sender.
type Settings struct {
	ResendAPIKey string
	From         string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFromName string
}

// New returns a Resend sender when an API key is configured, otherwise an
// SMTP sender when SMTP is fully configured, otherwise a log-only sender.
func New(s Settings) Sender {
	switch {
	case s.ResendAPIKey != "":
		slog.Info("mailer: using Resend")
		return NewResendSender(s.ResendAPIKey, s.From)
	case s.SMTPHost != "" && s.SMTPPort != "" && s.SMTPUsername != "" && s.SMTPPassword != "":
		slog.Info("mailer: using SMTP", "host", s.SMTPHost)
		return NewSMTPSender(s.SMTPHost, s.SMTPPort, s.SMTPUsername, s.SMTPPassword, s.SMTPFromName)
	default:
		slog.Warn("mailer: no RESEND_API_KEY or SMTP settings; emails will only be logged")
		return NewLogSender()
	}
}
