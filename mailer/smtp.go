package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// SMTPSender delivers through a plain-auth SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	fromName string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host, port, username, password, fromName string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		fromName: fromName,
		send:     smtp.SendMail,
	}
}

// headerSafe strips CR/LF so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
}

// headerFrom is the authenticated account, so relays and DMARC checks see a
// From that matches the envelope sender.
func (s *SMTPSender) headerFrom() string {
	if s.fromName == "" {
		return s.username
	}
	return fmt.Sprintf("%s <%s>", s.fromName, s.username)
}

// buildMessage sends From the SMTP account. A caller From that differs is
// kept as Reply-To unless the message already names one.
func (s *SMTPSender) buildMessage(msg Message, messageID string) []byte {
	replyTo := msg.ReplyTo
	if replyTo == "" && msg.From != "" && !strings.EqualFold(msg.From, s.username) {
		replyTo = msg.From
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", headerSafe(s.headerFrom())))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", headerSafe(strings.Join(msg.To, ", "))))
	if replyTo != "" {
		sb.WriteString(fmt.Sprintf("Reply-To: %s\r\n", headerSafe(replyTo)))
	}
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", headerSafe(msg.Subject)))
	sb.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", messageID, s.host))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.HTML)
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// Send ignores ctx; net/smtp has no context support.
func (s *SMTPSender) Send(_ context.Context, msg Message) (string, error) {
	messageID := uuid.NewString()
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := net.JoinHostPort(s.host, s.port)

	if err := s.send(addr, auth, s.username, msg.To, s.buildMessage(msg, messageID)); err != nil {
		slog.Error("smtp send failed", "error", err, "to", msg.To, "subject", msg.Subject)
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	slog.Info("smtp sent", "message_id", messageID, "to", msg.To, "subject", msg.Subject)
	return messageID, nil
}
