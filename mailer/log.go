package mailer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogSender logs sends but does not deliver anything.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	slog.Info("[MOCK EMAIL]", "to", msg.To, "subject", msg.Subject, "bytes", len(msg.HTML))
	return "mock-" + uuid.NewString(), nil
}
