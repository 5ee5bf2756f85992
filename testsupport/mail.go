package testsupport

import (
	"context"
	"fmt"
	"sync"

	"band-backend/mailer"
)

// RecordingSender captures every message. FailFor makes sends to the listed
// recipient fail.
type RecordingSender struct {
	mu      sync.Mutex
	Sent    []mailer.Message
	FailFor map[string]error
}

func NewRecordingSender() *RecordingSender {
	return &RecordingSender{FailFor: map[string]error{}}
}

func (s *RecordingSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, to := range msg.To {
		if err, ok := s.FailFor[to]; ok {
			return "", err
		}
	}
	s.Sent = append(s.Sent, msg)
	return fmt.Sprintf("msg-%d", len(s.Sent)), nil
}

// To returns the messages delivered to addr.
func (s *RecordingSender) To(addr string) []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []mailer.Message
	for _, m := range s.Sent {
		for _, to := range m.To {
			if to == addr {
				out = append(out, m)
			}
		}
	}
	return out
}
