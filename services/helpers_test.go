package services

import (
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"band-backend/testsupport"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testStart = time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)

func newTestAuth(t *testing.T, admins AdminStore, clock *testClock) *AuthService {
	t.Helper()
	return NewAuthService(admins, "test-secret", time.Hour, WithClock(clock.Now), WithBcryptCost(bcrypt.MinCost))
}

func seedAdmin(t *testing.T, auth *AuthService, admins *testsupport.AdminStore) {
	t.Helper()
	created, err := auth.EnsureDefaultAdmin(t.Context(), "admin", "admin123", "admin@example.com")
	if err != nil || !created {
		t.Fatalf("EnsureDefaultAdmin: created=%v err=%v", created, err)
	}
}
