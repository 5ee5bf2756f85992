// Package testsupport provides in-memory stores and a recording mail sender
// for service and handler tests.
package testsupport

import (
	"context"
	"sort"
	"sync"
	"time"

	"band-backend/apperrors"
	"band-backend/models"
)

// AdminStore is an in-memory admin repository.
type AdminStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Admin
	Err    error // returned by every call when set
}

func NewAdminStore() *AdminStore {
	return &AdminStore{nextID: 1, rows: map[uint]models.Admin{}}
}

func (s *AdminStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.rows)), nil
}

func (s *AdminStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.rows {
		if existing.Username == admin.Username {
			return apperrors.Validation("Username already exists")
		}
	}
	admin.ID = s.nextID
	s.nextID++
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	s.rows[admin.ID] = *admin
	return nil
}

func (s *AdminStore) find(match func(models.Admin) bool) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, a := range s.rows {
		if match(a) {
			found := a
			return &found, nil
		}
	}
	return nil, apperrors.NotFound("Admin not found")
}

func (s *AdminStore) FindByID(_ context.Context, id uint) (*models.Admin, error) {
	return s.find(func(a models.Admin) bool { return a.ID == id })
}

func (s *AdminStore) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	return s.find(func(a models.Admin) bool { return a.Username == username })
}

func (s *AdminStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	return s.find(func(a models.Admin) bool { return a.Email == email })
}

func (s *AdminStore) UpdatePassword(_ context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	a, ok := s.rows[id]
	if !ok {
		return apperrors.NotFound("Admin not found")
	}
	a.Password = hash
	s.rows[id] = a
	return nil
}

// ResetTokenStore is an in-memory reset token repository keyed by admin id.
type ResetTokenStore struct {
	mu   sync.Mutex
	rows map[uint]models.ResetToken
}

func NewResetTokenStore() *ResetTokenStore {
	return &ResetTokenStore{rows: map[uint]models.ResetToken{}}
}

func (s *ResetTokenStore) Replace(_ context.Context, token *models.ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[token.AdminID] = *token
	return nil
}

func (s *ResetTokenStore) FindByAdminID(_ context.Context, adminID uint) (*models.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[adminID]
	if !ok {
		return nil, apperrors.NotFound("Reset token not found")
	}
	return &t, nil
}

func (s *ResetTokenStore) DeleteByAdminID(_ context.Context, adminID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, adminID)
	return nil
}

func (s *ResetTokenStore) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.rows {
		if !t.CreatedAt.After(cutoff) {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

func (s *ResetTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// MemberStore is an in-memory member repository. Rows come back in
// insertion-id order; ordering is the caller's job.
type MemberStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Member
	Err    error
}

func NewMemberStore() *MemberStore {
	return &MemberStore{nextID: 1, rows: map[uint]models.Member{}}
}

func (s *MemberStore) List(_ context.Context, activeOnly bool) ([]models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Member{}
	for _, m := range s.rows {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemberStore) FindByID(_ context.Context, id uint) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NotFound("Member not found")
	}
	return &m, nil
}

func (s *MemberStore) Create(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	m.ID = s.nextID
	s.nextID++
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = m.CreatedAt
	s.rows[m.ID] = *m
	return nil
}

func (s *MemberStore) Save(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	m.UpdatedAt = time.Now()
	s.rows[m.ID] = *m
	return nil
}

func (s *MemberStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return apperrors.NotFound("Member not found")
	}
	delete(s.rows, id)
	return nil
}

// PerformanceStore is an in-memory performance repository.
type PerformanceStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Performance
	Err    error
}

func NewPerformanceStore() *PerformanceStore {
	return &PerformanceStore{nextID: 1, rows: map[uint]models.Performance{}}
}

func (s *PerformanceStore) list(activeOnly bool) ([]models.Performance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Performance{}
	for _, p := range s.rows {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *PerformanceStore) ListActive(context.Context) ([]models.Performance, error) {
	return s.list(true)
}

func (s *PerformanceStore) ListAll(context.Context) ([]models.Performance, error) {
	return s.list(false)
}

func (s *PerformanceStore) FindByID(_ context.Context, id uint) (*models.Performance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, apperrors.NotFound("Performance not found")
	}
	return &p, nil
}

func (s *PerformanceStore) Create(_ context.Context, p *models.Performance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.rows[p.ID] = *p
	return nil
}

func (s *PerformanceStore) Save(_ context.Context, p *models.Performance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	p.UpdatedAt = time.Now()
	s.rows[p.ID] = *p
	return nil
}

func (s *PerformanceStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return apperrors.NotFound("Performance not found")
	}
	delete(s.rows, id)
	return nil
}
