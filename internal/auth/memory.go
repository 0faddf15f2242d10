package auth

import (
	"context"
	"sync"
	"time"

	"orgbase.org/internal/ids"
)

// MemoryUserStore is an in-process UserStore used in development mode and
// tests. Email uniqueness is enforced under the store mutex, matching the
// constraint the Postgres store gets from its unique index.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

// NewMemoryUserStore constructs an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, u *User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return ErrEmailInUse
	}
	if u.ID == "" {
		u.ID = ids.New()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	clone := *u
	s.byID[u.ID] = &clone
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *MemoryUserStore) Find(ctx context.Context, id string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *s.byID[id]
	return &clone, nil
}
