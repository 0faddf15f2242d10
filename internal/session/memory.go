package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is an in-process Store used in development mode and tests.
// Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// MemoryOption configures MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source (useful for expiry tests).
func WithClock(fn func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Put(ctx context.Context, handle, userID string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[handle] = memoryEntry{
		userID:    userID,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, handle string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[handle]
	if !ok {
		return "", ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, handle)
		return "", ErrNotFound
	}
	return entry.userID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, handle)
	return nil
}
