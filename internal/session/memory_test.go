package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Put(ctx, "handle-1", "user-1", time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}
	userID, err := store.Get(ctx, "handle-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("unexpected user id: %s", userID)
	}

	if err := store.Delete(ctx, "handle-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "handle-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting again must not be an error.
	if err := store.Delete(ctx, "handle-1"); err != nil {
		t.Fatalf("repeated Delete: %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(WithClock(func() time.Time { return now }))

	if err := store.Put(ctx, "handle-2", "user-2", 7*24*time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Get(ctx, "handle-2"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	now = now.Add(7*24*time.Hour + time.Second)
	if _, err := store.Get(ctx, "handle-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestMemoryStoreUnknownHandle(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
