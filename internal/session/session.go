// Package session provides the key-value store backing refresh tokens.
// Entries are opaque handles mapped to a user id with a server-enforced
// expiry; implementations only need atomic single-key set/get/delete.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the handle does not exist or has expired. Every
// other error is an infrastructure failure and must not be interpreted as
// an authentication outcome.
var ErrNotFound = errors.New("session: not found")

// Store persists refresh-token handles with per-key expiry.
type Store interface {
	// Put registers the handle for the given user. An existing handle is
	// overwritten together with its expiry.
	Put(ctx context.Context, handle, userID string, ttl time.Duration) error
	// Get resolves the handle to a user id, or ErrNotFound.
	Get(ctx context.Context, handle string) (string, error)
	// Delete removes the handle. Deleting an absent handle is not an error.
	Delete(ctx context.Context, handle string) error
}
