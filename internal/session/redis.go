package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// opTimeout bounds every Redis round-trip. A timed-out call surfaces as an
// infrastructure failure, not as a missing session.
const opTimeout = 3 * time.Second

// RedisStore implements Store on top of a Redis instance using SET EX / GET /
// DEL on a single key per handle.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. Keys are namespaced with the given
// prefix so the instance can be shared with other consumers.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "refresh:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(handle string) string {
	return s.prefix + handle
}

func (s *RedisStore) Put(ctx context.Context, handle, userID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Set(ctx, s.key(handle), userID, ttl).Err(); err != nil {
		return fmt.Errorf("session: put: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, handle string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	userID, err := s.client.Get(ctx, s.key(handle)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session: get: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Delete(ctx context.Context, handle string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	// DEL on a missing key is a no-op, which keeps revocation idempotent.
	if err := s.client.Del(ctx, s.key(handle)).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}
