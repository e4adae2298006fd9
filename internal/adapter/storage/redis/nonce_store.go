package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// NonceStore implements ports.NonceStore using Redis SET NX.
type NonceStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewNonceStore creates a new Redis-backed nonce store.
func NewNonceStore(client goredis.UniversalClient) *NonceStore {
	return &NonceStore{
		client: client,
		prefix: "nonce:",
	}
}

// CheckAndSet atomically checks if a nonce exists within scope, sets it if not.
// Returns true if the nonce is new (valid), false if already used.
func (s *NonceStore) CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error) {
	return setNX(ctx, s.client, s.prefix+scope+":"+nonce, ttl)
}

// setNX reports whether key was newly set.
func setNX(ctx context.Context, client goredis.UniversalClient, key string, ttl time.Duration) (bool, error) {
	result, err := client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis set nx %s: %w", key, err)
	}
	return result == "OK", nil
}
