package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// PaymentResultCache implements ports.PaymentResultCache using Redis.
type PaymentResultCache struct {
	client goredis.UniversalClient
	prefix string
}

// NewPaymentResultCache creates a new Redis-backed payment result cache.
func NewPaymentResultCache(client goredis.UniversalClient) *PaymentResultCache {
	return &PaymentResultCache{
		client: client,
		prefix: "result:",
	}
}

// Get retrieves a cached payment result by idempotency key.
// Returns nil, nil if the key does not exist.
func (c *PaymentResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis result get: %w", err)
	}
	return val, nil
}

// Set stores a payment result with TTL.
func (c *PaymentResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis result set: %w", err)
	}
	return nil
}
