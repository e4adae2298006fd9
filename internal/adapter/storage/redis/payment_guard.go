package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes KEYS[1] only while it still holds ARGV[1].
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PaymentGuard implements ports.PaymentGuard with SET NX markers shared
// by every replica using the same Redis. Each marker stores its owner.
type PaymentGuard struct {
	client goredis.UniversalClient
	prefix string
}

// NewPaymentGuard creates a Redis-backed in-flight guard.
func NewPaymentGuard(client goredis.UniversalClient) *PaymentGuard {
	return &PaymentGuard{
		client: client,
		prefix: "inflight:",
	}
}

// Acquire marks key as in flight for owner for at most ttl.
func (g *PaymentGuard) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	result, err := g.client.SetArgs(ctx, g.prefix+key, owner, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis acquire %s: %w", key, err)
	}
	return result == "OK", nil
}

// Release clears the in-flight marker if owner still holds it. A marker
// that expired and was taken by another request is left alone.
func (g *PaymentGuard) Release(ctx context.Context, key, owner string) error {
	if err := releaseScript.Run(ctx, g.client, []string{g.prefix + key}, owner).Err(); err != nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	return nil
}
