package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"chappi-wallet/internal/core/ports"
)

// expiringSet is a mutex-guarded map of keys with deadlines. Expired keys
// are dropped lazily on access.
type expiringSet struct {
	mu     sync.Mutex
	now    func() time.Time
	values map[string]entry
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func newExpiringSet() *expiringSet {
	return &expiringSet{now: time.Now, values: make(map[string]entry)}
}

// setNX stores key unless a live entry exists.
func (s *expiringSet) setNX(key string, value []byte, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.values[key]; ok && s.now().Before(e.expiresAt) {
		return false
	}
	s.values[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return true
}

func (s *expiringSet) set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
}

func (s *expiringSet) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.values[key]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.values, key)
		return nil, false
	}
	return e.value, true
}

// delIf removes key only while it holds value.
func (s *expiringSet) delIf(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.values[key]; ok && bytes.Equal(e.value, value) {
		delete(s.values, key)
	}
}

// PaymentGuard implements ports.PaymentGuard for a single process.
type PaymentGuard struct{ set *expiringSet }

func NewPaymentGuard() *PaymentGuard { return &PaymentGuard{set: newExpiringSet()} }

func (g *PaymentGuard) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return g.set.setNX(key, []byte(owner), ttl), nil
}

func (g *PaymentGuard) Release(ctx context.Context, key, owner string) error {
	g.set.delIf(key, []byte(owner))
	return nil
}

// PaymentResultCache implements ports.PaymentResultCache for a single process.
type PaymentResultCache struct{ set *expiringSet }

func NewPaymentResultCache() *PaymentResultCache { return &PaymentResultCache{set: newExpiringSet()} }

func (c *PaymentResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.set.get(key)
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c *PaymentResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.set.set(key, append([]byte(nil), value...), ttl)
	return nil
}

// NonceStore implements ports.NonceStore for a single process.
type NonceStore struct{ set *expiringSet }

func NewNonceStore() *NonceStore { return &NonceStore{set: newExpiringSet()} }

func (s *NonceStore) CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error) {
	return s.set.setNX(scope+":"+nonce, nil, ttl), nil
}

// RateLimitStore implements ports.RateLimitStore with fixed-window counters.
type RateLimitStore struct {
	mu       sync.Mutex
	now      func() time.Time
	counters map[string]*window
}

type window struct {
	id    int64
	count int64
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{now: time.Now, counters: make(map[string]*window)}
}

func (s *RateLimitStore) Allow(ctx context.Context, key string, limit int64, length time.Duration) (*ports.RateLimitResult, error) {
	secs := int64(length / time.Second)
	if secs < 1 {
		secs = 1
	}
	id := s.now().Unix() / secs

	s.mu.Lock()
	w, ok := s.counters[key]
	if !ok || w.id != id {
		w = &window{id: id}
		s.counters[key] = w
	}
	w.count++
	count := w.count
	s.mu.Unlock()

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &ports.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   (id + 1) * secs,
	}, nil
}
