package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chappi-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// Outbox implements ports.SyncOutbox in process memory. Pending
// registrations do not survive a restart.
type Outbox struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.PendingSync
}

// NewOutbox creates an empty in-memory outbox.
func NewOutbox() *Outbox {
	return &Outbox{items: make(map[uuid.UUID]*domain.PendingSync)}
}

func (o *Outbox) Enqueue(ctx context.Context, item *domain.PendingSync) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	cp := *item
	o.items[item.ID] = &cp
	return nil
}

func (o *Outbox) Due(ctx context.Context, now time.Time, limit int) ([]domain.PendingSync, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	due := make([]domain.PendingSync, 0)
	for _, item := range o.items {
		if !item.NextAttemptAt.After(now) {
			due = append(due, *item)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CreatedAt.Before(due[j].CreatedAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (o *Outbox) MarkDone(ctx context.Context, id uuid.UUID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.items[id]; !ok {
		return fmt.Errorf("sync item not found: %s", id)
	}
	delete(o.items, id)
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, nextAttemptAt time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	item, ok := o.items[id]
	if !ok {
		return fmt.Errorf("sync item not found: %s", id)
	}
	item.Attempts++
	item.LastError = lastErr
	item.NextAttemptAt = nextAttemptAt
	return nil
}

// Len returns the number of pending registrations.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.items)
}
