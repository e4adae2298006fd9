package memory

import (
	"context"
	"sort"
	"sync"

	"chappi-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// PaymentLog implements ports.PaymentLogRepository in process memory.
type PaymentLog struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]domain.PaymentResult
}

func NewPaymentLog() *PaymentLog {
	return &PaymentLog{payments: make(map[uuid.UUID]domain.PaymentResult)}
}

func (l *PaymentLog) Record(ctx context.Context, result *domain.PaymentResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.payments[result.ID] = *result
	return nil
}

// GetByID returns nil, nil when the payment is unknown.
func (l *PaymentLog) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListBySource returns payments from sourceAccountID, newest first.
func (l *PaymentLog) ListBySource(ctx context.Context, sourceAccountID string, limit int) ([]domain.PaymentResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []domain.PaymentResult{}
	for _, p := range l.payments {
		if p.SourceAccountID == sourceAccountID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
