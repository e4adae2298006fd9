package ports

import (
	"context"
	"time"

	"chappi-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// DirectoryStore persists the federation directory as a whole.
// Load returns an empty map when nothing has been stored yet.
// Save replaces the stored directory with entries.
type DirectoryStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
	// Name identifies the backend in logs (e.g., "file", "redis", "postgres").
	Name() string
}

// SyncOutbox holds registrations the remote federation server has not
// acknowledged yet.
type SyncOutbox interface {
	Enqueue(ctx context.Context, item *domain.PendingSync) error
	// Due returns up to limit items whose NextAttemptAt is not after now, oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]domain.PendingSync, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, nextAttemptAt time.Time) error
}

// PaymentLogRepository records payment attempts. Entries never hold secrets.
type PaymentLogRepository interface {
	Record(ctx context.Context, result *domain.PaymentResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentResult, error)
	ListBySource(ctx context.Context, sourceAccountID string, limit int) ([]domain.PaymentResult, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}
