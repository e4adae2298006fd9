package postgres

import (
	"context"
	"fmt"
	"time"

	"chappi-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// OutboxRepo implements ports.SyncOutbox on the federation_sync_outbox table.
type OutboxRepo struct {
	pool Pool
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo(pool Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

// Enqueue inserts a pending registration.
func (r *OutboxRepo) Enqueue(ctx context.Context, item *domain.PendingSync) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO federation_sync_outbox (id, username, account_id, attempts, last_error, next_attempt_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Username, item.AccountID,
		item.Attempts, item.LastError, item.NextAttemptAt, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("enqueue sync: %w", err)
	}
	return nil
}

// Due returns pending registrations whose retry time has come, oldest first.
func (r *OutboxRepo) Due(ctx context.Context, now time.Time, limit int) ([]domain.PendingSync, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, account_id, attempts, last_error, next_attempt_at, created_at
		 FROM federation_sync_outbox
		 WHERE done_at IS NULL AND next_attempt_at <= $1
		 ORDER BY created_at ASC LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query due syncs: %w", err)
	}
	defer rows.Close()

	var items []domain.PendingSync
	for rows.Next() {
		var p domain.PendingSync
		if err := rows.Scan(&p.ID, &p.Username, &p.AccountID,
			&p.Attempts, &p.LastError, &p.NextAttemptAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync row: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync rows: %w", err)
	}
	return items, nil
}

// MarkDone closes a registration the remote server accepted.
func (r *OutboxRepo) MarkDone(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE federation_sync_outbox SET done_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark sync done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sync item not found: %s", id)
	}
	return nil
}

// MarkFailed records a failed attempt and schedules the next one.
func (r *OutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, nextAttemptAt time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE federation_sync_outbox SET attempts = attempts + 1, last_error = $2, next_attempt_at = $3 WHERE id = $1`,
		id, lastErr, nextAttemptAt,
	)
	if err != nil {
		return fmt.Errorf("mark sync failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sync item not found: %s", id)
	}
	return nil
}
