package postgres

import (
	"context"
	"errors"
	"fmt"

	"chappi-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, idempotency_key, source_account_id, destination, destination_account_id,
	amount, asset, memo_type, memo, state, failed_at, failure_reason, transaction_hash, created_at, completed_at`

// PaymentRepo implements ports.PaymentLogRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Record inserts a payment attempt, or updates it if it was recorded before.
func (r *PaymentRepo) Record(ctx context.Context, p *domain.PaymentResult) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			destination_account_id = EXCLUDED.destination_account_id,
			state = EXCLUDED.state,
			failed_at = EXCLUDED.failed_at,
			failure_reason = EXCLUDED.failure_reason,
			transaction_hash = EXCLUDED.transaction_hash,
			completed_at = EXCLUDED.completed_at`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.IdempotencyKey, p.SourceAccountID, p.Destination, p.DestinationAccountID,
		p.Amount, p.Asset, p.MemoType, p.Memo, string(p.State), string(p.FailedAt),
		p.FailureReason, p.TransactionHash, p.CreatedAt, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by UUID. Returns nil, nil when absent.
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentResult, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// ListBySource returns the most recent payments sent from a wallet.
func (r *PaymentRepo) ListBySource(ctx context.Context, sourceAccountID string, limit int) ([]domain.PaymentResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE source_account_id = $1 ORDER BY created_at DESC LIMIT $2`,
		sourceAccountID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.PaymentResult{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (*domain.PaymentResult, error) {
	var (
		p        domain.PaymentResult
		state    string
		failedAt string
	)
	err := row.Scan(
		&p.ID, &p.IdempotencyKey, &p.SourceAccountID, &p.Destination, &p.DestinationAccountID,
		&p.Amount, &p.Asset, &p.MemoType, &p.Memo, &state, &failedAt,
		&p.FailureReason, &p.TransactionHash, &p.CreatedAt, &p.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	p.State = domain.PaymentState(state)
	p.FailedAt = domain.PaymentState(failedAt)
	return &p, nil
}
