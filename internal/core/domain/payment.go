package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentState is a step of the payment state machine.
type PaymentState string

const (
	PaymentStateResolvingDestination PaymentState = "RESOLVING_DESTINATION"
	PaymentStateVerifyingFunded      PaymentState = "VERIFYING_FUNDED"
	PaymentStateBuilding             PaymentState = "BUILDING"
	PaymentStateSigning              PaymentState = "SIGNING"
	PaymentStateSubmitting           PaymentState = "SUBMITTING"
	PaymentStateSucceeded            PaymentState = "SUCCEEDED"
	PaymentStateFailed               PaymentState = "FAILED"
)

// IsTerminal returns true if the payment can no longer change state.
func (s PaymentState) IsTerminal() bool {
	return s == PaymentStateSucceeded || s == PaymentStateFailed
}

// PaymentResult records one payment attempt. It never contains the source secret.
type PaymentResult struct {
	ID                   uuid.UUID    `json:"id"`
	IdempotencyKey       string       `json:"idempotency_key,omitempty"`
	SourceAccountID      string       `json:"source_account_id"`
	Destination          string       `json:"destination"`
	DestinationAccountID string       `json:"destination_account_id,omitempty"`
	Amount               string       `json:"amount"`
	Asset                string       `json:"asset"`
	MemoType             string       `json:"memo_type,omitempty"`
	Memo                 string       `json:"memo,omitempty"`
	State                PaymentState `json:"state"`
	FailedAt             PaymentState `json:"failed_at,omitempty"`
	FailureReason        string       `json:"failure_reason,omitempty"`
	TransactionHash      string       `json:"transaction_hash,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	CompletedAt          *time.Time   `json:"completed_at,omitempty"`
}

// Succeeded reports whether the ledger accepted the payment.
func (p *PaymentResult) Succeeded() bool {
	return p.State == PaymentStateSucceeded
}
