package domain

import (
	"time"

	"github.com/google/uuid"
)

// Memo types as used by federation records and transactions.
const (
	MemoTypeText = "text"
	MemoTypeID   = "id"
	MemoTypeHash = "hash"
)

// FederationQueryType selects forward (name) or reverse (id) resolution.
type FederationQueryType string

const (
	FederationQueryName FederationQueryType = "name"
	FederationQueryID   FederationQueryType = "id"
)

// UsernameValidation is the transient result of a username check.
type UsernameValidation struct {
	IsValid     bool     `json:"is_valid"`
	IsAvailable bool     `json:"is_available"`
	Errors      []string `json:"errors"`
}

// FederationRecord is a point-in-time resolution result.
// Remote lookups report failures in Error instead of returning a Go error;
// NotFound distinguishes "no such name" from transport failures.
type FederationRecord struct {
	StellarAddress string `json:"stellar_address,omitempty"`
	AccountID      string `json:"account_id,omitempty"`
	MemoType       string `json:"memo_type,omitempty"`
	Memo           string `json:"memo,omitempty"`
	Error          string `json:"error,omitempty"`
	NotFound       bool   `json:"-"`
}

// Failed reports whether the record carries a failure.
func (r *FederationRecord) Failed() bool {
	return r == nil || r.Error != "" || r.NotFound
}

// DirectoryEntry is a single username -> account id mapping.
type DirectoryEntry struct {
	Username  string `json:"username"`
	AccountID string `json:"account_id"`
}

// PendingSync is an outbox record for a registration that has not yet been
// accepted by the remote federation server.
type PendingSync struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	AccountID     string    `json:"account_id"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
	NextAttemptAt time.Time `json:"next_attempt_at"`
	CreatedAt     time.Time `json:"created_at"`
}
