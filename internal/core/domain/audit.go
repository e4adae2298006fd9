package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionWalletGenerate   AuditAction = "WALLET_GENERATE"
	AuditActionWalletImport     AuditAction = "WALLET_IMPORT"
	AuditActionUsernameRegister AuditAction = "USERNAME_REGISTER"
	AuditActionFederationSync   AuditAction = "FEDERATION_REGISTER"
	AuditActionAccountFund      AuditAction = "ACCOUNT_FUND"
	AuditActionPayment          AuditAction = "PAYMENT"
)

// AuditLog records a single audited action. Details never carry secret keys.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Subject      string      `json:"subject,omitempty"` // operator token subject
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
