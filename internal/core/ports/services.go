package ports

import (
	"context"
	"time"

	"chappi-wallet/internal/core/domain"

	"github.com/stellar/go/txnbuild"
)

// KeyManager creates, restores and signs with ledger keypairs.
type KeyManager interface {
	Generate() (*domain.Keypair, error)
	FromSecret(secret string) (*domain.Keypair, error)
	// SignEnvelope signs a base64 XDR transaction envelope and returns the signed envelope.
	SignEnvelope(envelopeXDR string, secret string) (string, error)
}

// FederationResolver talks to the remote federation server.
// Resolve methods never return Go errors; failures are carried in the record.
type FederationResolver interface {
	ResolveName(ctx context.Context, address string) *domain.FederationRecord
	ResolveID(ctx context.Context, accountID string) *domain.FederationRecord
	// RegisterAddress reports whether the remote server accepted the mapping.
	RegisterAddress(ctx context.Context, req RegisterAddressRequest) bool
}

// RegisterAddressRequest is the body pushed to the remote federation server.
type RegisterAddressRequest struct {
	Username  string `json:"username"`
	AccountID string `json:"account_id"`
}

// Directory is the local username -> account id mapping for the
// federation domain this service is authoritative for.
type Directory interface {
	IsAvailable(ctx context.Context, username string) (bool, error)
	Register(ctx context.Context, username, accountID string) error
	ResolveByUsername(username string) (string, bool)
	ResolveByAccountID(accountID string) (string, bool)
	Entries() []domain.DirectoryEntry
	Domain() string
}

// AccountGateway reads and writes ledger state.
type AccountGateway interface {
	Exists(ctx context.Context, accountID string) (bool, error)
	GetBalances(ctx context.Context, accountID string) ([]domain.Balance, error)
	GetTransactionHistory(ctx context.Context, accountID string, limit int) ([]domain.TransactionRecord, error)
	// FundTestAccount asks the test-network faucet to fund accountID.
	// Faucet failures are logged, not returned; only a refusal to fund on
	// the public network is an error.
	FundTestAccount(ctx context.Context, accountID string) error
	LoadAccount(ctx context.Context, accountID string) (txnbuild.Account, error)
	// Submit sends a signed envelope and returns the transaction hash.
	Submit(ctx context.Context, envelopeXDR string) (string, error)
}

// PaymentExecutor runs the payment state machine.
type PaymentExecutor interface {
	Execute(ctx context.Context, req PaymentRequest) (*domain.PaymentResult, error)
}

// PaymentRequest holds the input of a single payment.
type PaymentRequest struct {
	SourceSecret     string
	Destination      string // account id or federated address
	Amount           string // decimal string, up to 7 fractional digits
	Asset            domain.Asset
	Memo             string
	MemoType         string // text (default), id, hash
	IdempotencyToken string // optional
}

// PaymentGuard tracks payments that are in flight.
type PaymentGuard interface {
	// Acquire marks key as in flight on behalf of owner. Returns false if it already is.
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	// Release clears the marker only while owner still holds it.
	Release(ctx context.Context, key, owner string) error
}

// PaymentResultCache stores completed payment results by idempotency key.
type PaymentResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil on miss
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WalletService is the caller-facing wallet API.
type WalletService interface {
	GenerateWallet(ctx context.Context, req GenerateWalletRequest) (*domain.Wallet, error)
	ImportWallet(ctx context.Context, req ImportWalletRequest) (*domain.Wallet, error)
	ValidateUsername(ctx context.Context, username string) (*domain.UsernameValidation, error)
	// RegisterUsername binds username to accountID and returns the federated address.
	RegisterUsername(ctx context.Context, username, accountID string) (string, error)
	Resolve(ctx context.Context, q string, queryType domain.FederationQueryType) (*domain.FederationRecord, error)
	GetBalances(ctx context.Context, accountID string) ([]domain.Balance, error)
	GetTransactionHistory(ctx context.Context, accountID string, limit int) ([]domain.TransactionRecord, error)
	FundAccount(ctx context.Context, accountID string) error
}

// GenerateWalletRequest holds input for wallet generation.
type GenerateWalletRequest struct {
	Username *string
	Fund     *bool // nil = configured default
}

// ImportWalletRequest holds input for wallet import.
type ImportWalletRequest struct {
	SecretKey string
	Username  *string
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// TokenService handles operator JWT tokens.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
}

// RateLimitStore counts requests per key within a window.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
