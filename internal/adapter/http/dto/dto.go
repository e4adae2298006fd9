package dto

import "chappi-wallet/internal/core/domain"

// GenerateWalletRequest is the request body for wallet generation.
type GenerateWalletRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,max=64"`
	Fund     *bool   `json:"fund,omitempty"`
}

// ImportWalletRequest is the request body for wallet import.
type ImportWalletRequest struct {
	SecretKey string  `json:"secret_key" binding:"required,stellar_secret"`
	Username  *string `json:"username,omitempty" binding:"omitempty,max=64"`
}

// WalletResponse is returned once, at generation or import. It is the only
// response that carries a secret key.
type WalletResponse struct {
	PublicKey        string  `json:"public_key"`
	SecretKey        string  `json:"secret_key"`
	Username         *string `json:"username,omitempty"`
	FederatedAddress *string `json:"federated_address,omitempty"`
}

// NewWalletResponse exposes the secret key of w explicitly.
func NewWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		PublicKey:        w.PublicKey,
		SecretKey:        w.SecretKey,
		Username:         w.Username,
		FederatedAddress: w.FederatedAddress,
	}
}

// RegisterUsernameRequest binds a username to an existing account.
type RegisterUsernameRequest struct {
	Username  string `json:"username" binding:"required,max=64"`
	AccountID string `json:"account_id" binding:"required,stellar_public"`
}

// RegisterUsernameResponse is the response body for username registration.
type RegisterUsernameResponse struct {
	Username         string `json:"username"`
	AccountID        string `json:"account_id"`
	FederatedAddress string `json:"federated_address"`
}

// BalancesResponse is the response body for a balance query.
type BalancesResponse struct {
	AccountID string           `json:"account_id"`
	Balances  []domain.Balance `json:"balances"`
}

// TransactionsResponse is the response body for a history query.
type TransactionsResponse struct {
	AccountID    string                     `json:"account_id"`
	Transactions []domain.TransactionRecord `json:"transactions"`
}

// FundResponse acknowledges a faucet request.
type FundResponse struct {
	AccountID string `json:"account_id"`
	Status    string `json:"status"`
}

// PaymentRequest is the request body for a payment. The idempotency token
// travels in the Idempotency-Key header.
type PaymentRequest struct {
	SourceSecret string `json:"source_secret" binding:"required,stellar_secret"`
	Destination  string `json:"destination" binding:"required,max=256"`
	Amount       string `json:"amount" binding:"required,max=32"`
	AssetCode    string `json:"asset_code,omitempty" binding:"omitempty,max=12,alphanum"`
	AssetIssuer  string `json:"asset_issuer,omitempty" binding:"omitempty,stellar_public"`
	Memo         string `json:"memo,omitempty" binding:"max=64"`
	MemoType     string `json:"memo_type,omitempty" binding:"omitempty,oneof=text id hash"`
}

// PaymentListResponse wraps the payments sent from one account.
type PaymentListResponse struct {
	AccountID string                 `json:"account_id"`
	Payments  []domain.PaymentResult `json:"payments"`
}

// FederationRegisterRequest is the body peers POST to /federation/register.
type FederationRegisterRequest struct {
	Username  string `json:"username" binding:"required,max=64"`
	AccountID string `json:"account_id" binding:"required,stellar_public"`
}

// FederationErrorResponse is the bare body SEP-2 clients expect on failure.
type FederationErrorResponse struct {
	Detail string `json:"detail"`
}
