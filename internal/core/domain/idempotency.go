package domain

// BuildPaymentIdempotencyKey scopes a client token to the paying wallet.
// Format: "payment:<source account id>:<token>".
func BuildPaymentIdempotencyKey(sourceAccountID, token string) string {
	return "payment:" + sourceAccountID + ":" + token
}

// BuildWalletLockKey is the key used to serialize payments per source wallet.
func BuildWalletLockKey(sourceAccountID string) string {
	return "wallet:" + sourceAccountID
}
