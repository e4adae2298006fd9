package domain

import "time"

const (
	// NativeAssetCode is the display code of the ledger's native asset.
	NativeAssetCode = "XLM"
	// ZeroBalance is the balance reported for accounts the ledger has not seen yet.
	ZeroBalance = "0.0000000"
)

// Balance is a single asset balance, fetched fresh on each query.
type Balance struct {
	Asset   string `json:"asset"`
	Issuer  string `json:"issuer,omitempty"`
	Balance string `json:"balance"`
}

// UnfundedBalances is what an account that does not exist yet holds.
func UnfundedBalances() []Balance {
	return []Balance{{Asset: NativeAssetCode, Balance: ZeroBalance}}
}

// TransactionRecord is a ledger transaction, exposed largely pass-through.
type TransactionRecord struct {
	ID             string    `json:"id"`
	Hash           string    `json:"hash"`
	CreatedAt      time.Time `json:"created_at"`
	OperationCount int32     `json:"operation_count"`
	Successful     bool      `json:"successful"`
	MemoType       string    `json:"memo_type,omitempty"`
	Memo           string    `json:"memo,omitempty"`
}

// Asset identifies what a payment moves. An empty or "XLM" code without an
// issuer is the native asset.
type Asset struct {
	Code   string `json:"code"`
	Issuer string `json:"issuer,omitempty"`
}

// IsNative reports whether the asset is the ledger's native asset.
func (a Asset) IsNative() bool {
	return a.Issuer == "" && (a.Code == "" || a.Code == NativeAssetCode || a.Code == "native")
}

func (a Asset) String() string {
	if a.IsNative() {
		return NativeAssetCode
	}
	return a.Code + ":" + a.Issuer
}
