package domain

import "fmt"

// Keypair is an ed25519 ledger keypair in strkey form.
type Keypair struct {
	PublicKey string `json:"public_key"`
	SecretKey string `json:"-"`
}

// String never prints the secret key.
func (k Keypair) String() string {
	return fmt.Sprintf("Keypair{PublicKey: %s}", k.PublicKey)
}

// GoString keeps %#v from leaking the secret key.
func (k Keypair) GoString() string {
	return k.String()
}

// Wallet is a keypair optionally bound to a federation username.
// It is immutable once created; the service never persists the secret key.
type Wallet struct {
	PublicKey        string  `json:"public_key"`
	SecretKey        string  `json:"-"` // returned to the caller explicitly, never serialized implicitly
	Username         *string `json:"username,omitempty"`
	FederatedAddress *string `json:"federated_address,omitempty"`
}

// NewWallet binds a keypair to an optional username within domain.
func NewWallet(kp *Keypair, username *string, domain string) *Wallet {
	w := &Wallet{
		PublicKey: kp.PublicKey,
		SecretKey: kp.SecretKey,
	}
	if username != nil && *username != "" {
		name := NormalizeUsername(*username)
		addr := BuildFederatedAddress(name, domain)
		w.Username = &name
		w.FederatedAddress = &addr
	}
	return w
}

func (w Wallet) String() string {
	addr := "-"
	if w.FederatedAddress != nil {
		addr = *w.FederatedAddress
	}
	return fmt.Sprintf("Wallet{PublicKey: %s, FederatedAddress: %s}", w.PublicKey, addr)
}

func (w Wallet) GoString() string {
	return w.String()
}
