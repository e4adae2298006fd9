package service

import (
	"fmt"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/pkg/apperror"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// StellarKeyManager implements ports.KeyManager on top of the ledger SDK.
// It holds no keys; every call is independent.
type StellarKeyManager struct {
	passphrase string
}

// NewStellarKeyManager creates a key manager signing for the given network passphrase.
func NewStellarKeyManager(passphrase string) *StellarKeyManager {
	return &StellarKeyManager{passphrase: passphrase}
}

// Generate creates a fresh keypair from the OS random source.
func (m *StellarKeyManager) Generate() (*domain.Keypair, error) {
	kp, err := keypair.Random()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generating keypair: %w", err))
	}
	return &domain.Keypair{PublicKey: kp.Address(), SecretKey: kp.Seed()}, nil
}

// FromSecret derives the keypair for a secret seed.
func (m *StellarKeyManager) FromSecret(secret string) (*domain.Keypair, error) {
	kp, err := parseSecret(secret)
	if err != nil {
		return nil, err
	}
	return &domain.Keypair{PublicKey: kp.Address(), SecretKey: kp.Seed()}, nil
}

// SignEnvelope adds a signature by secret to a base64 XDR envelope.
func (m *StellarKeyManager) SignEnvelope(envelopeXDR string, secret string) (string, error) {
	kp, err := parseSecret(secret)
	if err != nil {
		return "", err
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", apperror.ErrInvalidKeyFormat("transaction envelope")
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", apperror.ErrInvalidKeyFormat("transaction envelope")
	}

	signed, err := tx.Sign(m.passphrase, kp)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("signing envelope: %w", err))
	}
	out, err := signed.Base64()
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("encoding envelope: %w", err))
	}
	return out, nil
}

// parseSecret never includes the secret in the returned error.
func parseSecret(secret string) (*keypair.Full, error) {
	if !domain.IsValidSecretKey(secret) {
		return nil, apperror.ErrInvalidKeyFormat("secret key")
	}
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return nil, apperror.ErrInvalidKeyFormat("secret key")
	}
	return kp, nil
}
