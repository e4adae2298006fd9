package service

import (
	"context"
	"errors"
	"strings"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 200
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	keys         ports.KeyManager
	directory    ports.Directory
	remote       ports.FederationResolver // nil: local directory only
	gateway      ports.AccountGateway
	fundOnCreate bool
	log          zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	keys ports.KeyManager,
	directory ports.Directory,
	remote ports.FederationResolver,
	gateway ports.AccountGateway,
	fundOnCreate bool,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		keys:         keys,
		directory:    directory,
		remote:       remote,
		gateway:      gateway,
		fundOnCreate: fundOnCreate,
		log:          log,
	}
}

// GenerateWallet creates a new keypair, optionally binding a username and
// asking the faucet to fund it. The secret key is returned, never stored.
func (s *WalletServiceImpl) GenerateWallet(ctx context.Context, req ports.GenerateWalletRequest) (*domain.Wallet, error) {
	username := optionalUsername(req.Username)
	if username != nil {
		if err := s.ensureRegistrable(ctx, *username); err != nil {
			return nil, err
		}
	}

	kp, err := s.keys.Generate()
	if err != nil {
		return nil, err
	}

	if username != nil {
		if err := s.directory.Register(ctx, *username, kp.PublicKey); err != nil {
			return nil, err
		}
	}

	fund := s.fundOnCreate
	if req.Fund != nil {
		fund = *req.Fund
	}
	if fund {
		if err := s.gateway.FundTestAccount(ctx, kp.PublicKey); err != nil {
			s.log.Info().Err(err).Str("account_id", kp.PublicKey).Msg("skipping test funding")
		}
	}

	wallet := domain.NewWallet(kp, username, s.directory.Domain())
	s.log.Info().Str("account_id", wallet.PublicKey).Bool("has_username", username != nil).Msg("wallet generated")
	return wallet, nil
}

// ImportWallet restores a wallet from its secret key. Without a username the
// directory is consulted so a previously registered name is reported.
func (s *WalletServiceImpl) ImportWallet(ctx context.Context, req ports.ImportWalletRequest) (*domain.Wallet, error) {
	kp, err := s.keys.FromSecret(req.SecretKey)
	if err != nil {
		return nil, err
	}

	username := optionalUsername(req.Username)
	if username == nil {
		if name, ok := s.directory.ResolveByAccountID(kp.PublicKey); ok {
			username = &name
		}
		return domain.NewWallet(kp, username, s.directory.Domain()), nil
	}

	if _, err := s.RegisterUsername(ctx, *username, kp.PublicKey); err != nil {
		return nil, err
	}
	return domain.NewWallet(kp, username, s.directory.Domain()), nil
}

// ValidateUsername merges the naming rules and availability into one result.
// Availability is only checked for names that pass the rules.
func (s *WalletServiceImpl) ValidateUsername(ctx context.Context, username string) (*domain.UsernameValidation, error) {
	v := domain.ValidateUsername(username)
	if !v.IsValid {
		return &v, nil
	}

	available, err := s.directory.IsAvailable(ctx, username)
	if err != nil {
		return nil, err
	}
	v.IsAvailable = available
	return &v, nil
}

// RegisterUsername binds username to accountID. Repeating a registration
// for the same account succeeds without side effects.
func (s *WalletServiceImpl) RegisterUsername(ctx context.Context, username, accountID string) (string, error) {
	if !domain.IsValidPublicKey(accountID) {
		return "", apperror.ErrInvalidKeyFormat("account id")
	}

	name := domain.NormalizeUsername(username)
	if existing, ok := s.directory.ResolveByUsername(name); ok {
		if existing != accountID {
			return "", apperror.ErrUsernameUnavailable(name)
		}
		return domain.BuildFederatedAddress(name, s.directory.Domain()), nil
	}

	if err := s.ensureRegistrable(ctx, username); err != nil {
		return "", err
	}
	if err := s.directory.Register(ctx, name, accountID); err != nil {
		return "", err
	}
	return domain.BuildFederatedAddress(name, s.directory.Domain()), nil
}

// Resolve answers a federation query, local directory first.
func (s *WalletServiceImpl) Resolve(ctx context.Context, q string, queryType domain.FederationQueryType) (*domain.FederationRecord, error) {
	switch queryType {
	case domain.FederationQueryName:
		return s.resolveName(ctx, q)
	case domain.FederationQueryID:
		return s.resolveID(ctx, q)
	default:
		return nil, apperror.Validation("type must be one of: name, id")
	}
}

func (s *WalletServiceImpl) resolveName(ctx context.Context, q string) (*domain.FederationRecord, error) {
	addr, ok := domain.ParseFederatedAddress(q)
	if !ok {
		return nil, apperror.ErrUnresolvableDestination("malformed federated address")
	}
	if !strings.EqualFold(addr.Domain, s.directory.Domain()) {
		return nil, apperror.ErrUnresolvableDestination("unsupported federation domain " + addr.Domain)
	}

	canonical := domain.BuildFederatedAddress(addr.Username, addr.Domain)
	if id, ok := s.directory.ResolveByUsername(addr.Username); ok {
		return &domain.FederationRecord{StellarAddress: canonical, AccountID: id}, nil
	}
	if s.remote == nil {
		return nil, apperror.ErrFederationRecordNotFound()
	}
	return remoteOutcome(s.remote.ResolveName(ctx, canonical))
}

func (s *WalletServiceImpl) resolveID(ctx context.Context, accountID string) (*domain.FederationRecord, error) {
	if !domain.IsValidPublicKey(accountID) {
		return nil, apperror.ErrInvalidKeyFormat("account id")
	}
	if name, ok := s.directory.ResolveByAccountID(accountID); ok {
		return &domain.FederationRecord{
			StellarAddress: domain.BuildFederatedAddress(name, s.directory.Domain()),
			AccountID:      accountID,
		}, nil
	}
	if s.remote == nil {
		return nil, apperror.ErrFederationRecordNotFound()
	}
	return remoteOutcome(s.remote.ResolveID(ctx, accountID))
}

func remoteOutcome(record *domain.FederationRecord) (*domain.FederationRecord, error) {
	switch {
	case record.NotFound:
		return nil, apperror.ErrFederationRecordNotFound()
	case record.Error != "":
		return nil, apperror.ErrNetwork("federation server", errors.New(record.Error))
	}
	return record, nil
}

// GetBalances returns fresh balances; unfunded accounts report a zero native balance.
func (s *WalletServiceImpl) GetBalances(ctx context.Context, accountID string) ([]domain.Balance, error) {
	if !domain.IsValidPublicKey(accountID) {
		return nil, apperror.ErrInvalidKeyFormat("account id")
	}
	return s.gateway.GetBalances(ctx, accountID)
}

// GetTransactionHistory returns up to limit transactions, newest first.
func (s *WalletServiceImpl) GetTransactionHistory(ctx context.Context, accountID string, limit int) ([]domain.TransactionRecord, error) {
	if !domain.IsValidPublicKey(accountID) {
		return nil, apperror.ErrInvalidKeyFormat("account id")
	}
	return s.gateway.GetTransactionHistory(ctx, accountID, clampHistoryLimit(limit))
}

// FundAccount asks the test-network faucet to fund accountID.
func (s *WalletServiceImpl) FundAccount(ctx context.Context, accountID string) error {
	if !domain.IsValidPublicKey(accountID) {
		return apperror.ErrInvalidKeyFormat("account id")
	}
	return s.gateway.FundTestAccount(ctx, accountID)
}

// ensureRegistrable checks the naming rules, then availability.
func (s *WalletServiceImpl) ensureRegistrable(ctx context.Context, username string) error {
	if v := domain.ValidateUsername(username); !v.IsValid {
		return apperror.ErrUsernameInvalid(v.Errors)
	}
	available, err := s.directory.IsAvailable(ctx, username)
	if err != nil {
		return err
	}
	if !available {
		return apperror.ErrUsernameUnavailable(domain.NormalizeUsername(username))
	}
	return nil
}

func optionalUsername(u *string) *string {
	if u == nil || *u == "" {
		return nil
	}
	return u
}

func clampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return limit
}
