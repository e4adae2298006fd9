package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/txnbuild"
)

const (
	amountScale   = 7
	maxMemoText   = 28
	defaultTxSecs = 300
)

// maxAmount is the largest amount the ledger can represent (int64 stroops).
var maxAmount = decimal.New(9223372036854775807, -amountScale)

// PaymentOptions tunes the payment executor.
type PaymentOptions struct {
	BaseFee            int64
	TxTimeout          time.Duration
	SerializePerWallet bool
	InflightTTL        time.Duration
	ResultTTL          time.Duration
}

// PaymentServiceImpl implements ports.PaymentExecutor.
type PaymentServiceImpl struct {
	keys       ports.KeyManager
	directory  ports.Directory
	remote     ports.FederationResolver // nil: local directory only
	gateway    ports.AccountGateway
	guard      ports.PaymentGuard
	cache      ports.PaymentResultCache
	paymentLog ports.PaymentLogRepository // nil: attempts are only logged
	locks      *walletLocks
	opts       PaymentOptions
	log        zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	keys ports.KeyManager,
	directory ports.Directory,
	remote ports.FederationResolver,
	gateway ports.AccountGateway,
	guard ports.PaymentGuard,
	cache ports.PaymentResultCache,
	paymentLog ports.PaymentLogRepository,
	opts PaymentOptions,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		keys:       keys,
		directory:  directory,
		remote:     remote,
		gateway:    gateway,
		guard:      guard,
		cache:      cache,
		paymentLog: paymentLog,
		locks:      newWalletLocks(),
		opts:       opts,
		log:        log,
	}
}

// Execute runs one payment through the state machine:
// RESOLVING_DESTINATION -> VERIFYING_FUNDED -> BUILDING -> SIGNING -> SUBMITTING.
// Nothing is retried. On failure the returned result records the state
// that failed alongside the error.
func (s *PaymentServiceImpl) Execute(ctx context.Context, req ports.PaymentRequest) (*domain.PaymentResult, error) {
	source, err := s.keys.FromSecret(req.SourceSecret)
	if err != nil {
		return nil, err
	}
	amount, err := normalizeAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if !req.Asset.IsNative() && !domain.IsValidPublicKey(req.Asset.Issuer) {
		return nil, apperror.ErrInvalidKeyFormat("asset issuer")
	}

	paymentID := uuid.New()

	var idempKey string
	if req.IdempotencyToken != "" {
		idempKey = domain.BuildPaymentIdempotencyKey(source.PublicKey, req.IdempotencyToken)
		if cached := s.cachedResult(ctx, idempKey); cached != nil {
			return cached, nil
		}
	}

	// The wallet lock is taken before the guard so time spent queued does
	// not count against the guard's TTL.
	if s.opts.SerializePerWallet {
		unlock := s.locks.lock(domain.BuildWalletLockKey(source.PublicKey))
		defer unlock()
	}

	if idempKey != "" {
		owner := paymentID.String()
		acquired, err := s.guard.Acquire(ctx, idempKey, owner, s.opts.InflightTTL)
		if err != nil {
			return nil, apperror.ErrStorage(fmt.Errorf("acquire payment guard: %w", err))
		}
		if !acquired {
			return nil, apperror.ErrDuplicatePayment()
		}
		defer func() {
			if err := s.guard.Release(context.WithoutCancel(ctx), idempKey, owner); err != nil {
				s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to release payment guard")
			}
		}()

		// Another request with the same token may have completed between
		// the first cache read and Acquire.
		if cached := s.cachedResult(ctx, idempKey); cached != nil {
			return cached, nil
		}
	}

	result := &domain.PaymentResult{
		ID:              paymentID,
		IdempotencyKey:  idempKey,
		SourceAccountID: source.PublicKey,
		Destination:     req.Destination,
		Amount:          amount,
		Asset:           req.Asset.String(),
		CreatedAt:       time.Now().UTC(),
	}

	result.State = domain.PaymentStateResolvingDestination
	destID, fedMemo, fedMemoType, err := s.resolveDestination(ctx, req.Destination)
	if err != nil {
		return s.fail(ctx, result, err)
	}
	result.DestinationAccountID = destID

	result.State = domain.PaymentStateVerifyingFunded
	funded, err := s.gateway.Exists(ctx, destID)
	if err != nil {
		return s.fail(ctx, result, err)
	}
	if !funded {
		return s.fail(ctx, result, apperror.ErrDestinationNotFunded())
	}

	result.State = domain.PaymentStateBuilding
	memo, memoType := req.Memo, req.MemoType
	if fedMemo != "" {
		memo, memoType = fedMemo, fedMemoType
	}
	result.Memo, result.MemoType = memo, memoType

	envelope, err := s.buildEnvelope(ctx, source.PublicKey, destID, amount, req.Asset, memo, memoType)
	if err != nil {
		return s.fail(ctx, result, err)
	}

	result.State = domain.PaymentStateSigning
	signed, err := s.keys.SignEnvelope(envelope, req.SourceSecret)
	if err != nil {
		return s.fail(ctx, result, err)
	}

	result.State = domain.PaymentStateSubmitting
	hash, err := s.gateway.Submit(ctx, signed)
	if err != nil {
		return s.fail(ctx, result, err)
	}

	now := time.Now().UTC()
	result.State = domain.PaymentStateSucceeded
	result.TransactionHash = hash
	result.CompletedAt = &now

	s.log.Info().
		Str("payment_id", result.ID.String()).
		Str("source", result.SourceAccountID).
		Str("destination", destID).
		Str("amount", amount).
		Str("asset", result.Asset).
		Str("hash", hash).
		Msg("payment succeeded")

	s.record(ctx, result)
	if idempKey != "" {
		s.cacheResult(ctx, idempKey, result)
	}
	return result, nil
}

// resolveDestination returns the destination account id plus any memo the
// federation record mandates. The local directory always wins over the remote server.
func (s *PaymentServiceImpl) resolveDestination(ctx context.Context, destination string) (string, string, string, error) {
	if !domain.LooksFederated(destination) {
		if !domain.IsValidPublicKey(destination) {
			return "", "", "", apperror.ErrUnresolvableDestination("not a valid account id")
		}
		return destination, "", "", nil
	}

	addr, ok := domain.ParseFederatedAddress(destination)
	if !ok {
		return "", "", "", apperror.ErrUnresolvableDestination("malformed federated address")
	}
	if !strings.EqualFold(addr.Domain, s.directory.Domain()) {
		return "", "", "", apperror.ErrUnresolvableDestination("unsupported federation domain " + addr.Domain)
	}

	if id, ok := s.directory.ResolveByUsername(addr.Username); ok {
		return id, "", "", nil
	}
	if s.remote == nil {
		return "", "", "", apperror.ErrUnresolvableDestination("unknown username " + addr.Username)
	}

	record := s.remote.ResolveName(ctx, strings.ToLower(addr.String()))
	switch {
	case record.NotFound:
		return "", "", "", apperror.ErrUnresolvableDestination("unknown username " + addr.Username)
	case record.Error != "":
		return "", "", "", apperror.ErrUnresolvableDestination(record.Error)
	case !domain.IsValidPublicKey(record.AccountID):
		return "", "", "", apperror.ErrUnresolvableDestination("federation server returned an invalid account id")
	}
	return record.AccountID, record.Memo, record.MemoType, nil
}

func (s *PaymentServiceImpl) buildEnvelope(
	ctx context.Context,
	sourceID, destID, amount string,
	asset domain.Asset,
	memo, memoType string,
) (string, error) {
	account, err := s.gateway.LoadAccount(ctx, sourceID)
	if err != nil {
		return "", err
	}

	txMemo, err := buildMemo(memo, memoType)
	if err != nil {
		return "", err
	}

	var txAsset txnbuild.Asset = txnbuild.NativeAsset{}
	if !asset.IsNative() {
		txAsset = txnbuild.CreditAsset{Code: asset.Code, Issuer: asset.Issuer}
	}

	fee := s.opts.BaseFee
	if fee < txnbuild.MinBaseFee {
		fee = txnbuild.MinBaseFee
	}
	timeout := int64(s.opts.TxTimeout.Seconds())
	if timeout <= 0 {
		timeout = defaultTxSecs
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        account,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{&txnbuild.Payment{
			Destination: destID,
			Amount:      amount,
			Asset:       txAsset,
		}},
		BaseFee:       fee,
		Memo:          txMemo,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(timeout)},
	})
	if err != nil {
		return "", apperror.Validation(fmt.Sprintf("cannot build payment: %v", err))
	}

	envelope, err := tx.Base64()
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("encoding envelope: %w", err))
	}
	return envelope, nil
}

func (s *PaymentServiceImpl) fail(ctx context.Context, result *domain.PaymentResult, err error) (*domain.PaymentResult, error) {
	now := time.Now().UTC()
	result.FailedAt = result.State
	result.State = domain.PaymentStateFailed
	result.FailureReason = failureReason(err)
	result.CompletedAt = &now

	s.log.Warn().
		Str("payment_id", result.ID.String()).
		Str("source", result.SourceAccountID).
		Str("destination", result.Destination).
		Str("failed_at", string(result.FailedAt)).
		Str("reason", result.FailureReason).
		Msg("payment failed")

	s.record(ctx, result)
	return result, err
}

func (s *PaymentServiceImpl) record(ctx context.Context, result *domain.PaymentResult) {
	if s.paymentLog == nil {
		return
	}
	if err := s.paymentLog.Record(context.WithoutCancel(ctx), result); err != nil {
		s.log.Warn().Err(err).Str("payment_id", result.ID.String()).Msg("failed to record payment")
	}
}

func (s *PaymentServiceImpl) cachedResult(ctx context.Context, key string) *domain.PaymentResult {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("payment result cache read failed")
		return nil
	}
	if data == nil {
		return nil
	}
	var result domain.PaymentResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cached payment result")
		return nil
	}
	return &result
}

// cacheResult stores only successful results; a failed payment may be
// retried with the same token.
func (s *PaymentServiceImpl) cacheResult(ctx context.Context, key string, result *domain.PaymentResult) {
	data, err := json.Marshal(result)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal payment result for cache")
		return
	}
	if err := s.cache.Set(context.WithoutCancel(ctx), key, data, s.opts.ResultTTL); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache payment result")
	}
}

func failureReason(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if len(appErr.Details) > 0 {
			return appErr.Message + " (" + strings.Join(appErr.Details, ", ") + ")"
		}
		return appErr.Message
	}
	return err.Error()
}

// normalizeAmount validates a decimal amount and renders it with the
// ledger's fixed seven fractional digits.
func normalizeAmount(raw string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", apperror.ErrInvalidAmount("not a decimal number")
	}
	if !d.IsPositive() {
		return "", apperror.ErrInvalidAmount("must be greater than zero")
	}
	if !d.Equal(d.Truncate(amountScale)) {
		return "", apperror.ErrInvalidAmount("at most 7 decimal places are allowed")
	}
	if d.GreaterThan(maxAmount) {
		return "", apperror.ErrInvalidAmount("exceeds the maximum ledger amount")
	}
	return d.StringFixed(amountScale), nil
}

func buildMemo(memo, memoType string) (txnbuild.Memo, error) {
	if memo == "" {
		return nil, nil
	}

	switch strings.ToLower(memoType) {
	case "", domain.MemoTypeText:
		if len(memo) > maxMemoText {
			return nil, apperror.Validation("text memo must be at most 28 bytes")
		}
		return txnbuild.MemoText(memo), nil
	case domain.MemoTypeID:
		id, err := strconv.ParseUint(memo, 10, 64)
		if err != nil {
			return nil, apperror.Validation("id memo must be an unsigned 64-bit integer")
		}
		return txnbuild.MemoID(id), nil
	case domain.MemoTypeHash:
		raw, err := decodeMemoHash(memo)
		if err != nil {
			return nil, apperror.Validation("hash memo must be 32 bytes, hex or base64 encoded")
		}
		var h txnbuild.MemoHash
		copy(h[:], raw)
		return h, nil
	default:
		return nil, apperror.Validation("unsupported memo type " + memoType)
	}
}

func decodeMemoHash(s string) ([]byte, error) {
	if raw, err := hex.DecodeString(s); err == nil && len(raw) == 32 {
		return raw, nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("memo hash is %d bytes", len(raw))
	}
	return raw, nil
}

// walletLocks hands out one mutex per key, dropping it when unused.
type walletLocks struct {
	mu    sync.Mutex
	locks map[string]*walletLock
}

type walletLock struct {
	mu   sync.Mutex
	refs int
}

func newWalletLocks() *walletLocks {
	return &walletLocks{locks: make(map[string]*walletLock)}
}

func (w *walletLocks) lock(key string) func() {
	w.mu.Lock()
	l, ok := w.locks[key]
	if !ok {
		l = &walletLock{}
		w.locks[key] = l
	}
	l.refs++
	w.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		w.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(w.locks, key)
		}
		w.mu.Unlock()
	}
}
