package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DirectoryOptions configures a DirectoryService.
type DirectoryOptions struct {
	Domain string
	// FailOpen treats a failed remote availability check as "available".
	FailOpen bool
}

// DirectoryService implements ports.Directory.
// The forward map and its reverse index are only mutated together under mu,
// and the whole table is persisted before the lock is released.
type DirectoryService struct {
	mu      sync.RWMutex
	forward map[string]string // username -> account id
	reverse map[string]string // account id -> first username registered for it

	store  ports.DirectoryStore
	remote ports.FederationResolver // nil when no remote federation server is configured
	outbox ports.SyncOutbox         // nil disables retrying failed remote registrations
	opts   DirectoryOptions
	log    zerolog.Logger
}

// NewDirectoryService loads the directory from store and returns a ready service.
func NewDirectoryService(
	ctx context.Context,
	store ports.DirectoryStore,
	remote ports.FederationResolver,
	outbox ports.SyncOutbox,
	opts DirectoryOptions,
	log zerolog.Logger,
) (*DirectoryService, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading directory from %s: %w", store.Name(), err)
	}

	s := &DirectoryService{
		forward: make(map[string]string, len(entries)),
		reverse: make(map[string]string, len(entries)),
		store:   store,
		remote:  remote,
		outbox:  outbox,
		opts:    opts,
		log:     log,
	}

	// Sorted so the reverse index is stable across restarts.
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := domain.NormalizeUsername(name)
		s.forward[key] = entries[name]
		if _, ok := s.reverse[entries[name]]; !ok {
			s.reverse[entries[name]] = key
		}
	}

	log.Info().Str("backend", store.Name()).Int("entries", len(s.forward)).Msg("federation directory loaded")
	return s, nil
}

// Domain returns the federation domain this directory is authoritative for.
func (s *DirectoryService) Domain() string {
	return s.opts.Domain
}

// IsAvailable reports whether username can be registered. The local table is
// consulted first; the remote federation server only on a local miss.
func (s *DirectoryService) IsAvailable(ctx context.Context, username string) (bool, error) {
	name := domain.NormalizeUsername(username)

	s.mu.RLock()
	_, taken := s.forward[name]
	s.mu.RUnlock()
	if taken {
		return false, nil
	}

	if s.remote == nil {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	address := domain.BuildFederatedAddress(name, s.opts.Domain)
	record := s.remote.ResolveName(ctx, address)
	switch {
	case record.NotFound:
		return true, nil
	case record.Error != "":
		s.log.Warn().
			Str("username", name).
			Str("error", record.Error).
			Bool("fail_open", s.opts.FailOpen).
			Msg("remote availability check failed")
		return s.opts.FailOpen, nil
	default:
		return record.AccountID == "", nil
	}
}

// Register binds username to accountID. Registering the same pair again is a
// no-op; a username bound to another account yields UsernameUnavailable.
func (s *DirectoryService) Register(ctx context.Context, username, accountID string) error {
	name := domain.NormalizeUsername(username)
	if v := domain.ValidateUsername(name); !v.IsValid {
		return apperror.ErrUsernameInvalid(v.Errors)
	}
	if !domain.IsValidPublicKey(accountID) {
		return apperror.ErrInvalidKeyFormat("account id")
	}

	s.mu.Lock()
	if existing, ok := s.forward[name]; ok {
		s.mu.Unlock()
		if existing == accountID {
			return nil
		}
		return apperror.ErrUsernameUnavailable(name)
	}

	s.forward[name] = accountID
	if err := s.store.Save(ctx, s.snapshotLocked()); err != nil {
		delete(s.forward, name)
		s.mu.Unlock()
		return apperror.ErrStorage(fmt.Errorf("persisting directory: %w", err))
	}
	if _, ok := s.reverse[accountID]; !ok {
		s.reverse[accountID] = name
	}
	s.mu.Unlock()

	s.log.Info().Str("username", name).Str("account_id", accountID).Msg("username registered")
	s.notifyRemote(ctx, name, accountID)
	return nil
}

// ResolveByUsername looks up the account id bound to username.
func (s *DirectoryService) ResolveByUsername(username string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.forward[domain.NormalizeUsername(username)]
	return id, ok
}

// ResolveByAccountID looks up the username bound to accountID.
func (s *DirectoryService) ResolveByAccountID(accountID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.reverse[accountID]
	return name, ok
}

// Entries returns a snapshot of the directory sorted by username.
func (s *DirectoryService) Entries() []domain.DirectoryEntry {
	s.mu.RLock()
	out := make([]domain.DirectoryEntry, 0, len(s.forward))
	for name, id := range s.forward {
		out = append(out, domain.DirectoryEntry{Username: name, AccountID: id})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *DirectoryService) snapshotLocked() map[string]string {
	cp := make(map[string]string, len(s.forward))
	for k, v := range s.forward {
		cp[k] = v
	}
	return cp
}

// notifyRemote pushes a new mapping to the remote federation server.
// Failure never fails the registration; it is queued for retry instead.
func (s *DirectoryService) notifyRemote(ctx context.Context, username, accountID string) {
	if s.remote == nil {
		return
	}

	req := ports.RegisterAddressRequest{Username: username, AccountID: accountID}
	if s.remote.RegisterAddress(ctx, req) {
		return
	}

	s.log.Warn().Str("username", username).Str("account_id", accountID).Msg("remote federation register failed")
	if s.outbox == nil {
		return
	}

	now := time.Now().UTC()
	item := &domain.PendingSync{
		ID:            uuid.New(),
		Username:      username,
		AccountID:     accountID,
		LastError:     "initial register rejected",
		NextAttemptAt: now.Add(syncRetryIntervals[0]),
		CreatedAt:     now,
	}
	if err := s.outbox.Enqueue(context.WithoutCancel(ctx), item); err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("failed to enqueue federation sync")
	}
}
