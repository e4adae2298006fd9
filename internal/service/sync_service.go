package service

import (
	"context"
	"time"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

// syncRetryIntervals is the backoff between attempts to push a registration
// to the remote federation server. The last interval repeats indefinitely.
var syncRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

const syncBatchSize = 50

// FederationSyncWorker drains the sync outbox into the remote federation server.
type FederationSyncWorker struct {
	outbox   ports.SyncOutbox
	remote   ports.FederationResolver
	interval time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewFederationSyncWorker creates a worker polling the outbox every interval.
func NewFederationSyncWorker(
	outbox ports.SyncOutbox,
	remote ports.FederationResolver,
	interval time.Duration,
	log zerolog.Logger,
) *FederationSyncWorker {
	if interval <= 0 {
		interval = syncRetryIntervals[0]
	}
	return &FederationSyncWorker{
		outbox:   outbox,
		remote:   remote,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// Run flushes the outbox on every tick until ctx is cancelled.
func (w *FederationSyncWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info().Dur("interval", w.interval).Msg("federation sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("federation sync worker stopped")
			return
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// Flush makes one delivery attempt for every due item and returns how many
// were accepted by the remote server.
func (w *FederationSyncWorker) Flush(ctx context.Context) int {
	items, err := w.outbox.Due(ctx, w.now(), syncBatchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("federation sync: failed to read outbox")
		return 0
	}

	delivered := 0
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		if w.deliver(ctx, &items[i]) {
			delivered++
		}
	}
	return delivered
}

func (w *FederationSyncWorker) deliver(ctx context.Context, item *domain.PendingSync) bool {
	ok := w.remote.RegisterAddress(ctx, ports.RegisterAddressRequest{
		Username:  item.Username,
		AccountID: item.AccountID,
	})

	if ok {
		if err := w.outbox.MarkDone(ctx, item.ID); err != nil {
			w.log.Error().Err(err).Str("sync_id", item.ID.String()).Msg("federation sync: failed to mark done")
		}
		w.log.Info().
			Str("username", item.Username).
			Int("attempt", item.Attempts+1).
			Msg("federation sync: delivered")
		return true
	}

	next := w.now().Add(nextSyncDelay(item.Attempts + 1))
	if err := w.outbox.MarkFailed(ctx, item.ID, "remote register rejected", next); err != nil {
		w.log.Error().Err(err).Str("sync_id", item.ID.String()).Msg("federation sync: failed to reschedule")
	}
	w.log.Warn().
		Str("username", item.Username).
		Int("attempt", item.Attempts+1).
		Time("next_attempt_at", next).
		Msg("federation sync: delivery failed, rescheduled")
	return false
}

// nextSyncDelay returns the wait after the given number of failed attempts.
func nextSyncDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > len(syncRetryIntervals) {
		return syncRetryIntervals[len(syncRetryIntervals)-1]
	}
	return syncRetryIntervals[attempts-1]
}
