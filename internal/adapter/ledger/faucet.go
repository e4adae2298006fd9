package ledger

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"chappi-wallet/pkg/apperror"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Faucet funds test-network accounts. It is a convenience: failures are
// logged and swallowed, only a request on the public network is an error.
type Faucet struct {
	url     string
	public  bool
	timeout time.Duration
	client  HTTPClient
	log     zerolog.Logger
}

// NewFaucet creates a faucet client. client may be nil.
func NewFaucet(faucetURL string, public bool, timeout time.Duration, client HTTPClient, log zerolog.Logger) *Faucet {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Faucet{url: faucetURL, public: public, timeout: timeout, client: client, log: log}
}

// Fund requests test funds for accountID.
func (f *Faucet) Fund(ctx context.Context, accountID string) error {
	if f.public {
		return apperror.ErrFaucetUnavailable()
	}
	if f.url == "" {
		f.log.Info().Str("account_id", accountID).Msg("faucet not configured, skipping funding")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url+"?addr="+url.QueryEscape(accountID), nil)
	if err != nil {
		f.log.Warn().Err(err).Msg("faucet: failed to create request")
		return nil
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn().Err(err).Str("account_id", accountID).Msg("faucet: request failed")
		return nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		f.log.Warn().Int("status", resp.StatusCode).Str("account_id", accountID).Msg("faucet: funding declined")
		return nil
	}
	f.log.Info().Str("account_id", accountID).Msg("account funded by faucet")
	return nil
}
