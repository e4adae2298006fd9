package federation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Headers carried by signed requests between federation peers.
const (
	HeaderSignature = "X-Federation-Signature"
	HeaderTimestamp = "X-Federation-Timestamp"
	HeaderNonce     = "X-Federation-Nonce"
)

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	maxResponseBytes    = 64 << 10
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	BaseURL      string // e.g. https://chappi.com/federation
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SharedSecret string // empty: register requests are sent unsigned
}

// Client implements ports.FederationResolver against a remote federation server.
// It never returns Go errors: lookups carry failures in the record and
// registration reports a plain bool.
type Client struct {
	cfg    Config
	http   HTTPClient
	signer ports.SignatureService
	log    zerolog.Logger
}

// NewClient creates a federation client. signer may be nil when no shared secret is configured.
func NewClient(cfg Config, httpClient HTTPClient, signer ports.SignatureService, log zerolog.Logger) *Client {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, http: httpClient, signer: signer, log: log}
}

// ResolveName looks up a "name*domain" address.
func (c *Client) ResolveName(ctx context.Context, address string) *domain.FederationRecord {
	return c.resolve(ctx, address, domain.FederationQueryName)
}

// ResolveID looks up the address bound to an account id.
func (c *Client) ResolveID(ctx context.Context, accountID string) *domain.FederationRecord {
	return c.resolve(ctx, accountID, domain.FederationQueryID)
}

func (c *Client) resolve(ctx context.Context, q string, queryType domain.FederationQueryType) *domain.FederationRecord {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ReadTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", q)
	params.Set("type", string(queryType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return &domain.FederationRecord{Error: fmt.Sprintf("building federation request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("q", q).Str("type", string(queryType)).Msg("federation lookup failed")
		return &domain.FederationRecord{Error: fmt.Sprintf("federation server unreachable: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &domain.FederationRecord{Error: fmt.Sprintf("reading federation response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.FederationRecord{NotFound: true, Error: "federation record not found"}
	case resp.StatusCode != http.StatusOK:
		return &domain.FederationRecord{Error: "federation server returned HTTP " + strconv.Itoa(resp.StatusCode)}
	}

	var record domain.FederationRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return &domain.FederationRecord{Error: "invalid federation response"}
	}
	if record.Error == "" && record.AccountID == "" {
		record.Error = "federation response has no account_id"
	}
	return &record
}

// RegisterAddress pushes a username mapping to the remote server.
// Returns true only on HTTP 200 or 201.
func (c *Client) RegisterAddress(ctx context.Context, reqBody ports.RegisterAddressRequest) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.WriteTimeout)
	defer cancel()

	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.log.Error().Err(err).Msg("federation register: failed to marshal payload")
		return false
	}

	endpoint := c.cfg.BaseURL + "/register"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		c.log.Error().Err(err).Msg("federation register: failed to create request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	c.sign(req, payload)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("username", reqBody.Username).Msg("federation register: delivery failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return true
	}
	c.log.Warn().Str("username", reqBody.Username).Int("status", resp.StatusCode).Msg("federation register: rejected")
	return false
}

func (c *Client) sign(req *http.Request, body []byte) {
	if c.cfg.SharedSecret == "" || c.signer == nil {
		return
	}
	ts := time.Now().Unix()
	nonce := uuid.NewString()
	canonical := c.signer.BuildCanonicalString(req.Method, req.URL.Path, ts, nonce, string(body))

	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(HeaderNonce, nonce)
	req.Header.Set(HeaderSignature, c.signer.Sign(c.cfg.SharedSecret, canonical))
}
