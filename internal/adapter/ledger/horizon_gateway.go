package ledger

import (
	"context"
	"net/http"
	"strings"
	"time"

	"chappi-wallet/internal/core/domain"
	"chappi-wallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
)

// GatewayConfig configures the Horizon gateway.
type GatewayConfig struct {
	HorizonURL     string
	FaucetURL      string
	Public         bool // public network: the faucet is refused
	RequestTimeout time.Duration
	FaucetTimeout  time.Duration
}

// HorizonGateway implements ports.AccountGateway on top of a Horizon server.
// Balances and history are always fetched fresh; nothing is cached.
type HorizonGateway struct {
	horizon *horizonclient.Client
	faucet  *Faucet
	log     zerolog.Logger
}

// NewHorizonGateway creates a gateway. faucetHTTP may be nil.
func NewHorizonGateway(cfg GatewayConfig, faucetHTTP HTTPClient, log zerolog.Logger) *HorizonGateway {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	return &HorizonGateway{
		horizon: &horizonclient.Client{
			HorizonURL: cfg.HorizonURL,
			HTTP:       &http.Client{Timeout: cfg.RequestTimeout},
			AppName:    "chappi-wallet",
		},
		faucet: NewFaucet(cfg.FaucetURL, cfg.Public, cfg.FaucetTimeout, faucetHTTP, log),
		log:    log,
	}
}

// Exists reports whether the account has been created on the ledger.
func (g *HorizonGateway) Exists(ctx context.Context, accountID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperror.ErrNetwork("ledger", err)
	}
	_, err := g.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, g.mapError("account lookup", err)
	}
	return true, nil
}

// GetBalances returns every balance the account holds. An account the
// ledger has not seen yet holds a zero native balance.
func (g *HorizonGateway) GetBalances(ctx context.Context, accountID string) ([]domain.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.ErrNetwork("ledger", err)
	}
	acct, err := g.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	if err != nil {
		if isNotFound(err) {
			return domain.UnfundedBalances(), nil
		}
		return nil, g.mapError("balance lookup", err)
	}

	balances := make([]domain.Balance, 0, len(acct.Balances))
	for _, b := range acct.Balances {
		balances = append(balances, toBalance(b))
	}
	return balances, nil
}

func toBalance(b hProtocol.Balance) domain.Balance {
	if b.Asset.Type == "native" {
		return domain.Balance{Asset: domain.NativeAssetCode, Balance: b.Balance}
	}
	return domain.Balance{Asset: b.Asset.Code, Issuer: b.Asset.Issuer, Balance: b.Balance}
}

// GetTransactionHistory returns the most recent transactions, newest first.
func (g *HorizonGateway) GetTransactionHistory(ctx context.Context, accountID string, limit int) ([]domain.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.ErrNetwork("ledger", err)
	}
	page, err := g.horizon.Transactions(horizonclient.TransactionRequest{
		ForAccount: accountID,
		Order:      horizonclient.OrderDesc,
		Limit:      uint(limit),
	})
	if err != nil {
		if isNotFound(err) {
			return []domain.TransactionRecord{}, nil
		}
		return nil, g.mapError("history lookup", err)
	}

	records := make([]domain.TransactionRecord, 0, len(page.Embedded.Records))
	for _, tx := range page.Embedded.Records {
		records = append(records, domain.TransactionRecord{
			ID:             tx.ID,
			Hash:           tx.Hash,
			CreatedAt:      tx.LedgerCloseTime,
			OperationCount: tx.OperationCount,
			Successful:     tx.Successful,
			MemoType:       tx.MemoType,
			Memo:           tx.Memo,
		})
	}
	return records, nil
}

// FundTestAccount delegates to the faucet.
func (g *HorizonGateway) FundTestAccount(ctx context.Context, accountID string) error {
	return g.faucet.Fund(ctx, accountID)
}

// LoadAccount fetches the current sequence number of a source account.
func (g *HorizonGateway) LoadAccount(ctx context.Context, accountID string) (txnbuild.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.ErrNetwork("ledger", err)
	}
	acct, err := g.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: accountID})
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.ErrPaymentRejected("source account does not exist on the ledger", err)
		}
		return nil, g.mapError("source account lookup", err)
	}
	seq, err := acct.GetSequenceNumber()
	if err != nil {
		return nil, apperror.ErrLedger("invalid sequence number from ledger", err)
	}
	return &txnbuild.SimpleAccount{AccountID: accountID, Sequence: seq}, nil
}

// Submit sends a signed envelope. Ledger rejections keep the result codes verbatim.
func (g *HorizonGateway) Submit(ctx context.Context, envelopeXDR string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperror.ErrNetwork("ledger", err)
	}
	tx, err := g.horizon.SubmitTransactionXDR(envelopeXDR)
	if err != nil {
		if herr := horizonclient.GetError(err); herr != nil {
			if reason := resultCodes(herr); reason != "" {
				g.log.Warn().Str("result_codes", reason).Msg("transaction rejected by ledger")
				return "", apperror.ErrPaymentRejected(reason, err)
			}
		}
		return "", g.mapError("transaction submission", err)
	}
	return tx.Hash, nil
}

// mapError separates transport failures from errors Horizon reported.
func (g *HorizonGateway) mapError(op string, err error) error {
	herr := horizonclient.GetError(err)
	if herr == nil {
		g.log.Warn().Err(err).Str("op", op).Msg("ledger unreachable")
		return apperror.ErrNetwork("ledger", err)
	}
	g.log.Warn().Int("status", herr.Problem.Status).Str("title", herr.Problem.Title).Str("op", op).Msg("ledger error")
	return apperror.ErrLedger("Ledger "+op+" failed: "+herr.Problem.Title, err)
}

func isNotFound(err error) bool {
	if horizonclient.IsNotFoundError(err) {
		return true
	}
	herr := horizonclient.GetError(err)
	return herr != nil && herr.Problem.Status == http.StatusNotFound
}

// resultCodes renders "tx_failed: op_underfunded, op_no_trust".
func resultCodes(herr *horizonclient.Error) string {
	codes, err := herr.ResultCodes()
	if err != nil || codes == nil || codes.TransactionCode == "" {
		return ""
	}
	if len(codes.OperationCodes) == 0 {
		return codes.TransactionCode
	}
	return codes.TransactionCode + ": " + strings.Join(codes.OperationCodes, ", ")
}

// HealthCheck implements ports.HealthChecker for Horizon.
type HealthCheck struct {
	gateway *HorizonGateway
}

// NewHealthCheck creates a Horizon health checker.
func NewHealthCheck(g *HorizonGateway) *HealthCheck {
	return &HealthCheck{gateway: g}
}

// Ping checks Horizon connectivity.
func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := h.gateway.horizon.Root()
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "horizon"
}
