package handler

import (
	"strconv"

	"chappi-wallet/internal/adapter/http/dto"
	"chappi-wallet/internal/adapter/http/middleware"
	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"
	"chappi-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultPaymentPageSize = 20
	maxPaymentPageSize     = 100
)

// AccountHandler serves ledger views of a single account.
type AccountHandler struct {
	walletSvc  ports.WalletService
	paymentLog ports.PaymentLogRepository
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(walletSvc ports.WalletService, paymentLog ports.PaymentLogRepository) *AccountHandler {
	return &AccountHandler{walletSvc: walletSvc, paymentLog: paymentLog}
}

// GetBalances handles GET /api/v1/accounts/:id/balances.
func (h *AccountHandler) GetBalances(c *gin.Context) {
	accountID := c.Param("id")

	balances, err := h.walletSvc.GetBalances(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalancesResponse{AccountID: accountID, Balances: balances})
}

// GetTransactions handles GET /api/v1/accounts/:id/transactions?limit=.
// A missing limit lets the service apply its default.
func (h *AccountHandler) GetTransactions(c *gin.Context) {
	accountID := c.Param("id")

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	txs, err := h.walletSvc.GetTransactionHistory(c.Request.Context(), accountID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if txs == nil {
		txs = []domain.TransactionRecord{}
	}
	response.OK(c, dto.TransactionsResponse{AccountID: accountID, Transactions: txs})
}

// Fund handles POST /api/v1/accounts/:id/fund.
func (h *AccountHandler) Fund(c *gin.Context) {
	accountID := c.Param("id")

	if err := h.walletSvc.FundAccount(c.Request.Context(), accountID); err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditResource(c, accountID)
	response.Accepted(c, dto.FundResponse{AccountID: accountID, Status: "requested"})
}

// ListPayments handles GET /api/v1/accounts/:id/payments?limit=.
func (h *AccountHandler) ListPayments(c *gin.Context) {
	accountID := c.Param("id")
	if !domain.IsValidPublicKey(accountID) {
		response.Error(c, apperror.ErrInvalidKeyFormat("account id"))
		return
	}

	limit, err := queryInt(c, "limit", defaultPaymentPageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	switch {
	case limit <= 0:
		limit = defaultPaymentPageSize
	case limit > maxPaymentPageSize:
		limit = maxPaymentPageSize
	}

	payments, err := h.paymentLog.ListBySource(c.Request.Context(), accountID, limit)
	if err != nil {
		response.Error(c, apperror.ErrStorage(err))
		return
	}
	if payments == nil {
		payments = []domain.PaymentResult{}
	}
	response.OK(c, dto.PaymentListResponse{AccountID: accountID, Payments: payments})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation(key + " must be an integer")
	}
	return n, nil
}
