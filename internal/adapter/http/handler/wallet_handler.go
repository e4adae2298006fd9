package handler

import (
	"errors"
	"io"

	"chappi-wallet/internal/adapter/http/dto"
	"chappi-wallet/internal/adapter/http/middleware"
	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"
	"chappi-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet, username and lookup endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Generate handles POST /api/v1/wallets.
func (h *WalletHandler) Generate(c *gin.Context) {
	// An empty body generates an anonymous wallet.
	var req dto.GenerateWalletRequest
	if err := c.ShouldBindWith(&req, dto.SanitizedJSON); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.GenerateWallet(c.Request.Context(), ports.GenerateWalletRequest{
		Username: req.Username,
		Fund:     req.Fund,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditResource(c, wallet.PublicKey)
	response.Created(c, dto.NewWalletResponse(wallet))
}

// Import handles POST /api/v1/wallets/import.
func (h *WalletHandler) Import(c *gin.Context) {
	var req dto.ImportWalletRequest
	if err := c.ShouldBindWith(&req, dto.SanitizedJSON); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.ImportWallet(c.Request.Context(), ports.ImportWalletRequest{
		SecretKey: req.SecretKey,
		Username:  req.Username,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditResource(c, wallet.PublicKey)
	response.OK(c, dto.NewWalletResponse(wallet))
}

// ValidateUsername handles GET /api/v1/usernames/validate?username=.
func (h *WalletHandler) ValidateUsername(c *gin.Context) {
	username, ok := c.GetQuery("username")
	if !ok {
		response.Error(c, apperror.Validation("username query parameter is required"))
		return
	}

	result, err := h.walletSvc.ValidateUsername(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// RegisterUsername handles POST /api/v1/usernames.
func (h *WalletHandler) RegisterUsername(c *gin.Context) {
	var req dto.RegisterUsernameRequest
	if err := c.ShouldBindWith(&req, dto.SanitizedJSON); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	address, err := h.walletSvc.RegisterUsername(c.Request.Context(), req.Username, req.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetAuditResource(c, address)
	response.Created(c, dto.RegisterUsernameResponse{
		Username:         domain.NormalizeUsername(req.Username),
		AccountID:        req.AccountID,
		FederatedAddress: address,
	})
}

// Resolve handles GET /api/v1/resolve?q=&type=. Unlike the public
// federation endpoint it falls back to the configured federation server.
func (h *WalletHandler) Resolve(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, apperror.Validation("q query parameter is required"))
		return
	}
	queryType := domain.FederationQueryType(c.DefaultQuery("type", string(domain.FederationQueryName)))

	record, err := h.walletSvc.Resolve(c.Request.Context(), q, queryType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}
