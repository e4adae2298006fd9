package handler

import (
	"net/http"
	"strings"

	"chappi-wallet/internal/adapter/http/dto"
	"chappi-wallet/internal/adapter/http/middleware"
	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"
	"chappi-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// FederationHandler serves the public federation protocol from the local
// directory only. It never consults a remote server.
type FederationHandler struct {
	directory ports.Directory
}

// NewFederationHandler creates a new FederationHandler.
func NewFederationHandler(directory ports.Directory) *FederationHandler {
	return &FederationHandler{directory: directory}
}

// Lookup handles GET /federation?q=&type=name|id. Responses use the bare
// federation JSON shape, not the API envelope.
func (h *FederationHandler) Lookup(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")

	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, dto.FederationErrorResponse{Detail: "q is required"})
		return
	}

	switch domain.FederationQueryType(c.Query("type")) {
	case domain.FederationQueryName:
		h.lookupName(c, q)
	case domain.FederationQueryID:
		h.lookupID(c, q)
	default:
		c.JSON(http.StatusBadRequest, dto.FederationErrorResponse{Detail: "type must be one of: name, id"})
	}
}

func (h *FederationHandler) lookupName(c *gin.Context, q string) {
	addr, ok := domain.ParseFederatedAddress(q)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.FederationErrorResponse{Detail: "invalid federated address"})
		return
	}
	if !strings.EqualFold(addr.Domain, h.directory.Domain()) {
		notFound(c)
		return
	}

	accountID, ok := h.directory.ResolveByUsername(addr.Username)
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, domain.FederationRecord{
		StellarAddress: domain.BuildFederatedAddress(addr.Username, h.directory.Domain()),
		AccountID:      accountID,
	})
}

func (h *FederationHandler) lookupID(c *gin.Context, accountID string) {
	if !domain.IsValidPublicKey(accountID) {
		c.JSON(http.StatusBadRequest, dto.FederationErrorResponse{Detail: "invalid account id"})
		return
	}

	username, ok := h.directory.ResolveByAccountID(accountID)
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, domain.FederationRecord{
		StellarAddress: domain.BuildFederatedAddress(username, h.directory.Domain()),
		AccountID:      accountID,
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.FederationErrorResponse{Detail: "not found"})
}

// Register handles POST /federation/register from a signed peer.
func (h *FederationHandler) Register(c *gin.Context) {
	var req dto.FederationRegisterRequest
	if err := c.ShouldBindWith(&req, dto.SanitizedJSON); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.directory.Register(c.Request.Context(), req.Username, req.AccountID); err != nil {
		response.Error(c, err)
		return
	}

	name := domain.NormalizeUsername(req.Username)
	middleware.SetAuditResource(c, name)
	response.OK(c, dto.RegisterUsernameResponse{
		Username:         name,
		AccountID:        req.AccountID,
		FederatedAddress: domain.BuildFederatedAddress(name, h.directory.Domain()),
	})
}
