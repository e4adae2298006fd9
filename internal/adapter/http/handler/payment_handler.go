package handler

import (
	"errors"

	"chappi-wallet/internal/adapter/http/dto"
	"chappi-wallet/internal/adapter/http/middleware"
	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/pkg/apperror"
	"chappi-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderIdempotencyKey carries the client's payment idempotency token.
const HeaderIdempotencyKey = "Idempotency-Key"

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	executor   ports.PaymentExecutor
	paymentLog ports.PaymentLogRepository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(executor ports.PaymentExecutor, paymentLog ports.PaymentLogRepository) *PaymentHandler {
	return &PaymentHandler{executor: executor, paymentLog: paymentLog}
}

// Send handles POST /api/v1/payments.
func (h *PaymentHandler) Send(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindWith(&req, dto.SanitizedJSON); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	token := c.GetHeader(HeaderIdempotencyKey)
	if len(token) > 128 {
		response.Error(c, apperror.Validation("Idempotency-Key must be at most 128 characters"))
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), ports.PaymentRequest{
		SourceSecret:     req.SourceSecret,
		Destination:      req.Destination,
		Amount:           req.Amount,
		Asset:            domain.Asset{Code: req.AssetCode, Issuer: req.AssetIssuer},
		Memo:             req.Memo,
		MemoType:         req.MemoType,
		IdempotencyToken: token,
	})
	if err != nil {
		if result != nil {
			err = withPaymentDetails(err, result)
		}
		response.Error(c, err)
		return
	}

	middleware.SetAuditResource(c, result.ID.String())
	response.Created(c, result)
}

// Get handles GET /api/v1/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("payment id must be a UUID"))
		return
	}

	result, err := h.paymentLog.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, apperror.ErrStorage(err))
		return
	}
	if result == nil {
		response.Error(c, apperror.ErrPaymentNotFound())
		return
	}
	response.OK(c, result)
}

// withPaymentDetails tells the caller which payment failed and at which step.
func withPaymentDetails(err error, result *domain.PaymentResult) error {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return err
	}
	cp := *appErr
	cp.Details = append(append([]string(nil), appErr.Details...),
		"payment_id="+result.ID.String(),
		"failed_at="+string(result.FailedAt),
	)
	return &cp
}
