package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   ErrDestinationNotFunded(),
			expected: "[PAY_002] Destination account does not exist on the ledger",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
		{
			name:     "with details",
			appErr:   ErrUsernameInvalid([]string{"too short", "bad chars"}),
			expected: "[USR_001] Username does not meet the naming rules (too short; bad chars)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := ErrNetwork("horizon", inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("executing payment: %w", ErrDestinationNotFunded())

	assert.True(t, errors.Is(err, ErrDestinationNotFunded()))
	assert.False(t, errors.Is(err, ErrUnresolvableDestination("x")))
}

func TestErrUsernameInvalid_CopiesDetails(t *testing.T) {
	violations := []string{"a", "b"}
	e := ErrUsernameInvalid(violations)
	violations[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, e.Details)
}

func TestErrPaymentRejected_KeepsReasonVerbatim(t *testing.T) {
	e := ErrPaymentRejected("tx_failed: op_underfunded", nil)

	assert.Equal(t, "PAY_003", e.Code)
	assert.Contains(t, e.Message, "tx_failed: op_underfunded")
	assert.Equal(t, http.StatusPaymentRequired, e.HTTPStatus)
}

func TestErrorCatalog(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidKeyFormat", ErrInvalidKeyFormat("secret key"), "WAL_001", 400},
		{"UsernameInvalid", ErrUsernameInvalid(nil), "USR_001", 422},
		{"UsernameUnavailable", ErrUsernameUnavailable("carol"), "USR_002", 409},
		{"UnresolvableDestination", ErrUnresolvableDestination("x"), "PAY_001", 422},
		{"DestinationNotFunded", ErrDestinationNotFunded(), "PAY_002", 422},
		{"PaymentRejected", ErrPaymentRejected("x", nil), "PAY_003", 402},
		{"InvalidAmount", ErrInvalidAmount("x"), "PAY_004", 400},
		{"DuplicatePayment", ErrDuplicatePayment(), "PAY_005", 409},
		{"PaymentNotFound", ErrPaymentNotFound(), "PAY_006", 404},
		{"FederationRecordNotFound", ErrFederationRecordNotFound(), "FED_001", 404},
		{"Network", ErrNetwork("x", nil), "NET_001", 502},
		{"Ledger", ErrLedger("x", nil), "LED_001", 502},
		{"FaucetUnavailable", ErrFaucetUnavailable(), "LED_002", 400},
		{"InvalidToken", ErrInvalidToken(), "AUTH_001", 401},
		{"InvalidSignature", ErrInvalidSignature(), "SEC_001", 401},
		{"TimestampExpired", ErrTimestampExpired(), "SEC_002", 403},
		{"NonceUsed", ErrNonceUsed(), "SEC_003", 403},
		{"RateLimit", ErrRateLimitExceeded(), "RATE_001", 429},
		{"Storage", ErrStorage(nil), "SYS_001", 500},
		{"Internal", InternalError(nil), "SYS_002", 500},
		{"Validation", Validation("bad"), "REQ_001", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.NotEqual(t, tt.err.Code, tt.err.Message, "message must be distinct from kind")
		})
	}
}
