package apperror

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is a structured error that maps to HTTP responses.
// Message is meant for display; Code identifies the error kind.
type AppError struct {
	Code       string   `json:"error_code"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	HTTPStatus int      `json:"-"`
	Err        error    `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError carrying the same code, so callers can write
// errors.Is(err, apperror.ErrDestinationNotFunded()).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Keys & wallets (WAL) ----

func ErrInvalidKeyFormat(what string) *AppError {
	return New("WAL_001", fmt.Sprintf("Invalid %s format", what), http.StatusBadRequest)
}

// ---- Usernames (USR) ----

// ErrUsernameInvalid carries every violated rule, in rule order.
func ErrUsernameInvalid(violations []string) *AppError {
	e := New("USR_001", "Username does not meet the naming rules", http.StatusUnprocessableEntity)
	e.Details = append([]string(nil), violations...)
	return e
}

func ErrUsernameUnavailable(username string) *AppError {
	return New("USR_002", fmt.Sprintf("Username %q is not available", username), http.StatusConflict)
}

// ---- Federation (FED) ----

func ErrFederationRecordNotFound() *AppError {
	return New("FED_001", "No federation record found", http.StatusNotFound)
}

func ErrPaymentNotFound() *AppError {
	return New("PAY_006", "Payment not found", http.StatusNotFound)
}

// ---- Payments (PAY) ----

func ErrUnresolvableDestination(reason string) *AppError {
	return New("PAY_001", "Payment destination could not be resolved: "+reason, http.StatusUnprocessableEntity)
}

func ErrDestinationNotFunded() *AppError {
	return New("PAY_002", "Destination account does not exist on the ledger", http.StatusUnprocessableEntity)
}

// ErrPaymentRejected keeps the ledger's reason text verbatim.
func ErrPaymentRejected(reason string, err error) *AppError {
	return Wrap("PAY_003", "Payment rejected by the ledger: "+reason, http.StatusPaymentRequired, err)
}

func ErrInvalidAmount(reason string) *AppError {
	return New("PAY_004", "Invalid amount: "+reason, http.StatusBadRequest)
}

func ErrDuplicatePayment() *AppError {
	return New("PAY_005", "A payment with this idempotency key is already in flight", http.StatusConflict)
}

// ---- Network & ledger (NET / LED) ----

func ErrNetwork(service string, err error) *AppError {
	return Wrap("NET_001", fmt.Sprintf("Could not reach %s", service), http.StatusBadGateway, err)
}

func ErrLedger(message string, err error) *AppError {
	return Wrap("LED_001", message, http.StatusBadGateway, err)
}

func ErrFaucetUnavailable() *AppError {
	return New("LED_002", "Test funding is not available on the public network", http.StatusBadRequest)
}

// ---- Authentication & security (AUTH / SEC) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_001", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_002", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_003", "Nonce has already been used", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrStorage(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_002 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}
