package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chappi-wallet/internal/adapter/http/dto"
	"chappi-wallet/internal/core/domain"
	"chappi-wallet/internal/core/ports"
	"chappi-wallet/internal/core/ports/mocks"
	"chappi-wallet/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJSONContext(method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func strPtr(s string) *string { return &s }

// --- Wallet Handler Tests ---

func TestGenerate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	kp := keypair.MustRandom()
	mockWallet.EXPECT().GenerateWallet(gomock.Any(), ports.GenerateWalletRequest{Username: strPtr("alice")}).
		Return(&domain.Wallet{
			PublicKey:        kp.Address(),
			SecretKey:        kp.Seed(),
			Username:         strPtr("alice"),
			FederatedAddress: strPtr("alice*chappi.app"),
		}, nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/wallets", dto.GenerateWalletRequest{Username: strPtr("  alice ")})
	h.Generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, kp.Address(), data["public_key"])
	assert.Equal(t, kp.Seed(), data["secret_key"])
	assert.Equal(t, "alice*chappi.app", data["federated_address"])
	assert.Equal(t, kp.Address(), c.GetString("audit_resource_id"))
}

func TestGenerate_EmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	kp := keypair.MustRandom()
	mockWallet.EXPECT().GenerateWallet(gomock.Any(), ports.GenerateWalletRequest{}).
		Return(&domain.Wallet{PublicKey: kp.Address(), SecretKey: kp.Seed()}, nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/wallets", nil)
	h.Generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.NotContains(t, data, "username")
}

func TestGenerate_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().GenerateWallet(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUsernameUnavailable("bob"))

	c, w := newJSONContext(http.MethodPost, "/api/v1/wallets", dto.GenerateWalletRequest{Username: strPtr("bob")})
	h.Generate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "USR_002")
}

func TestImport_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockWalletService(ctrl))

	c, w := newJSONContext(http.MethodPost, "/api/v1/wallets/import", dto.ImportWalletRequest{SecretKey: "not-a-seed"})
	h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "not-a-seed")
}

func TestImport_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	kp := keypair.MustRandom()
	mockWallet.EXPECT().ImportWallet(gomock.Any(), ports.ImportWalletRequest{SecretKey: kp.Seed()}).
		Return(&domain.Wallet{PublicKey: kp.Address(), SecretKey: kp.Seed(), Username: strPtr("carol")}, nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/wallets/import", dto.ImportWalletRequest{SecretKey: kp.Seed()})
	h.Import(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "carol", data["username"])
}

func TestImport_PaddedSecretIsTrimmed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	kp := keypair.MustRandom()
	mockWallet.EXPECT().ImportWallet(gomock.Any(), ports.ImportWalletRequest{SecretKey: kp.Seed()}).
		Return(&domain.Wallet{PublicKey: kp.Address(), SecretKey: kp.Seed()}, nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/wallets/import", dto.ImportWalletRequest{SecretKey: "  " + kp.Seed() + " "})
	h.Import(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, kp.Address(), decodeData(t, w)["public_key"])
}

func TestValidateUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().ValidateUsername(gomock.Any(), "ab").Return(&domain.UsernameValidation{
		IsValid: false,
		Errors:  []string{domain.MsgUsernameTooShort},
	}, nil)

	c, w := newJSONContext(http.MethodGet, "/api/v1/usernames/validate?username=ab", nil)
	h.ValidateUsername(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, false, data["is_valid"])
	assert.Len(t, data["errors"], 1)
}

func TestValidateUsername_MissingParam(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockWalletService(ctrl))

	c, w := newJSONContext(http.MethodGet, "/api/v1/usernames/validate", nil)
	h.ValidateUsername(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterUsername_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	id := keypair.MustRandom().Address()
	mockWallet.EXPECT().RegisterUsername(gomock.Any(), "Dave", id).Return("dave*chappi.app", nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/usernames", dto.RegisterUsernameRequest{Username: "Dave", AccountID: id})
	h.RegisterUsername(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "dave", data["username"])
	assert.Equal(t, "dave*chappi.app", data["federated_address"])
}

func TestResolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().Resolve(gomock.Any(), "erin*chappi.app", domain.FederationQueryName).
		Return(&domain.FederationRecord{StellarAddress: "erin*chappi.app", AccountID: "GERIN"}, nil)

	c, w := newJSONContext(http.MethodGet, "/api/v1/resolve?q=erin*chappi.app", nil)
	h.Resolve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GERIN", decodeData(t, w)["account_id"])
}

func TestResolve_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	mockWallet.EXPECT().Resolve(gomock.Any(), "GX", domain.FederationQueryID).Return(nil, apperror.ErrFederationRecordNotFound())

	c, w := newJSONContext(http.MethodGet, "/api/v1/resolve?q=GX&type=id", nil)
	h.Resolve(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- Account Handler Tests ---

func TestGetBalances_Unfunded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewAccountHandler(mockWallet, mocks.NewMockPaymentLogRepository(ctrl))

	id := keypair.MustRandom().Address()
	mockWallet.EXPECT().GetBalances(gomock.Any(), id).Return(domain.UnfundedBalances(), nil)

	c, w := newJSONContext(http.MethodGet, "/api/v1/accounts/"+id+"/balances", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.GetBalances(c)

	assert.Equal(t, http.StatusOK, w.Code)
	balances := decodeData(t, w)["balances"].([]interface{})
	require.Len(t, balances, 1)
	assert.Equal(t, "XLM", balances[0].(map[string]interface{})["asset"])
}

func TestGetBalances_Network(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewAccountHandler(mockWallet, mocks.NewMockPaymentLogRepository(ctrl))

	mockWallet.EXPECT().GetBalances(gomock.Any(), "GA").Return(nil, apperror.ErrNetwork("ledger", errors.New("dial tcp")))

	c, w := newJSONContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "GA"}}
	h.GetBalances(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewAccountHandler(mockWallet, mocks.NewMockPaymentLogRepository(ctrl))

	mockWallet.EXPECT().GetTransactionHistory(gomock.Any(), "GA", 5).Return(nil, nil)

	c, w := newJSONContext(http.MethodGet, "/?limit=5", nil)
	c.Params = gin.Params{{Key: "id", Value: "GA"}}
	h.GetTransactions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decodeData(t, w)["transactions"])
}

func TestGetTransactions_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAccountHandler(mocks.NewMockWalletService(ctrl), mocks.NewMockPaymentLogRepository(ctrl))

	c, w := newJSONContext(http.MethodGet, "/?limit=ten", nil)
	c.Params = gin.Params{{Key: "id", Value: "GA"}}
	h.GetTransactions(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFund(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewAccountHandler(mockWallet, mocks.NewMockPaymentLogRepository(ctrl))

	id := keypair.MustRandom().Address()
	mockWallet.EXPECT().FundAccount(gomock.Any(), id).Return(nil)

	c, w := newJSONContext(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Fund(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "requested", decodeData(t, w)["status"])
}

func TestFund_PublicNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewAccountHandler(mockWallet, mocks.NewMockPaymentLogRepository(ctrl))

	mockWallet.EXPECT().FundAccount(gomock.Any(), "GA").Return(apperror.ErrFaucetUnavailable())

	c, w := newJSONContext(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "GA"}}
	h.Fund(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "LED_002")
}

func TestListPayments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLog := mocks.NewMockPaymentLogRepository(ctrl)
	h := NewAccountHandler(mocks.NewMockWalletService(ctrl), mockLog)

	id := keypair.MustRandom().Address()
	mockLog.EXPECT().ListBySource(gomock.Any(), id, defaultPaymentPageSize).Return([]domain.PaymentResult{
		{ID: uuid.New(), SourceAccountID: id, State: domain.PaymentStateSucceeded},
	}, nil)

	c, w := newJSONContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.ListPayments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData(t, w)["payments"], 1)
}

func TestListPayments_LimitClamped(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"limit=0", defaultPaymentPageSize},
		{"limit=-5", defaultPaymentPageSize},
		{"limit=50", 50},
		{"limit=1000", maxPaymentPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLog := mocks.NewMockPaymentLogRepository(ctrl)
			h := NewAccountHandler(mocks.NewMockWalletService(ctrl), mockLog)

			id := keypair.MustRandom().Address()
			mockLog.EXPECT().ListBySource(gomock.Any(), id, tt.want).Return(nil, nil)

			c, w := newJSONContext(http.MethodGet, "/?"+tt.query, nil)
			c.Params = gin.Params{{Key: "id", Value: id}}
			h.ListPayments(c)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestListPayments_InvalidAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAccountHandler(mocks.NewMockWalletService(ctrl), mocks.NewMockPaymentLogRepository(ctrl))

	c, w := newJSONContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.ListPayments(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "WAL_001")
}

// --- Payment Handler Tests ---

func TestSend_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockPaymentExecutor(ctrl)
	h := NewPaymentHandler(mockExec, mocks.NewMockPaymentLogRepository(ctrl))

	src := keypair.MustRandom()
	paymentID := uuid.New()
	mockExec.EXPECT().Execute(gomock.Any(), ports.PaymentRequest{
		SourceSecret:     src.Seed(),
		Destination:      "frank*chappi.app",
		Amount:           "12.5",
		Memo:             "thanks",
		IdempotencyToken: "tok-1",
	}).Return(&domain.PaymentResult{
		ID:              paymentID,
		SourceAccountID: src.Address(),
		Destination:     "frank*chappi.app",
		Amount:          "12.5000000",
		Asset:           "XLM",
		State:           domain.PaymentStateSucceeded,
		TransactionHash: "abc123",
		CreatedAt:       time.Now(),
	}, nil)

	c, w := newJSONContext(http.MethodPost, "/api/v1/payments", dto.PaymentRequest{
		SourceSecret: src.Seed(),
		Destination:  "frank*chappi.app",
		Amount:       "12.5",
		Memo:         "thanks",
	})
	c.Request.Header.Set(HeaderIdempotencyKey, "tok-1")
	h.Send(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "abc123", data["transaction_hash"])
	assert.Equal(t, "SUCCEEDED", data["state"])
	assert.NotContains(t, w.Body.String(), src.Seed())
	assert.Equal(t, paymentID.String(), c.GetString("audit_resource_id"))
}

func TestSend_RejectedCarriesFailureDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExec := mocks.NewMockPaymentExecutor(ctrl)
	h := NewPaymentHandler(mockExec, mocks.NewMockPaymentLogRepository(ctrl))

	src := keypair.MustRandom()
	paymentID := uuid.New()
	rejected := apperror.ErrPaymentRejected("tx_failed: op_underfunded", nil)
	mockExec.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&domain.PaymentResult{
		ID:       paymentID,
		State:    domain.PaymentStateFailed,
		FailedAt: domain.PaymentStateSubmitting,
	}, rejected)

	c, w := newJSONContext(http.MethodPost, "/api/v1/payments", dto.PaymentRequest{
		SourceSecret: src.Seed(),
		Destination:  keypair.MustRandom().Address(),
		Amount:       "1",
	})
	h.Send(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAY_003", resp["error_code"])
	assert.Contains(t, resp["details"], "payment_id="+paymentID.String())
	assert.Contains(t, resp["details"], "failed_at=SUBMITTING")
	assert.Empty(t, rejected.Details, "shared error must not be mutated")
}

func TestSend_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockPaymentExecutor(ctrl), mocks.NewMockPaymentLogRepository(ctrl))

	c, w := newJSONContext(http.MethodPost, "/api/v1/payments", dto.PaymentRequest{
		SourceSecret: keypair.MustRandom().Seed(),
		Destination:  "GA",
		Amount:       "1",
		MemoType:     "return",
	})
	h.Send(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLog := mocks.NewMockPaymentLogRepository(ctrl)
	h := NewPaymentHandler(mocks.NewMockPaymentExecutor(ctrl), mockLog)

	id := uuid.New()
	mockLog.EXPECT().GetByID(gomock.Any(), id).Return(&domain.PaymentResult{ID: id, State: domain.PaymentStateFailed}, nil)

	c, w := newJSONContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FAILED", decodeData(t, w)["state"])
}

func TestGetPayment_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLog := mocks.NewMockPaymentLogRepository(ctrl)
	h := NewPaymentHandler(mocks.NewMockPaymentExecutor(ctrl), mockLog)

	mockLog.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, nil)

	c, w := newJSONContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PAY_006")
}

func TestGetPayment_BadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewPaymentHandler(mocks.NewMockPaymentExecutor(ctrl), mocks.NewMockPaymentLogRepository(ctrl))

	c, w := newJSONContext(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Federation Handler Tests ---

func newFederationDirectory(ctrl *gomock.Controller) *mocks.MockDirectory {
	dir := mocks.NewMockDirectory(ctrl)
	dir.EXPECT().Domain().Return("chappi.app").AnyTimes()
	return dir
}

func TestFederationLookup_Name(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := newFederationDirectory(ctrl)
	h := NewFederationHandler(dir)
	dir.EXPECT().ResolveByUsername("grace").Return("GGRACE", true)

	c, w := newJSONContext(http.MethodGet, "/federation?q=grace*chappi.app&type=name", nil)
	h.Lookup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"stellar_address":"grace*chappi.app","account_id":"GGRACE"}`, w.Body.String())
}

func TestFederationLookup_ID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := newFederationDirectory(ctrl)
	h := NewFederationHandler(dir)
	id := keypair.MustRandom().Address()
	dir.EXPECT().ResolveByAccountID(id).Return("heidi", true)

	c, w := newJSONContext(http.MethodGet, "/federation?q="+id+"&type=id", nil)
	h.Lookup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stellar_address":"heidi*chappi.app","account_id":"`+id+`"}`, w.Body.String())
}

func TestFederationLookup_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := newFederationDirectory(ctrl)
	h := NewFederationHandler(dir)
	dir.EXPECT().ResolveByUsername("ivan").Return("", false)

	c, w := newJSONContext(http.MethodGet, "/federation?q=ivan*chappi.app&type=name", nil)
	h.Lookup(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"not found"}`, w.Body.String())
}

func TestFederationLookup_ForeignDomain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewFederationHandler(newFederationDirectory(ctrl))

	c, w := newJSONContext(http.MethodGet, "/federation?q=judy*example.org&type=name", nil)
	h.Lookup(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFederationLookup_BadRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewFederationHandler(newFederationDirectory(ctrl))

	for _, target := range []string{
		"/federation?type=name",
		"/federation?q=kim*chappi.app&type=txid",
		"/federation?q=kim*a*chappi.app&type=name",
		"/federation?q=not-a-key&type=id",
	} {
		c, w := newJSONContext(http.MethodGet, target, nil)
		h.Lookup(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), `"detail"`, target)
	}
}

func TestFederationRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := newFederationDirectory(ctrl)
	h := NewFederationHandler(dir)
	id := keypair.MustRandom().Address()
	dir.EXPECT().Register(gomock.Any(), "Leo", id).Return(nil)

	c, w := newJSONContext(http.MethodPost, "/federation/register", dto.FederationRegisterRequest{Username: "Leo", AccountID: id})
	h.Register(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "leo*chappi.app", decodeData(t, w)["federated_address"])
}

func TestFederationRegister_Conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := newFederationDirectory(ctrl)
	h := NewFederationHandler(dir)
	id := keypair.MustRandom().Address()
	dir.EXPECT().Register(gomock.Any(), "mia", id).Return(apperror.ErrUsernameUnavailable("mia"))

	c, w := newJSONContext(http.MethodPost, "/federation/register", dto.FederationRegisterRequest{Username: "mia", AccountID: id})
	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- Health ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck(t *testing.T) {
	c, w := newJSONContext(http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "horizon"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	c, w := newJSONContext(http.MethodGet, "/health", nil)
	HealthCheck(stubChecker{name: "horizon"}, stubChecker{name: "postgres", err: errors.New("conn refused")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp struct {
		Status       string `json:"status"`
		Dependencies map[string]struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy", resp.Dependencies["postgres"].Status)
	assert.Equal(t, "healthy", resp.Dependencies["horizon"].Status)
}
