package payments_http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authapp "comicforge/internal/app/auth"
	"comicforge/internal/app/payments"
	"comicforge/internal/domain"
	"comicforge/internal/handler/http/middleware"
	"comicforge/internal/session"
	"comicforge/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUserRepo struct{}

func (stubUserRepo) CreateTx(context.Context, domain.Querier, *domain.User) (int64, error) {
	return 0, domain.ErrUserAlreadyExists
}
func (stubUserRepo) GetByEmailTx(context.Context, domain.Querier, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (stubUserRepo) GetByIDTx(context.Context, domain.Querier, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (stubUserRepo) GrantCreditsTx(context.Context, domain.Querier, int64, int, int) error {
	return nil
}

type stubPaymentService struct {
	createErr   error
	verifyErr   error
	quote       *payments.OrderQuote
	credits     int
	gotUserID   int64
	gotPlanType string
}

func (s *stubPaymentService) CreateOrder(_ context.Context, userID int64, planType string) (*payments.OrderQuote, error) {
	s.gotUserID = userID
	s.gotPlanType = planType
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.quote, nil
}

func (s *stubPaymentService) VerifyPayment(_ context.Context, orderID, paymentID, signature string) (int, error) {
	if s.verifyErr != nil {
		return 0, s.verifyErr
	}
	return s.credits, nil
}

func newTestRouter(service payments.PaymentService) (chi.Router, *token.Manager) {
	tokens := token.NewManager("test-secret", time.Hour)
	sessions := session.NewMemoryStore(time.Hour)
	auth := authapp.NewAuthService(nil, stubUserRepo{}, tokens, sessions, nil, zap.NewNop())
	guard := middleware.NewGuard(auth, tokens, zap.NewNop())

	router := chi.NewRouter()
	RegisterRoutes(router, service, guard, zap.NewNop())
	return router, tokens
}

func doJSON(t *testing.T, router http.Handler, tokens *token.Manager, userID int64, path string, body any) *httptest.ResponseRecorder {
	raw, err := tokens.Issue(userID)
	require.NoError(t, err)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+raw)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderUnauthenticated(t *testing.T) {
	router, _ := newTestRouter(&stubPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/payments/create-order", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderSuccess(t *testing.T) {
	service := &stubPaymentService{quote: &payments.OrderQuote{
		OrderID:  "order_abc",
		Amount:   49900,
		Currency: "INR",
		KeyID:    "key_test",
	}}
	router, tokens := newTestRouter(service)

	rec := doJSON(t, router, tokens, 1, "/payments/create-order", CreateOrderRequest{PlanType: "BASIC"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "order_abc", resp.OrderID)
	assert.Equal(t, int64(49900), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "key_test", resp.KeyID)
	assert.Equal(t, int64(1), service.gotUserID)
	assert.Equal(t, "BASIC", service.gotPlanType)
}

func TestCreateOrderInvalidPlan(t *testing.T) {
	service := &stubPaymentService{createErr: domain.ErrInvalidPlan}
	router, tokens := newTestRouter(service)

	rec := doJSON(t, router, tokens, 1, "/payments/create-order", CreateOrderRequest{PlanType: "ULTRA"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderGatewayNotConfigured(t *testing.T) {
	service := &stubPaymentService{createErr: domain.ErrGatewayNotConfigured}
	router, tokens := newTestRouter(service)

	rec := doJSON(t, router, tokens, 1, "/payments/create-order", CreateOrderRequest{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyPaymentStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing params", domain.ErrMissingParameters, http.StatusBadRequest},
		{"invalid signature", domain.ErrInvalidSignature, http.StatusBadRequest},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"already processed", domain.ErrOrderAlreadyProcessed, http.StatusConflict},
		{"persistence failure", domain.ErrPersistenceFailure, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, tokens := newTestRouter(&stubPaymentService{verifyErr: tc.err})
			rec := doJSON(t, router, tokens, 1, "/payments/verify-payment", VerifyPaymentRequest{
				RazorpayOrderID:   "order_abc",
				RazorpayPaymentID: "pay_123",
				RazorpaySignature: "sig",
			})
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestVerifyPaymentSuccess(t *testing.T) {
	router, tokens := newTestRouter(&stubPaymentService{credits: 100})

	rec := doJSON(t, router, tokens, 0, "/payments/verify-payment", VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "sig",
	})
	require.Equal(t, http.StatusOK, rec.Code, "a token with user id 0 must pass the strict guard")

	var resp VerifyPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 100, resp.Credits)
}
