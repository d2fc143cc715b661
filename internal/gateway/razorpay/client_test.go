package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signFor(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "gateway-secret"
	sig := signFor(secret, "order_abc", "pay_123")

	assert.True(t, VerifySignature(secret, "order_abc", "pay_123", sig))
}

func TestVerifySignatureMutations(t *testing.T) {
	secret := "gateway-secret"
	sig := signFor(secret, "order_abc", "pay_123")

	assert.False(t, VerifySignature(secret, "order_abd", "pay_123", sig), "mutated order id")
	assert.False(t, VerifySignature(secret, "order_abc", "pay_124", sig), "mutated payment id")

	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.False(t, VerifySignature(secret, "order_abc", "pay_123", string(mutated)), "mutated signature")
	assert.False(t, VerifySignature("other-secret", "order_abc", "pay_123", sig), "wrong secret")
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var req createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(49900), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_abc",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key_id", "key_secret", 5*time.Second, zap.NewNop())

	order, err := client.CreateOrder(context.Background(), 49900, "INR", "receipt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(49900), order.Amount)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key_id", "key_secret", 5*time.Second, zap.NewNop())

	_, err := client.CreateOrder(context.Background(), 49900, "INR", "receipt_1")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "key_secret")
}
