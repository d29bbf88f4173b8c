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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_VerifySignature(t *testing.T) {
	client := NewClient(Config{KeyID: "key", KeySecret: "secret123"})

	sig := signPayload("secret123", "order_abc", "pay_xyz")
	assert.True(t, client.VerifySignature("order_abc", "pay_xyz", sig))

	// Any single-character mutation of the signature must be rejected
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		assert.False(t, client.VerifySignature("order_abc", "pay_xyz", string(mutated)),
			"mutation at index %d accepted", i)
	}

	// Wrong key, wrong payload pieces, empty signature
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", signPayload("othersecret", "order_abc", "pay_xyz")))
	assert.False(t, client.VerifySignature("order_other", "pay_xyz", sig))
	assert.False(t, client.VerifySignature("order_abc", "pay_other", sig))
	assert.False(t, client.VerifySignature("order_abc", "pay_xyz", ""))
}

func TestClient_CreateOrder(t *testing.T) {
	var gotBody createOrderRequest
	var gotAuthUser, gotAuthPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var ok bool
		gotAuthUser, gotAuthPass, ok = r.BasicAuth()
		assert.True(t, ok)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Order{
			ID:       "order_test_1",
			Amount:   gotBody.Amount,
			Currency: gotBody.Currency,
			Receipt:  gotBody.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewClient(Config{KeyID: "rzp_key", KeySecret: "rzp_secret", BaseURL: server.URL})

	order, err := client.CreateOrder(context.Background(), 500, "INR", "receipt_42")
	require.NoError(t, err)

	assert.Equal(t, "rzp_key", gotAuthUser)
	assert.Equal(t, "rzp_secret", gotAuthPass)
	assert.Equal(t, int64(500), gotBody.Amount)
	assert.Equal(t, "INR", gotBody.Currency)
	assert.Equal(t, "receipt_42", gotBody.Receipt)

	assert.Equal(t, "order_test_1", order.ID)
	assert.Equal(t, int64(500), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestClient_CreateOrder_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"amount too small"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{KeyID: "k", KeySecret: "s", BaseURL: server.URL})

	_, err := client.CreateOrder(context.Background(), 0, "INR", "receipt_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestClient_CreateOrder_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(Config{KeyID: "k", KeySecret: "s", BaseURL: server.URL})

	_, err := client.CreateOrder(context.Background(), 100, "INR", "receipt_1")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient(Config{KeyID: "k", KeySecret: "s"})
	assert.Equal(t, defaultBaseURL, client.cfg.BaseURL)
}
