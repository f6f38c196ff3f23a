package razorpay_test

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

	"hampr/pkg/razorpay"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_CreateOrder(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_test123",
			"amount":   gotBody["amount"],
			"currency": gotBody["currency"],
		})
	}))
	defer server.Close()

	client := razorpay.NewClient(razorpay.Config{
		KeyID:     "rzp_test_key",
		KeySecret: "secret",
		BaseURL:   server.URL,
	})

	order, err := client.CreateOrder(context.Background(), 900, "INR", map[string]string{"name": "Asha"})
	assert.NoError(t, err)
	assert.Equal(t, "order_test123", order.ID)
	// Major units are converted to paise before the call.
	assert.Equal(t, int64(90000), order.Amount)
	assert.Equal(t, "INR", order.Currency)

	assert.Equal(t, "/v1/orders", gotPath)
	assert.Equal(t, "rzp_test_key", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, float64(90000), gotBody["amount"])
	assert.NotEmpty(t, gotBody["receipt"])
}

func TestClient_CreateOrderInvalidAmount(t *testing.T) {
	// The amount check runs before any network call, so no server is needed.
	client := razorpay.NewClient(razorpay.Config{KeyID: "k", KeySecret: "s", BaseURL: "http://127.0.0.1:0"})

	_, err := client.CreateOrder(context.Background(), 0, "INR", nil)
	assert.ErrorIs(t, err, razorpay.ErrInvalidAmount)

	_, err = client.CreateOrder(context.Background(), -500, "INR", nil)
	assert.ErrorIs(t, err, razorpay.ErrInvalidAmount)
}

func TestClient_CreateOrderGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"try later"}`))
	}))
	defer server.Close()

	client := razorpay.NewClient(razorpay.Config{KeyID: "k", KeySecret: "s", BaseURL: server.URL})

	_, err := client.CreateOrder(context.Background(), 100, "INR", nil)
	var gatewayErr *razorpay.GatewayError
	assert.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusServiceUnavailable, gatewayErr.StatusCode)
}

func TestClient_VerifySignature(t *testing.T) {
	const secret = "server-held-secret"
	client := razorpay.NewClient(razorpay.Config{KeyID: "k", KeySecret: secret})

	valid := signPayload(secret, "order_abc", "pay_def")

	verified, err := client.VerifySignature("order_abc", "pay_def", valid)
	assert.NoError(t, err)
	assert.True(t, verified)

	// Any single-character mutation fails, with no error: a mismatch is an
	// expected outcome, not a fault.
	mutated := []byte(valid)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	verified, err = client.VerifySignature("order_abc", "pay_def", string(mutated))
	assert.NoError(t, err)
	assert.False(t, verified)

	// A signature minted with the wrong secret fails too.
	forged := signPayload("guessed-secret", "order_abc", "pay_def")
	verified, err = client.VerifySignature("order_abc", "pay_def", forged)
	assert.NoError(t, err)
	assert.False(t, verified)
}

func TestClient_VerifySignatureMissingFields(t *testing.T) {
	client := razorpay.NewClient(razorpay.Config{KeyID: "k", KeySecret: "s"})

	for _, tc := range []struct {
		orderID, paymentID, signature string
	}{
		{"", "pay_def", "sig"},
		{"order_abc", "", "sig"},
		{"order_abc", "pay_def", ""},
	} {
		verified, err := client.VerifySignature(tc.orderID, tc.paymentID, tc.signature)
		assert.ErrorIs(t, err, razorpay.ErrMissingField)
		assert.False(t, verified)
	}
}
