// Package razorpay is a thin client for the Razorpay orders API: creating a
// gateway-hosted order before the checkout popup opens, and verifying the
// signed callback that proves a payment actually settled.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount is returned before any network call when the amount to
	// collect is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrMissingField is returned by VerifySignature when any of its inputs is
	// empty. This is a precondition failure, not a verification failure.
	ErrMissingField = errors.New("order id, payment id and signature are all required")
)

// GatewayError wraps any downstream failure from the gateway API.
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway error: %v", e.Err)
	}
	return fmt.Sprintf("gateway error: status %d: %s", e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// GatewayOrder is the gateway's record of one checkout attempt. Amount is in
// minor currency units (paise), per the gateway's convention.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Config holds the gateway credentials and endpoint.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string // default https://api.razorpay.com
}

// Client talks to the Razorpay REST API.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new gateway client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder registers an order with the gateway for the given amount in
// major currency units (whole rupees). The gateway works in paise, so the
// amount is converted before the call. Notes are free-form metadata kept on
// the gateway's side (customer name, phone).
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency string, notes map[string]string) (*GatewayOrder, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payload := map[string]interface{}{
		"amount":   amount * 100,
		"currency": currency,
		"receipt":  "rcpt_" + uuid.New().String(),
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: string(msg)}
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, &GatewayError{Err: fmt.Errorf("failed to decode gateway response: %w", err)}
	}
	return &order, nil
}

// VerifySignature checks the callback signature the client relays after the
// gateway's checkout flow completes. It recomputes HMAC-SHA256 over
// "orderID|paymentID" with the key secret and compares in constant time.
// A mismatch returns (false, nil): it is an expected, reportable outcome,
// not a fault. The signature is the sole proof that money moved; the popup's
// client-reported success is never trusted.
func (c *Client) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, ErrMissingField
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature)), nil
}
