package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "https://api.razorpay.com"
	requestTimeout = 10 * time.Second
)

var (
	ErrMissingCredentials = errors.New("razorpay key id and secret must be configured")
	ErrInvalidAmount      = errors.New("invalid amount provided")
)

// Client talks to the Razorpay REST API and verifies its payment
// callbacks.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a gateway client. Missing credentials are a
// configuration error; callers should treat it as fatal at startup.
func NewClient(keyID, keySecret string) (*Client, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrMissingCredentials
	}
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// GatewayOrder is the remote payment order handle returned by the
// gateway. Amount is in paise.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers a payment order at the gateway. The amount is
// in currency units; Razorpay expects paise. The call is not retried:
// it is a financial operation and is not idempotency-key guarded.
func (c *Client) CreateOrder(ctx context.Context, amount float64) (*GatewayOrder, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payload, err := json.Marshal(map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": "INR",
		"receipt":  "receipt_" + uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay order creation failed: status %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("razorpay order creation failed: %w", err)
	}
	return &order, nil
}

// VerifySignature checks that a payment callback originated from the
// gateway: hex(HMAC-SHA256(secret, orderID+"|"+paymentID)) must match
// the provided signature. The comparison is constant time. Malformed
// input is reported as an invalid signature, never an error.
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
