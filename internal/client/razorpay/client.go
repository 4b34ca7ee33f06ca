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
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrSignatureMismatch means a callback signature did not verify. The
// signature check is the sole trust boundary for payment callbacks, so a
// mismatch must never be treated as a transient failure.
var ErrSignatureMismatch = errors.New("payment signature mismatch")

// Gateway is the hosted-checkout provider surface the payment workflow
// depends on. Handlers receive it as an explicit dependency so tests can
// substitute a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) error
	KeyID() string
}

// Order is the provider-side order handle echoed back to the client for
// the checkout widget.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type orderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	PaymentCapture int    `json:"payment_capture"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(keyID, keySecret, baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder opens a hosted-checkout order with auto-capture enabled.
// Amount is in the currency's smallest unit.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency string) (*Order, error) {
	body, err := json.Marshal(&orderRequest{
		Amount:         amountMinor,
		Currency:       currency,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/orders", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
	}).Info("Gateway order created")

	return &order, nil
}

// VerifySignature checks the callback signature: HMAC-SHA256 over
// "<order_id>|<payment_id>" keyed with the API secret, hex encoded.
// Comparison is constant time.
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}

	return nil
}
