package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("key_id", "key_secret", "http://unused", time.Second, testLogger())

	valid := signPayload("key_secret", "order_1", "pay_1")
	if err := client.VerifySignature("order_1", "pay_1", valid); err != nil {
		t.Errorf("expected valid signature to verify: %v", err)
	}

	// Signature over different IDs must not verify.
	if err := client.VerifySignature("order_2", "pay_1", valid); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("expected ErrSignatureMismatch for wrong order, got %v", err)
	}

	tampered := signPayload("other_secret", "order_1", "pay_1")
	if err := client.VerifySignature("order_1", "pay_1", tampered); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("expected ErrSignatureMismatch for wrong secret, got %v", err)
	}

	if err := client.VerifySignature("", "pay_1", valid); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("expected ErrSignatureMismatch for empty order ID, got %v", err)
	}
	if err := client.VerifySignature("order_1", "pay_1", ""); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("expected ErrSignatureMismatch for empty signature, got %v", err)
	}
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Error("expected basic auth with API credentials")
		}

		var req struct {
			Amount         int64  `json:"amount"`
			Currency       string `json:"currency"`
			PaymentCapture int    `json:"payment_capture"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Amount != 118000 {
			t.Errorf("expected amount 118000, got %d", req.Amount)
		}
		if req.PaymentCapture != 1 {
			t.Error("expected auto-capture enabled")
		}

		json.NewEncoder(w).Encode(&Order{
			ID:       "order_abc",
			Amount:   req.Amount,
			Currency: req.Currency,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewClient("key_id", "key_secret", server.URL, time.Second, testLogger())

	order, err := client.CreateOrder(context.Background(), 118000, "INR")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "order_abc" {
		t.Errorf("expected order_abc, got %s", order.ID)
	}
	if order.Currency != "INR" {
		t.Errorf("expected INR, got %s", order.Currency)
	}
}

func TestCreateOrder_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`)
	}))
	defer server.Close()

	client := NewClient("key_id", "key_secret", server.URL, time.Second, testLogger())

	_, err := client.CreateOrder(context.Background(), 1, "INR")
	if err == nil {
		t.Fatal("expected an error for a gateway rejection")
	}
}

func TestCreateOrder_Unreachable(t *testing.T) {
	client := NewClient("key_id", "key_secret", "http://127.0.0.1:1", time.Second, testLogger())

	if _, err := client.CreateOrder(context.Background(), 100, "INR"); err == nil {
		t.Fatal("expected an error when the gateway is unreachable")
	}
}
