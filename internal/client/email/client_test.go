package email

import (
	"context"
	"encoding/json"
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

func TestSendOTPEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req EmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.To != "alice@example.com" {
			t.Errorf("unexpected recipient %s", req.To)
		}
		if req.Template != "registration_otp" {
			t.Errorf("unexpected template %s", req.Template)
		}
		if req.Variables["otp"] != "123456" {
			t.Errorf("unexpected otp variable %s", req.Variables["otp"])
		}

		json.NewEncoder(w).Encode(&EmailResponse{Success: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	if err := client.SendOTPEmail(context.Background(), "alice@example.com", "123456"); err != nil {
		t.Fatalf("SendOTPEmail failed: %v", err)
	}
}

func TestSendEmail_ServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&EmailResponse{Success: false, Message: "mailbox unavailable"})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	if err := client.SendOTPEmail(context.Background(), "alice@example.com", "123456"); err == nil {
		t.Fatal("expected an error when the mail service reports failure")
	}
}

func TestSendEmail_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	if err := client.SendOTPEmail(context.Background(), "alice@example.com", "123456"); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
