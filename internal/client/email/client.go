package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type EmailRequest struct {
	To        string            `json:"to"`
	Subject   string            `json:"subject"`
	Template  string            `json:"template"`
	Variables map[string]string `json:"variables"`
}

type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client talks to the mail-delivery service. Delivery failures are
// returned to the caller as-is: a lost OTP mail must fail the registration
// request, never be swallowed or retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) SendEmail(ctx context.Context, req *EmailRequest) error {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	url := fmt.Sprintf("%s/email/send", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	var emailResp EmailResponse
	if err := json.NewDecoder(resp.Body).Decode(&emailResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !emailResp.Success {
		return fmt.Errorf("email service returned error: %s", emailResp.Message)
	}

	c.logger.WithFields(logrus.Fields{
		"to":       req.To,
		"template": req.Template,
	}).Info("Email sent successfully")

	return nil
}

// SendOTPEmail delivers the registration verification code.
func (c *Client) SendOTPEmail(ctx context.Context, to, otp string) error {
	req := &EmailRequest{
		To:       to,
		Subject:  "Your OTP Code",
		Template: "registration_otp",
		Variables: map[string]string{
			"otp":    otp,
			"expiry": "10 minutes",
		},
	}

	return c.SendEmail(ctx, req)
}
