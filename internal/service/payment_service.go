package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
)

// Callback status values answered to the payment gateway. The callback
// endpoint always replies with one of these, never a raw fault.
const (
	CallbackStatusSuccessful     = "Payment Successful"
	CallbackStatusVerifyFailed   = "Payment Verification Failed"
	CallbackStatusError          = "Error"
	CallbackStatusInvalidRequest = "Invalid Request"
)

// PaymentService quotes tax-inclusive totals, opens hosted-checkout
// orders and settles gateway callbacks.
type PaymentService interface {
	// Quote computes price + price*taxRate/100 in decimal arithmetic.
	Quote(svc *domain.Service) decimal.Decimal

	// CreateOrder quotes the service, opens a gateway order for the total
	// in minor currency units and persists the order for callback
	// reconciliation.
	CreateOrder(ctx context.Context, userID, serviceID uuid.UUID) (*CheckoutOrder, error)

	// HandleCallback verifies a gateway callback and settles the order.
	// It never returns an error: every outcome, including internal
	// failures, becomes a structured CallbackResult.
	HandleCallback(ctx context.Context, req *CallbackRequest) *CallbackResult
}

// CheckoutOrder is what the client needs to open the hosted-checkout
// widget.
type CheckoutOrder struct {
	OrderID     string
	KeyID       string
	Amount      decimal.Decimal
	AmountMinor int64
	Currency    string
}

type CallbackRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

type CallbackResult struct {
	Status  string
	Message string
}
