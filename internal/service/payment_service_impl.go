package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
	"github.com/imzamam0651/IT-Services/internal/app/repo"
	"github.com/imzamam0651/IT-Services/internal/client/razorpay"
)

var oneHundred = decimal.NewFromInt(100)

type paymentServiceImpl struct {
	serviceRepo repo.ServiceRepository
	orderRepo   repo.PaymentOrderRepository
	gateway     razorpay.Gateway
	currency    string
	logger      *logrus.Logger
}

// NewPaymentService creates a new instance of PaymentService. The gateway
// is injected rather than constructed here so tests can substitute a
// fake.
func NewPaymentService(
	serviceRepo repo.ServiceRepository,
	orderRepo repo.PaymentOrderRepository,
	gateway razorpay.Gateway,
	currency string,
	logger *logrus.Logger,
) PaymentService {
	return &paymentServiceImpl{
		serviceRepo: serviceRepo,
		orderRepo:   orderRepo,
		gateway:     gateway,
		currency:    currency,
		logger:      logger,
	}
}

func (s *paymentServiceImpl) Quote(svc *domain.Service) decimal.Decimal {
	tax := svc.Price.Mul(svc.TaxRate).Div(oneHundred)
	return svc.Price.Add(tax)
}

func (s *paymentServiceImpl) CreateOrder(ctx context.Context, userID, serviceID uuid.UUID) (*CheckoutOrder, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if !svc.Active {
		return nil, ErrServiceInactive
	}

	total := s.Quote(svc)
	// Minor units, rounded half away from zero. Round(0) on the scaled
	// total keeps the conversion deterministic for two-decimal
	// currencies.
	amountMinor := total.Mul(oneHundred).Round(0).IntPart()

	gwOrder, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGatewayUnavailable, err)
	}

	order := &domain.PaymentOrder{
		ID:          uuid.New(),
		OrderID:     gwOrder.ID,
		UserID:      userID,
		ServiceID:   serviceID,
		Amount:      total,
		AmountMinor: amountMinor,
		Currency:    s.currency,
		Status:      domain.OrderStatusCreated,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist payment order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     order.OrderID,
		"user_id":      userID,
		"service_id":   serviceID,
		"amount":       total.StringFixed(2),
		"amount_minor": amountMinor,
		"currency":     s.currency,
	}).Info("Checkout order created")

	return &CheckoutOrder{
		OrderID:     gwOrder.ID,
		KeyID:       s.gateway.KeyID(),
		Amount:      total,
		AmountMinor: amountMinor,
		Currency:    s.currency,
	}, nil
}

func (s *paymentServiceImpl) HandleCallback(ctx context.Context, req *CallbackRequest) (result *CallbackResult) {
	// This answers a server-to-server callback: whatever goes wrong, the
	// gateway gets a structured status back.
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Payment callback panicked")
			result = &CallbackResult{
				Status:  CallbackStatusError,
				Message: fmt.Sprintf("%v", r),
			}
		}
	}()

	order, err := s.orderRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": req.OrderID,
			"error":    err.Error(),
		}).Error("Callback order lookup failed")
		return &CallbackResult{Status: CallbackStatusError, Message: err.Error()}
	}
	if order == nil {
		return &CallbackResult{Status: CallbackStatusError, Message: "unknown order"}
	}

	// Replay protection: a duplicate callback for a settled order is
	// acknowledged without re-processing.
	if order.Status == domain.OrderStatusPaid {
		s.logger.WithField("order_id", req.OrderID).Info("Duplicate callback for paid order")
		return &CallbackResult{Status: CallbackStatusSuccessful}
	}

	if err := s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature); err != nil {
		if errors.Is(err, razorpay.ErrSignatureMismatch) {
			s.logger.WithFields(logrus.Fields{
				"order_id":   req.OrderID,
				"payment_id": req.PaymentID,
			}).Warn("Payment signature verification failed")

			s.orderRepo.UpdateStatus(ctx, req.OrderID, domain.OrderStatusFailed, req.PaymentID)
			return &CallbackResult{Status: CallbackStatusVerifyFailed}
		}

		s.logger.WithFields(logrus.Fields{
			"order_id": req.OrderID,
			"error":    err.Error(),
		}).Error("Signature verification errored")
		return &CallbackResult{Status: CallbackStatusError, Message: err.Error()}
	}

	if err := s.orderRepo.UpdateStatus(ctx, req.OrderID, domain.OrderStatusPaid, req.PaymentID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": req.OrderID,
			"error":    err.Error(),
		}).Error("Failed to mark order paid")
		return &CallbackResult{Status: CallbackStatusError, Message: err.Error()}
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   req.OrderID,
		"payment_id": req.PaymentID,
	}).Info("Payment verified and settled")

	return &CallbackResult{Status: CallbackStatusSuccessful}
}
