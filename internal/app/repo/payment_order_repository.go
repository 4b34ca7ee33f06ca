package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/imzamam0651/IT-Services/internal/app/model/db"
	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
)

type PaymentOrderRepository interface {
	Create(ctx context.Context, order *domain.PaymentOrder) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentOrder, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentID string) error
}

type paymentOrderRepository struct {
	db *bun.DB
}

func NewPaymentOrderRepository(db *bun.DB) PaymentOrderRepository {
	return &paymentOrderRepository{db: db}
}

func (r *paymentOrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	dbOrder := &db.PaymentOrder{
		ID:          order.ID,
		OrderID:     order.OrderID,
		UserID:      order.UserID,
		ServiceID:   order.ServiceID,
		Amount:      order.Amount,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
		Status:      string(order.Status),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	_, err := r.db.NewInsert().Model(dbOrder).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}

	order.CreatedAt = dbOrder.CreatedAt
	order.UpdatedAt = dbOrder.UpdatedAt

	return nil
}

func (r *paymentOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	dbOrder := &db.PaymentOrder{}
	err := r.db.NewSelect().Model(dbOrder).Where("order_id = ?", orderID).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}

	return &domain.PaymentOrder{
		ID:          dbOrder.ID,
		OrderID:     dbOrder.OrderID,
		UserID:      dbOrder.UserID,
		ServiceID:   dbOrder.ServiceID,
		Amount:      dbOrder.Amount,
		AmountMinor: dbOrder.AmountMinor,
		Currency:    dbOrder.Currency,
		Status:      domain.OrderStatus(dbOrder.Status),
		PaymentID:   dbOrder.PaymentID,
		CreatedAt:   dbOrder.CreatedAt,
		UpdatedAt:   dbOrder.UpdatedAt,
	}, nil
}

func (r *paymentOrderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentID string) error {
	now := time.Now()
	q := r.db.NewUpdate().
		Model((*db.PaymentOrder)(nil)).
		Set("status = ?, updated_at = ?", string(status), now).
		Where("order_id = ?", orderID)

	if paymentID != "" {
		q = q.Set("payment_id = ?", paymentID)
	}

	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update payment order status: %w", err)
	}

	return nil
}
