package main

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(createPaymentOrdersTableUp, createPaymentOrdersTableDown)
}

// Migration: 20240101000004_create_payment_orders_table
func createPaymentOrdersTableUp(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS payment_orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id TEXT UNIQUE NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id),
			service_id UUID NOT NULL REFERENCES services(id),
			amount NUMERIC(10,2) NOT NULL,
			amount_minor BIGINT NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'created',
			payment_id TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create payment_orders table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TRIGGER update_payment_orders_updated_at
		BEFORE UPDATE ON payment_orders
		FOR EACH ROW EXECUTE FUNCTION update_updated_at_column()
	`)
	if err != nil {
		return fmt.Errorf("failed to create payment_orders updated_at trigger: %w", err)
	}

	queries := []string{
		`CREATE INDEX IF NOT EXISTS idx_payment_orders_user_id ON payment_orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payment_orders_status ON payment_orders(status)`,
	}
	for _, query := range queries {
		_, err := db.ExecContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func createPaymentOrdersTableDown(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `DROP TRIGGER IF EXISTS update_payment_orders_updated_at ON payment_orders`)
	if err != nil {
		return fmt.Errorf("failed to drop payment_orders updated_at trigger: %w", err)
	}

	_, err = db.ExecContext(ctx, `DROP TABLE IF EXISTS payment_orders`)
	if err != nil {
		return fmt.Errorf("failed to drop payment_orders table: %w", err)
	}

	return nil
}
