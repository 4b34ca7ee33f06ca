package main

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(seedServicesUp, seedServicesDown)
}

// Migration: 20240101000005_seed_services
func seedServicesUp(ctx context.Context, db *bun.DB) error {
	// Starter catalog for development environments.
	query := `INSERT INTO services (name, payment_terms, price, package, tax_rate, active)
VALUES
	('Web Development', 'monthly', 1000.00, 'standard', 18.00, TRUE),
	('SEO Optimization', 'monthly', 500.00, 'basic', 18.00, TRUE),
	('Cloud Hosting', 'yearly', 2400.00, 'premium', 18.00, TRUE)
ON CONFLICT DO NOTHING`

	_, err := db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to seed services: %w", err)
	}

	return nil
}

func seedServicesDown(ctx context.Context, db *bun.DB) error {
	query := `DELETE FROM services WHERE name IN ('Web Development', 'SEO Optimization', 'Cloud Hosting')`
	_, err := db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to remove seeded services: %w", err)
	}

	return nil
}
