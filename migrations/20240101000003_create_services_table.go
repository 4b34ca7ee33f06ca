package main

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(createServicesTableUp, createServicesTableDown)
}

// Migration: 20240101000003_create_services_table
func createServicesTableUp(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS services (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			payment_terms TEXT,
			price NUMERIC(10,2) NOT NULL,
			package TEXT,
			tax_rate NUMERIC(5,2) NOT NULL,
			image_url TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create services table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TRIGGER update_services_updated_at
		BEFORE UPDATE ON services
		FOR EACH ROW EXECUTE FUNCTION update_updated_at_column()
	`)
	if err != nil {
		return fmt.Errorf("failed to create services updated_at trigger: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_services_active ON services(active)`)
	if err != nil {
		return fmt.Errorf("failed to create services index: %w", err)
	}

	return nil
}

func createServicesTableDown(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `DROP TRIGGER IF EXISTS update_services_updated_at ON services`)
	if err != nil {
		return fmt.Errorf("failed to drop services updated_at trigger: %w", err)
	}

	_, err = db.ExecContext(ctx, `DROP TABLE IF EXISTS services`)
	if err != nil {
		return fmt.Errorf("failed to drop services table: %w", err)
	}

	return nil
}
