package main

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(createOTPsTableUp, createOTPsTableDown)
}

// Migration: 20240101000002_create_otps_table
func createOTPsTableUp(ctx context.Context, db *bun.DB) error {
	// user_id is the primary key, so each user can hold at most one
	// live verification code at a time.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS otps (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create otps table: %w", err)
	}

	return nil
}

func createOTPsTableDown(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS otps`)
	if err != nil {
		return fmt.Errorf("failed to drop otps table: %w", err)
	}

	return nil
}
