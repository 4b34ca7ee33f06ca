package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/imzamam0651/IT-Services/internal/app/model/db"
	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
)

type OTPRepository interface {
	// Upsert stores the OTP for a user, replacing any live one. The
	// user_id primary key makes concurrent registrations last-write-wins
	// instead of producing duplicate tickets.
	Upsert(ctx context.Context, otp *domain.OTP) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.OTP, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type otpRepository struct {
	db *bun.DB
}

func NewOTPRepository(db *bun.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Upsert(ctx context.Context, otp *domain.OTP) error {
	dbOTP := &db.OTP{
		UserID:    otp.UserID,
		Code:      otp.Code,
		CreatedAt: otp.CreatedAt,
	}
	if dbOTP.CreatedAt.IsZero() {
		dbOTP.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(dbOTP).
		On("CONFLICT (user_id) DO UPDATE").
		Set("code = EXCLUDED.code, created_at = EXCLUDED.created_at").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to upsert OTP: %w", err)
	}

	otp.CreatedAt = dbOTP.CreatedAt

	return nil
}

func (r *otpRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.OTP, error) {
	dbOTP := &db.OTP{}
	err := r.db.NewSelect().Model(dbOTP).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}

	return &domain.OTP{
		UserID:    dbOTP.UserID,
		Code:      dbOTP.Code,
		CreatedAt: dbOTP.CreatedAt,
	}, nil
}

func (r *otpRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*db.OTP)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete OTP: %w", err)
	}

	return nil
}
