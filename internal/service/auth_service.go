package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
)

// AuthService implements the registration, verification and login
// workflow: Unregistered -> PendingOTP -> Active.
type AuthService interface {
	// Register creates (or refreshes) an inactive registration draft and
	// emails a fresh OTP. Retrying before verification replaces the
	// previous ticket.
	Register(ctx context.Context, req *RegisterRequest) error

	// VerifyOTP activates the draft if the submitted code matches
	// string-exactly and the ticket is within its lifetime. The ticket is
	// consumed on success and retained on failure.
	VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*domain.TokenPair, error)

	Login(ctx context.Context, req *LoginRequest) (*domain.TokenPair, error)
	RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*domain.TokenPair, error)
	Logout(ctx context.Context, req *LogoutRequest) error

	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// Service request DTOs
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

type VerifyOTPRequest struct {
	Email string
	OTP   string
}

type LoginRequest struct {
	Username string
	Password string
}

type RefreshTokenRequest struct {
	RefreshToken string
}

type LogoutRequest struct {
	RefreshToken string
}

// Config carries the workflow timing knobs.
type Config struct {
	OTPTTL          time.Duration
	RefreshTokenTTL time.Duration
}
