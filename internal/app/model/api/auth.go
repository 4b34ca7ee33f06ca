package api

import (
	"time"

	"github.com/google/uuid"
)

// Request Types

// RegisterRequest represents the registration request payload
// @Description User registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100" example:"jdoe"`
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"securePassword123"`
}

// VerifyOTPRequest represents the OTP verification request payload
// @Description Verify registration OTP request
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email" example:"user@example.com"`
	OTP   string `json:"otp" validate:"required,len=6,numeric" example:"123456"`
}

// LoginRequest represents the login request payload
// @Description User login request
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"jdoe"`
	Password string `json:"password" validate:"required" example:"securePassword123"`
}

// RefreshTokenRequest represents the refresh token request payload
// @Description Refresh access token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest represents the logout request payload
// @Description Logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response Types

// TokenResponse represents the token response
// @Description JWT token response
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in" example:"900"`
	TokenType    string `json:"token_type" example:"Bearer"`
}

// UserResponse represents the user response
// @Description User information response
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username" example:"jdoe"`
	Email       string     `json:"email" example:"user@example.com"`
	IsActive    bool       `json:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// SuccessResponse represents a generic success response
// @Description Generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
	Success bool   `json:"success" example:"true"`
}

// ErrorResponse represents an error response
// @Description Error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message" example:"Invalid input data"`
	Success bool   `json:"success" example:"false"`
}

// HealthResponse represents the health check response
// @Description Health check response
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"it-services"`
	Version string `json:"version" example:"1.0.0"`
}
