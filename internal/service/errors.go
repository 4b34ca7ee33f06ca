package service

import "errors"

// Workflow error taxonomy. Handlers dispatch on these with errors.Is;
// anything not listed here is an internal error.
var (
	// Registration / verification
	ErrDuplicateUser       = errors.New("user already exists")
	ErrNoPendingOTP        = errors.New("no pending OTP for user")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrMailDelivery        = errors.New("mail delivery failed")

	// Login / session
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotVerified  = errors.New("account not verified")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// Catalog
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceInactive = errors.New("service is not active")

	// Payment
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrOrderNotFound      = errors.New("payment order not found")
)
