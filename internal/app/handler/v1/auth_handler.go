package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/api"
	"github.com/imzamam0651/IT-Services/internal/service"
	"github.com/imzamam0651/IT-Services/internal/utils"
)

// AuthHandler handles registration, OTP verification and session HTTP
// requests
type AuthHandler struct {
	authService service.AuthService
	jwtManager  *utils.JWTManager
	validator   *validator.Validate
	logger      *logrus.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService service.AuthService, jwtManager *utils.JWTManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtManager:  jwtManager,
		validator:   validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers authentication routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		// Public routes
		r.Post("/register", h.Register)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)
		r.Post("/logout", h.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/me", h.GetMe)
		})
	})
}

// Register handles user registration
// @Summary User registration
// @Description Register a new account; an OTP is emailed for verification
// @Tags auth
// @Accept json
// @Produce json
// @Param request body api.RegisterRequest true "Register request"
// @Success 202 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Failure 502 {object} api.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	serviceReq := &service.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := h.authService.Register(r.Context(), serviceReq); err != nil {
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"error": err.Error(),
		}).Error("Registration failed")

		switch {
		case errors.Is(err, service.ErrDuplicateUser):
			h.renderError(w, r, http.StatusConflict, "conflict", err.Error())
		case errors.Is(err, service.ErrMailDelivery):
			h.renderError(w, r, http.StatusBadGateway, "mail_delivery_error", "Failed to send OTP email")
		default:
			h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to process registration")
		}
		return
	}

	h.renderSuccess(w, r, http.StatusAccepted, "OTP sent to your email address")
}

// VerifyOTP handles registration verification
// @Summary Verify registration OTP
// @Description Verify the emailed OTP and activate the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body api.VerifyOTPRequest true "Verify OTP request"
// @Success 200 {object} api.TokenResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req api.VerifyOTPRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	serviceReq := &service.VerifyOTPRequest{
		Email: req.Email,
		OTP:   req.OTP,
	}

	tokens, err := h.authService.VerifyOTP(r.Context(), serviceReq)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"error": err.Error(),
		}).Error("OTP verification failed")

		switch {
		case errors.Is(err, service.ErrNoPendingOTP):
			h.renderError(w, r, http.StatusUnauthorized, "no_pending_otp", "No pending verification for this email")
		case errors.Is(err, service.ErrInvalidOrExpiredOTP):
			h.renderError(w, r, http.StatusUnauthorized, "invalid_otp", "Invalid or expired OTP")
		default:
			h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to verify OTP")
		}
		return
	}

	h.renderTokens(w, r, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)
}

// Login handles user login
// @Summary User login
// @Description Authenticate with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body api.LoginRequest true "Login request"
// @Success 200 {object} api.TokenResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	serviceReq := &service.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	}

	tokens, err := h.authService.Login(r.Context(), serviceReq)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"username": req.Username,
			"error":    err.Error(),
		}).Error("Login failed")

		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.renderError(w, r, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		case errors.Is(err, service.ErrAccountNotVerified):
			h.renderError(w, r, http.StatusForbidden, "account_not_verified", "Account has not been verified")
		default:
			h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to process login")
		}
		return
	}

	h.renderTokens(w, r, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)
}

// RefreshToken handles token refresh
// @Summary Refresh token
// @Description Rotate the refresh token and issue a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body api.RefreshTokenRequest true "Refresh token request"
// @Success 200 {object} api.TokenResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 500 {object} api.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshTokenRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	tokens, err := h.authService.RefreshToken(r.Context(), &service.RefreshTokenRequest{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Token refresh failed")

		if errors.Is(err, service.ErrInvalidRefreshToken) {
			h.renderError(w, r, http.StatusUnauthorized, "invalid_token", "Invalid or expired refresh token")
			return
		}

		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to refresh token")
		return
	}

	h.renderTokens(w, r, tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn)
}

// Logout handles user logout
// @Summary User logout
// @Description Invalidate the refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body api.LogoutRequest true "Logout request"
// @Success 200 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req api.LogoutRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.authService.Logout(r.Context(), &service.LogoutRequest{
		RefreshToken: req.RefreshToken,
	}); err != nil {
		h.logger.WithField("error", err.Error()).Error("Logout failed")
		// Even if logout fails, report success to avoid confusion
	}

	h.renderSuccess(w, r, http.StatusOK, "Logged out successfully")
}

// GetMe handles user profile retrieval
// @Summary Get user profile
// @Description Get current user information
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.UserResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		h.renderError(w, r, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to get user")

		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to get user information")
		return
	}

	if user == nil {
		h.renderError(w, r, http.StatusNotFound, "user_not_found", "User not found")
		return
	}

	response := &api.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

// Helper methods

func (h *AuthHandler) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return h.validator.Struct(v)
}

func (h *AuthHandler) renderError(w http.ResponseWriter, r *http.Request, status int, errorType, message string) {
	render.Status(r, status)
	render.JSON(w, r, &api.ErrorResponse{
		Error:   errorType,
		Message: message,
		Success: false,
	})
}

func (h *AuthHandler) renderSuccess(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, &api.SuccessResponse{
		Message: message,
		Success: true,
	})
}

func (h *AuthHandler) renderTokens(w http.ResponseWriter, r *http.Request, access, refresh string, expiresIn int) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &api.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	})
}

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
)

// UserIDFromContext returns the authenticated user id, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

// RequireAuth guards routes with bearer-token authentication.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.renderError(w, r, http.StatusUnauthorized, "unauthorized", "Missing authorization header")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			h.renderError(w, r, http.StatusUnauthorized, "unauthorized", "Invalid authorization header format")
			return
		}

		claims, err := h.jwtManager.ValidateAccessToken(tokenParts[1])
		if err != nil {
			h.logger.WithField("error", err.Error()).Error("Invalid access token")
			h.renderError(w, r, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
