package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
	"github.com/imzamam0651/IT-Services/internal/app/repo"
	"github.com/imzamam0651/IT-Services/internal/client/email"
	"github.com/imzamam0651/IT-Services/internal/utils"
)

// MailSender is the mail transport the registration workflow depends on.
// *email.Client satisfies it.
type MailSender interface {
	SendOTPEmail(ctx context.Context, to, otp string) error
}

type authServiceImpl struct {
	userRepo    repo.UserRepository
	otpRepo     repo.OTPRepository
	sessionRepo repo.SessionRepository
	mailer      MailSender
	jwtManager  *utils.JWTManager
	logger      *logrus.Logger
	config      *Config
	now         func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repo.UserRepository,
	otpRepo repo.OTPRepository,
	sessionRepo repo.SessionRepository,
	mailer MailSender,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
	config *Config,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		sessionRepo: sessionRepo,
		mailer:      mailer,
		jwtManager:  jwtManager,
		logger:      logger,
		config:      config,
		now:         time.Now,
	}
}

var _ MailSender = (*email.Client)(nil)

func (s *authServiceImpl) Register(ctx context.Context, req *RegisterRequest) error {
	s.logger.WithFields(logrus.Fields{
		"username": req.Username,
		"email":    req.Email,
	}).Info("Starting registration")

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil && existing.IsActive {
		return fmt.Errorf("%w: email %s", ErrDuplicateUser, req.Email)
	}

	excludeID := uuid.Nil
	if existing != nil {
		excludeID = existing.ID
	}
	taken, err := s.userRepo.UsernameExists(ctx, req.Username, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: username %s", ErrDuplicateUser, req.Username)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var user *domain.User
	if existing != nil {
		// Abandoned draft: reuse the row, refresh the credentials.
		existing.Username = req.Username
		existing.PasswordHash = hashed
		if err := s.userRepo.UpdateDraft(ctx, existing); err != nil {
			return fmt.Errorf("failed to refresh registration draft: %w", err)
		}
		user = existing
	} else {
		user = &domain.User{
			ID:           uuid.New(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hashed,
			IsActive:     false,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	otp := &domain.OTP{
		UserID:    user.ID,
		Code:      code,
		CreatedAt: s.now(),
	}
	if err := s.otpRepo.Upsert(ctx, otp); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mailer.SendOTPEmail(ctx, user.Email, code); err != nil {
		// Ticket is useless if the user never received it.
		s.otpRepo.Delete(ctx, user.ID)
		return fmt.Errorf("%w: %s", ErrMailDelivery, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Registration pending, OTP sent")

	return nil
}

func (s *authServiceImpl) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*domain.TokenPair, error) {
	s.logger.WithFields(logrus.Fields{
		"email": req.Email,
	}).Info("Verifying registration OTP")

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.IsActive {
		return nil, ErrNoPendingOTP
	}

	otp, err := s.otpRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up OTP: %w", err)
	}
	if otp == nil {
		return nil, ErrNoPendingOTP
	}

	// String-exact compare plus the fixed lifetime window. A failed
	// attempt leaves the ticket in place so the user may retry until it
	// expires.
	if otp.Code != req.OTP || s.now().Sub(otp.CreatedAt) >= s.config.OTPTTL {
		return nil, ErrInvalidOrExpiredOTP
	}

	if err := s.userRepo.Activate(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	if err := s.otpRepo.Delete(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}

	tokens, err := s.generateTokens(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID)

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Registration verified, account activated")

	return tokens, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req *LoginRequest) (*domain.TokenPair, error) {
	s.logger.WithFields(logrus.Fields{
		"username": req.Username,
	}).Info("Starting login")

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// An unverified account must never log in, even with the right
	// password.
	if !user.IsActive {
		return nil, ErrAccountNotVerified
	}

	tokens, err := s.generateTokens(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.userRepo.UpdateLastLogin(ctx, user.ID)

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Login completed")

	return tokens, nil
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRefreshToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}

	exists, err := s.sessionRepo.RefreshTokenExists(ctx, userID, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !exists {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}

	// Rotation: the presented token is spent.
	s.sessionRepo.DeleteRefreshToken(ctx, userID, claims.ID)

	tokens, err := s.generateTokens(ctx, user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
	}).Info("Token refreshed")

	return tokens, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, req *LogoutRequest) error {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRefreshToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}

	if err := s.sessionRepo.DeleteRefreshToken(ctx, userID, claims.ID); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
	}).Info("User logged out")

	return nil
}

func (s *authServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authServiceImpl) generateTokens(ctx context.Context, userID uuid.UUID, username string) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, jti, err := s.jwtManager.GenerateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.sessionRepo.SetRefreshToken(ctx, userID, jti, s.config.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtManager.GetAccessTokenTTL().Seconds()),
	}, nil
}
