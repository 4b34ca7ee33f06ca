package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
	"github.com/imzamam0651/IT-Services/internal/utils"
)

// In-memory fakes for the repositories and the mail transport.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpdateDraft(ctx context.Context, user *domain.User) error {
	stored, ok := r.users[user.ID]
	if !ok || stored.IsActive {
		return nil
	}
	stored.Username = user.Username
	stored.PasswordHash = user.PasswordHash
	return nil
}

func (r *fakeUserRepo) Activate(ctx context.Context, userID uuid.UUID) error {
	if u, ok := r.users[userID]; ok {
		u.IsActive = true
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	if u, ok := r.users[userID]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeOTPRepo struct {
	otps map[uuid.UUID]*domain.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{otps: make(map[uuid.UUID]*domain.OTP)}
}

func (r *fakeOTPRepo) Upsert(ctx context.Context, otp *domain.OTP) error {
	copied := *otp
	r.otps[otp.UserID] = &copied
	return nil
}

func (r *fakeOTPRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.OTP, error) {
	otp, ok := r.otps[userID]
	if !ok {
		return nil, nil
	}
	copied := *otp
	return &copied, nil
}

func (r *fakeOTPRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	delete(r.otps, userID)
	return nil
}

type fakeSessionRepo struct {
	tokens map[string]bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{tokens: make(map[string]bool)}
}

func sessionKey(userID uuid.UUID, jti string) string {
	return userID.String() + ":" + jti
}

func (r *fakeSessionRepo) SetRefreshToken(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error {
	r.tokens[sessionKey(userID, jti)] = true
	return nil
}

func (r *fakeSessionRepo) RefreshTokenExists(ctx context.Context, userID uuid.UUID, jti string) (bool, error) {
	return r.tokens[sessionKey(userID, jti)], nil
}

func (r *fakeSessionRepo) DeleteRefreshToken(ctx context.Context, userID uuid.UUID, jti string) error {
	delete(r.tokens, sessionKey(userID, jti))
	return nil
}

func (r *fakeSessionRepo) DeleteAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	prefix := userID.String() + ":"
	for k := range r.tokens {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(r.tokens, k)
		}
	}
	return nil
}

type fakeMailer struct {
	sent []string // OTP codes in send order
	fail bool
}

func (m *fakeMailer) SendOTPEmail(ctx context.Context, to, otp string) error {
	if m.fail {
		return errors.New("mail service unavailable")
	}
	m.sent = append(m.sent, otp)
	return nil
}

type authFixture struct {
	svc      *authServiceImpl
	users    *fakeUserRepo
	otps     *fakeOTPRepo
	sessions *fakeSessionRepo
	mailer   *fakeMailer
}

func newAuthFixture() *authFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &authFixture{
		users:    newFakeUserRepo(),
		otps:     newFakeOTPRepo(),
		sessions: newFakeSessionRepo(),
		mailer:   &fakeMailer{},
	}
	f.svc = &authServiceImpl{
		userRepo:    f.users,
		otpRepo:     f.otps,
		sessionRepo: f.sessions,
		mailer:      f.mailer,
		jwtManager:  utils.NewJWTManager("test-secret", 900, 86400),
		logger:      logger,
		config: &Config{
			OTPTTL:          10 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		now: time.Now,
	}
	return f
}

func (f *authFixture) register(t *testing.T) *domain.User {
	t.Helper()

	err := f.svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := f.users.GetByEmail(context.Background(), "alice@example.com")
	if err != nil || user == nil {
		t.Fatalf("expected user row after registration, got %v, %v", user, err)
	}
	return user
}

func TestRegister_CreatesInactiveUserAndSendsOTP(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)

	if user.IsActive {
		t.Error("new registration should be inactive until verified")
	}

	otp, _ := f.otps.GetByUserID(context.Background(), user.ID)
	if otp == nil {
		t.Fatal("expected a stored OTP for the new user")
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(f.mailer.sent))
	}
	if f.mailer.sent[0] != otp.Code {
		t.Error("mailed code should match the stored code")
	}
}

func TestRegister_RetryReplacesTicket(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)

	first, _ := f.otps.GetByUserID(context.Background(), user.ID)

	// Same email retries before verifying. The draft is reused and a
	// fresh ticket replaces the old one.
	err := f.svc.Register(context.Background(), &RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "another-pass",
	})
	if err != nil {
		t.Fatalf("retry Register failed: %v", err)
	}

	refreshed, _ := f.users.GetByEmail(context.Background(), "alice@example.com")
	if refreshed.ID != user.ID {
		t.Error("retry should reuse the draft row, not create a second user")
	}
	if refreshed.Username != "alice2" {
		t.Errorf("expected refreshed username alice2, got %s", refreshed.Username)
	}

	second, _ := f.otps.GetByUserID(context.Background(), user.ID)
	if second == nil {
		t.Fatal("expected a replacement ticket")
	}
	if len(f.mailer.sent) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(f.mailer.sent))
	}
	if second.Code != f.mailer.sent[1] {
		t.Error("stored ticket should be the most recently mailed code")
	}

	// The first code must no longer verify once replaced.
	if first.Code != second.Code {
		_, err = f.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
			Email: "alice@example.com",
			OTP:   first.Code,
		})
		if !errors.Is(err, ErrInvalidOrExpiredOTP) {
			t.Errorf("expected ErrInvalidOrExpiredOTP for the replaced code, got %v", err)
		}
	}
}

func TestRegister_ActiveEmailConflicts(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)
	f.users.Activate(context.Background(), user.ID)

	err := f.svc.Register(context.Background(), &RegisterRequest{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "whatever-pass",
	})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestRegister_MailFailureDropsTicket(t *testing.T) {
	f := newAuthFixture()
	f.mailer.fail = true

	err := f.svc.Register(context.Background(), &RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrMailDelivery) {
		t.Fatalf("expected ErrMailDelivery, got %v", err)
	}

	user, _ := f.users.GetByEmail(context.Background(), "alice@example.com")
	if user == nil {
		t.Fatal("draft user should still exist after mail failure")
	}
	otp, _ := f.otps.GetByUserID(context.Background(), user.ID)
	if otp != nil {
		t.Error("ticket should be dropped when the mail never went out")
	}
}

func TestVerifyOTP_ActivatesAndConsumesTicket(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)
	code := f.mailer.sent[0]

	tokens, err := f.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: "alice@example.com",
		OTP:   code,
	})
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("expected a full token pair on verification")
	}

	activated, _ := f.users.GetByID(context.Background(), user.ID)
	if !activated.IsActive {
		t.Error("user should be active after verification")
	}
	if otp, _ := f.otps.GetByUserID(context.Background(), user.ID); otp != nil {
		t.Error("ticket should be consumed on success")
	}

	// A second verification attempt finds no pending registration.
	_, err = f.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: "alice@example.com",
		OTP:   code,
	})
	if !errors.Is(err, ErrNoPendingOTP) {
		t.Errorf("expected ErrNoPendingOTP on replay, got %v", err)
	}
}

func TestVerifyOTP_WrongCodeKeepsTicket(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)
	code := f.mailer.sent[0]

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := f.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: "alice@example.com",
		OTP:   wrong,
	})
	if !errors.Is(err, ErrInvalidOrExpiredOTP) {
		t.Fatalf("expected ErrInvalidOrExpiredOTP, got %v", err)
	}

	// The ticket survives a failed attempt, so the real code still works.
	if otp, _ := f.otps.GetByUserID(context.Background(), user.ID); otp == nil {
		t.Fatal("ticket should be retained after a failed attempt")
	}
	if _, err := f.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: "alice@example.com",
		OTP:   code,
	}); err != nil {
		t.Errorf("correct code should still verify: %v", err)
	}
}

func TestVerifyOTP_LifetimeBoundary(t *testing.T) {
	f := newAuthFixture()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return base }

	f.register(t)
	code := f.mailer.sent[0]

	// One second inside the window still verifies.
	f.svc.now = func() time.Time { return base.Add(10*time.Minute - time.Second) }
	if _, err := f.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: "alice@example.com",
		OTP:   code,
	}); err != nil {
		t.Fatalf("code inside the lifetime window should verify: %v", err)
	}
}

func TestVerifyOTP_ExpiredTicketRejected(t *testing.T) {
	f := newAuthFixture()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return base }

	f.register(t)
	code := f.mailer.sent[0]

	// Exactly at the lifetime bound the ticket is already expired.
	f.svc.now = func() time.Time { return base.Add(10 * time.Minute) }
	_, err := f.svc.VerifyOTP(context.Background(), &VerifyOTPRequest{
		Email: "alice@example.com",
		OTP:   code,
	})
	if !errors.Is(err, ErrInvalidOrExpiredOTP) {
		t.Errorf("expected ErrInvalidOrExpiredOTP at the lifetime bound, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)

	// Unverified accounts must not log in even with the right password.
	_, err := f.svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrAccountNotVerified) {
		t.Errorf("expected ErrAccountNotVerified, got %v", err)
	}

	f.users.Activate(context.Background(), user.ID)

	_, err = f.svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "wrong-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = f.svc.Login(context.Background(), &LoginRequest{
		Username: "nobody",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	tokens, err := f.svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("expected a full token pair on login")
	}
}

func TestRefreshToken_Rotation(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)
	f.users.Activate(context.Background(), user.ID)

	tokens, err := f.svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	rotated, err := f.svc.RefreshToken(context.Background(), &RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("rotation should issue a new refresh token")
	}

	// The spent token is gone.
	_, err = f.svc.RefreshToken(context.Background(), &RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken for a spent token, got %v", err)
	}
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	f := newAuthFixture()
	user := f.register(t)
	f.users.Activate(context.Background(), user.ID)

	tokens, err := f.svc.Login(context.Background(), &LoginRequest{
		Username: "alice",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := f.svc.Logout(context.Background(), &LogoutRequest{
		RefreshToken: tokens.RefreshToken,
	}); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err = f.svc.RefreshToken(context.Background(), &RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken after logout, got %v", err)
	}
}
