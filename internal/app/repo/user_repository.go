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

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateDraft(ctx context.Context, user *domain.User) error
	Activate(ctx context.Context, userID uuid.UUID) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
	UsernameExists(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	dbUser := &db.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsActive:     user.IsActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	_, err := r.db.NewInsert().Model(dbUser).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt

	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	dbUser := &db.User{}
	err := r.db.NewSelect().Model(dbUser).Where("email = ?", email).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return r.toDomainUser(dbUser), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	dbUser := &db.User{}
	err := r.db.NewSelect().Model(dbUser).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return r.toDomainUser(dbUser), nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	dbUser := &db.User{}
	err := r.db.NewSelect().Model(dbUser).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return r.toDomainUser(dbUser), nil
}

// UpdateDraft rewrites the mutable fields of an unverified registration
// draft when the user retries registration before verifying.
func (r *userRepository) UpdateDraft(ctx context.Context, user *domain.User) error {
	now := time.Now()
	_, err := r.db.NewUpdate().
		Model((*db.User)(nil)).
		Set("username = ?, password_hash = ?, updated_at = ?", user.Username, user.PasswordHash, now).
		Where("id = ? AND is_active = FALSE", user.ID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update registration draft: %w", err)
	}

	return nil
}

func (r *userRepository) Activate(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	_, err := r.db.NewUpdate().
		Model((*db.User)(nil)).
		Set("is_active = ?, updated_at = ?", true, now).
		Where("id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}

	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	_, err := r.db.NewUpdate().
		Model((*db.User)(nil)).
		Set("last_login_at = ?, updated_at = ?", now, now).
		Where("id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	q := r.db.NewSelect().
		Model((*db.User)(nil)).
		Where("username = ?", username)

	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return count > 0, nil
}

func (r *userRepository) toDomainUser(dbUser *db.User) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Username:     dbUser.Username,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		IsActive:     dbUser.IsActive,
		LastLoginAt:  dbUser.LastLoginAt,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}
