package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionRepository tracks issued refresh tokens by JTI so they can be
// rotated and revoked. A token absent from Redis is treated as expired.
type SessionRepository interface {
	SetRefreshToken(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error
	RefreshTokenExists(ctx context.Context, userID uuid.UUID, jti string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID uuid.UUID, jti string) error
	DeleteAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) SetRefreshToken(ctx context.Context, userID uuid.UUID, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, refreshTokenKey(userID, jti), "valid", ttl).Err()
}

func (r *sessionRepository) RefreshTokenExists(ctx context.Context, userID uuid.UUID, jti string) (bool, error) {
	result, err := r.client.Exists(ctx, refreshTokenKey(userID, jti)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

func (r *sessionRepository) DeleteRefreshToken(ctx context.Context, userID uuid.UUID, jti string) error {
	return r.client.Del(ctx, refreshTokenKey(userID, jti)).Err()
}

func (r *sessionRepository) DeleteAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("refresh_token:%s:*", userID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}

	return nil
}

func refreshTokenKey(userID uuid.UUID, jti string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), jti)
}
