package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Username     string     `bun:"username,unique,notnull" json:"username"`
	Email        string     `bun:"email,unique,notnull" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	IsActive     bool       `bun:"is_active,notnull,default:false" json:"is_active"`
	LastLoginAt  *time.Time `bun:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
