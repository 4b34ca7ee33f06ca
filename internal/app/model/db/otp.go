package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OTP is the one live verification code for a pending user. user_id is the
// primary key, so the one-ticket-per-user invariant is a table constraint
// and re-registration replaces the row via upsert.
type OTP struct {
	bun.BaseModel `bun:"table:otps,alias:o"`

	UserID    uuid.UUID `bun:"user_id,pk,type:uuid" json:"user_id"`
	Code      string    `bun:"code,notnull" json:"-"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
