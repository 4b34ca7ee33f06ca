package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PaymentOrder is the local record of a gateway checkout order. Callbacks
// are reconciled against these rows, which makes duplicate callbacks
// detectable instead of silently re-processed.
type PaymentOrder struct {
	bun.BaseModel `bun:"table:payment_orders,alias:po"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderID     string          `bun:"order_id,unique,notnull" json:"order_id"`
	UserID      uuid.UUID       `bun:"user_id,type:uuid,notnull" json:"user_id"`
	ServiceID   uuid.UUID       `bun:"service_id,type:uuid,notnull" json:"service_id"`
	Amount      decimal.Decimal `bun:"amount,notnull,type:numeric(10,2)" json:"amount"`
	AmountMinor int64           `bun:"amount_minor,notnull" json:"amount_minor"`
	Currency    string          `bun:"currency,notnull" json:"currency"`
	Status      string          `bun:"status,notnull,default:'created'" json:"status"`
	PaymentID   *string         `bun:"payment_id" json:"payment_id,omitempty"`
	CreatedAt   time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
