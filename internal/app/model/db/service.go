package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Service struct {
	bun.BaseModel `bun:"table:services,alias:s"`

	ID           uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name         string          `bun:"name,notnull" json:"name"`
	PaymentTerms string          `bun:"payment_terms" json:"payment_terms"`
	Price        decimal.Decimal `bun:"price,notnull,type:numeric(10,2)" json:"price"`
	Package      string          `bun:"package" json:"package"`
	TaxRate      decimal.Decimal `bun:"tax_rate,notnull,type:numeric(5,2)" json:"tax_rate"`
	ImageURL     string          `bun:"image_url" json:"image_url"`
	Active       bool            `bun:"active,notnull,default:true" json:"active"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
