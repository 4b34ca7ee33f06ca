package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a catalog entry. Price carries two fractional digits and
// TaxRate is a percentage (18.00 means 18%), both decimal so money math
// never touches floats.
type Service struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	PaymentTerms string          `json:"payment_terms"`
	Price        decimal.Decimal `json:"price"`
	Package      string          `json:"package"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	ImageURL     string          `json:"image_url"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
