package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
)

// CatalogService manages the service catalog. Mutation happens only
// through these CRUD operations; the payment workflow reads but never
// writes the catalog.
type CatalogService interface {
	Create(ctx context.Context, req *ServiceInput) (*domain.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	ListActive(ctx context.Context) ([]domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	Update(ctx context.Context, id uuid.UUID, req *ServiceInput) (*domain.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceInput struct {
	Name         string
	PaymentTerms string
	Price        decimal.Decimal
	Package      string
	TaxRate      decimal.Decimal
	ImageURL     string
	Active       bool
}
