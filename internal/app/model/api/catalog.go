package api

import (
	"time"

	"github.com/google/uuid"
)

// ServiceRequest represents the create/update service payload
// @Description Catalog service create or update request
type ServiceRequest struct {
	Name         string `json:"name" validate:"required,max=100" example:"Managed Hosting"`
	PaymentTerms string `json:"payment_terms" validate:"max=255" example:"Billed monthly"`
	Price        string `json:"price" validate:"required" example:"1000.00"`
	Package      string `json:"package" validate:"max=255" example:"Standard"`
	TaxRate      string `json:"tax_rate" validate:"required" example:"18.00"`
	ImageURL     string `json:"image_url" validate:"omitempty,url" example:"https://cdn.example.com/services/hosting.png"`
	Active       *bool  `json:"active,omitempty" example:"true"`
}

// ServiceResponse represents a single catalog service
// @Description Catalog service response
type ServiceResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PaymentTerms string    `json:"payment_terms"`
	Price        string    `json:"price" example:"1000.00"`
	Package      string    `json:"package"`
	TaxRate      string    `json:"tax_rate" example:"18.00"`
	ImageURL     string    `json:"image_url"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ServiceListResponse represents a list of catalog services
// @Description Catalog service list response
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Count    int               `json:"count"`
}
