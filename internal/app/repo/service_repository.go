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

type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error)
	List(ctx context.Context) ([]domain.Service, error)
	ListActive(ctx context.Context) ([]domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type serviceRepository struct {
	db *bun.DB
}

func NewServiceRepository(db *bun.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, svc *domain.Service) error {
	dbSvc := r.toDBService(svc)
	dbSvc.CreatedAt = time.Now()
	dbSvc.UpdatedAt = dbSvc.CreatedAt

	_, err := r.db.NewInsert().Model(dbSvc).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	svc.CreatedAt = dbSvc.CreatedAt
	svc.UpdatedAt = dbSvc.UpdatedAt

	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	dbSvc := &db.Service{}
	err := r.db.NewSelect().Model(dbSvc).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	return r.toDomainService(dbSvc), nil
}

func (r *serviceRepository) List(ctx context.Context) ([]domain.Service, error) {
	var dbSvcs []db.Service
	err := r.db.NewSelect().Model(&dbSvcs).Order("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	return r.toDomainServices(dbSvcs), nil
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]domain.Service, error) {
	var dbSvcs []db.Service
	err := r.db.NewSelect().
		Model(&dbSvcs).
		Where("active = TRUE").
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active services: %w", err)
	}

	return r.toDomainServices(dbSvcs), nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *domain.Service) error {
	dbSvc := r.toDBService(svc)
	dbSvc.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(dbSvc).
		Column("name", "payment_terms", "price", "package", "tax_rate", "image_url", "active", "updated_at").
		Where("id = ?", svc.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	svc.UpdatedAt = dbSvc.UpdatedAt

	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*db.Service)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *serviceRepository) toDBService(svc *domain.Service) *db.Service {
	return &db.Service{
		ID:           svc.ID,
		Name:         svc.Name,
		PaymentTerms: svc.PaymentTerms,
		Price:        svc.Price,
		Package:      svc.Package,
		TaxRate:      svc.TaxRate,
		ImageURL:     svc.ImageURL,
		Active:       svc.Active,
		CreatedAt:    svc.CreatedAt,
		UpdatedAt:    svc.UpdatedAt,
	}
}

func (r *serviceRepository) toDomainService(dbSvc *db.Service) *domain.Service {
	return &domain.Service{
		ID:           dbSvc.ID,
		Name:         dbSvc.Name,
		PaymentTerms: dbSvc.PaymentTerms,
		Price:        dbSvc.Price,
		Package:      dbSvc.Package,
		TaxRate:      dbSvc.TaxRate,
		ImageURL:     dbSvc.ImageURL,
		Active:       dbSvc.Active,
		CreatedAt:    dbSvc.CreatedAt,
		UpdatedAt:    dbSvc.UpdatedAt,
	}
}

func (r *serviceRepository) toDomainServices(dbSvcs []db.Service) []domain.Service {
	services := make([]domain.Service, 0, len(dbSvcs))
	for i := range dbSvcs {
		services = append(services, *r.toDomainService(&dbSvcs[i]))
	}
	return services
}
