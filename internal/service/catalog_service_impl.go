package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
	"github.com/imzamam0651/IT-Services/internal/app/repo"
)

type catalogServiceImpl struct {
	serviceRepo repo.ServiceRepository
	logger      *logrus.Logger
}

func NewCatalogService(serviceRepo repo.ServiceRepository, logger *logrus.Logger) CatalogService {
	return &catalogServiceImpl{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

func (s *catalogServiceImpl) Create(ctx context.Context, req *ServiceInput) (*domain.Service, error) {
	svc := &domain.Service{
		ID:           uuid.New(),
		Name:         req.Name,
		PaymentTerms: req.PaymentTerms,
		Price:        req.Price,
		Package:      req.Package,
		TaxRate:      req.TaxRate,
		ImageURL:     req.ImageURL,
		Active:       req.Active,
	}

	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"service_id": svc.ID,
		"name":       svc.Name,
	}).Info("Service created")

	return svc, nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

func (s *catalogServiceImpl) ListActive(ctx context.Context) ([]domain.Service, error) {
	return s.serviceRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) List(ctx context.Context) ([]domain.Service, error) {
	return s.serviceRepo.List(ctx)
}

func (s *catalogServiceImpl) Update(ctx context.Context, id uuid.UUID, req *ServiceInput) (*domain.Service, error) {
	svc := &domain.Service{
		ID:           id,
		Name:         req.Name,
		PaymentTerms: req.PaymentTerms,
		Price:        req.Price,
		Package:      req.Package,
		TaxRate:      req.TaxRate,
		ImageURL:     req.ImageURL,
		Active:       req.Active,
	}

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"service_id": id,
	}).Info("Service updated")

	return svc, nil
}

func (s *catalogServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"service_id": id,
	}).Info("Service deleted")

	return nil
}
