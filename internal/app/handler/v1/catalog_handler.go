package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/api"
	"github.com/imzamam0651/IT-Services/internal/app/model/domain"
	"github.com/imzamam0651/IT-Services/internal/service"
)

// CatalogHandler handles service-catalog HTTP requests
type CatalogHandler struct {
	catalogService service.CatalogService
	paymentService service.PaymentService
	auth           *AuthHandler
	validator      *validator.Validate
	logger         *logrus.Logger
}

func NewCatalogHandler(
	catalogService service.CatalogService,
	paymentService service.PaymentService,
	auth *AuthHandler,
	logger *logrus.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		paymentService: paymentService,
		auth:           auth,
		validator:      validator.New(),
		logger:         logger,
	}
}

// RegisterRoutes registers catalog routes. Everything is behind auth,
// mirroring the login-required browsing surface.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/services", func(r chi.Router) {
		r.Use(h.auth.RequireAuth)

		r.Get("/", h.ListActive)
		r.Get("/all", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/subscribe", h.Subscribe)
	})
}

// ListActive handles the home listing of active services
// @Summary List active services
// @Description List services available for subscription
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.ServiceListResponse
// @Router /services [get]
func (h *CatalogHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.ListActive(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list active services")
		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list services")
		return
	}

	h.renderServiceList(w, r, services)
}

// List handles the full catalog listing
// @Summary List all services
// @Description List every service including inactive ones
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.ServiceListResponse
// @Router /services/all [get]
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.List(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list services")
		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list services")
		return
	}

	h.renderServiceList(w, r, services)
}

// Create handles service creation
// @Summary Create service
// @Description Add a new service to the catalog
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body api.ServiceRequest true "Service request"
// @Success 201 {object} api.ServiceResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /services [post]
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeServiceInput(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	svc, err := h.catalogService.Create(r.Context(), input)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to create service")
		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create service")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toServiceResponse(svc))
}

// Get handles single service retrieval
// @Summary Get service
// @Description Get a catalog service by id
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} api.ServiceResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /services/{id} [get]
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.serviceID(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", "Invalid service id")
		return
	}

	svc, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			h.renderError(w, r, http.StatusNotFound, "service_not_found", "Service not found")
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get service")
		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to get service")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toServiceResponse(svc))
}

// Update handles service updates
// @Summary Update service
// @Description Update a catalog service
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Param request body api.ServiceRequest true "Service request"
// @Success 200 {object} api.ServiceResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /services/{id} [put]
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.serviceID(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", "Invalid service id")
		return
	}

	input, err := h.decodeServiceInput(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	svc, err := h.catalogService.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			h.renderError(w, r, http.StatusNotFound, "service_not_found", "Service not found")
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to update service")
		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to update service")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toServiceResponse(svc))
}

// Delete handles service deletion
// @Summary Delete service
// @Description Remove a service from the catalog
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 200 {object} api.SuccessResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /services/{id} [delete]
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.serviceID(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", "Invalid service id")
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			h.renderError(w, r, http.StatusNotFound, "service_not_found", "Service not found")
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to delete service")
		h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to delete service")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &api.SuccessResponse{Message: "Service deleted successfully", Success: true})
}

// Subscribe handles subscription checkout
// @Summary Subscribe to a service
// @Description Quote the tax-inclusive total and open a hosted-checkout order
// @Tags payment
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service ID"
// @Success 201 {object} api.CheckoutResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 422 {object} api.ErrorResponse
// @Failure 502 {object} api.ErrorResponse
// @Router /services/{id}/subscribe [post]
func (h *CatalogHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := h.serviceID(r)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "validation_error", "Invalid service id")
		return
	}

	userID := UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		h.renderError(w, r, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	order, err := h.paymentService.CreateOrder(r.Context(), userID, id)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"service_id": id,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Checkout order creation failed")

		switch {
		case errors.Is(err, service.ErrServiceNotFound):
			h.renderError(w, r, http.StatusNotFound, "service_not_found", "Service not found")
		case errors.Is(err, service.ErrServiceInactive):
			h.renderError(w, r, http.StatusUnprocessableEntity, "service_inactive", "Service is not available for subscription")
		case errors.Is(err, service.ErrGatewayUnavailable):
			h.renderError(w, r, http.StatusBadGateway, "gateway_unavailable", "Payment gateway is unavailable")
		default:
			h.renderError(w, r, http.StatusInternalServerError, "internal_error", "Failed to create checkout order")
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, &api.CheckoutResponse{
		OrderID:       order.OrderID,
		RazorpayKeyID: order.KeyID,
		Amount:        order.Amount.StringFixed(2),
		AmountMinor:   order.AmountMinor,
		Currency:      order.Currency,
	})
}

// Helper methods

func (h *CatalogHandler) serviceID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (h *CatalogHandler) decodeServiceInput(r *http.Request) (*service.ServiceInput, error) {
	var req api.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if err := h.validator.Struct(&req); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	taxRate, err := decimal.NewFromString(req.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid tax rate: %w", err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must not be negative")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return &service.ServiceInput{
		Name:         req.Name,
		PaymentTerms: req.PaymentTerms,
		Price:        price,
		Package:      req.Package,
		TaxRate:      taxRate,
		ImageURL:     req.ImageURL,
		Active:       active,
	}, nil
}

func (h *CatalogHandler) renderError(w http.ResponseWriter, r *http.Request, status int, errorType, message string) {
	render.Status(r, status)
	render.JSON(w, r, &api.ErrorResponse{
		Error:   errorType,
		Message: message,
		Success: false,
	})
}

func (h *CatalogHandler) renderServiceList(w http.ResponseWriter, r *http.Request, services []domain.Service) {
	resp := &api.ServiceListResponse{
		Services: make([]api.ServiceResponse, 0, len(services)),
		Count:    len(services),
	}
	for i := range services {
		resp.Services = append(resp.Services, *toServiceResponse(&services[i]))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func toServiceResponse(svc *domain.Service) *api.ServiceResponse {
	return &api.ServiceResponse{
		ID:           svc.ID,
		Name:         svc.Name,
		PaymentTerms: svc.PaymentTerms,
		Price:        svc.Price.StringFixed(2),
		Package:      svc.Package,
		TaxRate:      svc.TaxRate.StringFixed(2),
		ImageURL:     svc.ImageURL,
		Active:       svc.Active,
		CreatedAt:    svc.CreatedAt,
		UpdatedAt:    svc.UpdatedAt,
	}
}
