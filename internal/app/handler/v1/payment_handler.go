package v1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/imzamam0651/IT-Services/internal/app/model/api"
	"github.com/imzamam0651/IT-Services/internal/service"
)

// PaymentHandler handles the gateway's server-to-server callback.
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logrus.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// RegisterRoutes registers payment routes. The callback is mounted for
// every method and without auth: the caller is the payment provider, not
// a browser, so there is no session and no origin check. The HMAC
// signature is the sole trust boundary.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/payment/callback", h.Callback)
}

// Callback handles the payment gateway callback
// @Summary Payment callback
// @Description Verify a hosted-checkout payment signature and settle the order
// @Tags payment
// @Accept x-www-form-urlencoded
// @Produce json
// @Param razorpay_payment_id formData string true "Payment ID"
// @Param razorpay_order_id formData string true "Order ID"
// @Param razorpay_signature formData string true "Signature"
// @Success 200 {object} api.CallbackResponse
// @Router /payment/callback [post]
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, &api.CallbackResponse{Status: service.CallbackStatusInvalidRequest})
		return
	}

	if err := r.ParseForm(); err != nil {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, &api.CallbackResponse{
			Status:  service.CallbackStatusError,
			Message: "malformed form body",
		})
		return
	}

	req := &service.CallbackRequest{
		PaymentID: r.PostFormValue("razorpay_payment_id"),
		OrderID:   r.PostFormValue("razorpay_order_id"),
		Signature: r.PostFormValue("razorpay_signature"),
	}

	result := h.paymentService.HandleCallback(r.Context(), req)

	h.logger.WithFields(logrus.Fields{
		"order_id": req.OrderID,
		"status":   result.Status,
	}).Info("Payment callback answered")

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &api.CallbackResponse{
		Status:  result.Status,
		Message: result.Message,
	})
}
