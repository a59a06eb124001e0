package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/models"
)

// BillingHandler handles payment endpoints.
type BillingHandler struct {
	payments core.PaymentService
	logger   *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(payments core.PaymentService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{payments: payments, logger: logger}
}

// CreatePaymentIntent handles POST /create-payment-intent.
func (h *BillingHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}
	secret, err := h.payments.CreatePaymentIntent(c.Request.Context(), req.Price)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ClientSecretResponse{ClientSecret: secret})
}
