package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/models"
)

// BillingHandler handles payment and booking endpoints.
type BillingHandler struct {
	billing core.BillingService
	logger  *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(bs core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billing: bs, logger: logger}
}

// CreatePaymentIntent handles POST /api/create-payment-intent.
func (h *BillingHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	secret, err := h.billing.CreatePaymentIntent(c.Request.Context(), req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ClientSecretResponse{ClientSecret: secret})
}

// SavePaymentInfo handles POST /api/save-payment-info.
func (h *BillingHandler) SavePaymentInfo(c *gin.Context) {
	var req models.SavePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	payment, err := h.billing.SavePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Payment information saved successfully.", Data: payment})
}

// GetBooking handles GET /bookings/:email.
func (h *BillingHandler) GetBooking(c *gin.Context) {
	booking, err := h.billing.GetBooking(c.Request.Context(), middleware.UserEmail(c), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// FinancialOverview handles GET /financial-overview (admin).
func (h *BillingHandler) FinancialOverview(c *gin.Context) {
	overview, err := h.billing.FinancialOverview(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
