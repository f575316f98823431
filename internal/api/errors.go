package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{core.ErrInvalidInput, http.StatusBadRequest, "invalid_input", "Invalid request"},
	{core.ErrForbidden, http.StatusForbidden, "forbidden", "Forbidden Access"},
	{core.ErrUserNotFound, http.StatusNotFound, "user_not_found", "User not found"},
	{core.ErrApplicationNotFound, http.StatusNotFound, "application_not_found", "Application not found"},
	{core.ErrClassNotFound, http.StatusNotFound, "class_not_found", "Class not found"},
	{core.ErrSlotNotFound, http.StatusNotFound, "slot_not_found", "Slot not found"},
	{core.ErrTrainerNotFound, http.StatusNotFound, "trainer_not_found", "Trainer not found"},
	{core.ErrPostNotFound, http.StatusNotFound, "post_not_found", "Forum post not found"},
	{core.ErrBookingNotFound, http.StatusNotFound, "booking_not_found", "Booking not found"},
	{core.ErrApplicationPending, http.StatusConflict, "application_pending", "Application already pending"},
	{core.ErrPaymentDuplicate, http.StatusConflict, "payment_duplicate", "Payment already recorded"},
	{core.ErrPaymentNotConfirmed, http.StatusPaymentRequired, "payment_not_confirmed", "Payment has not succeeded"},
	{core.ErrPaymentProvider, http.StatusServiceUnavailable, "payment_unavailable", "Payment provider unavailable"},
	{core.ErrPaymentNotConfigured, http.StatusServiceUnavailable, "payment_not_configured", "Payments are not configured"},
}

// respondError writes the reply for a service error. 4xx replies carry the error text as
// details; anything unmapped is logged and answered with a bare 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			resp := ErrorResponse{Error: m.message, Code: m.code}
			if m.status < http.StatusInternalServerError {
				resp.Details = err.Error()
			} else {
				logger.Warn("Upstream failure", zap.String("path", c.FullPath()), zap.Error(err))
			}
			c.JSON(m.status, resp)
			return
		}
	}

	logger.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Code: "internal"})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Code: "invalid_input", Details: err.Error()})
}
