package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/models"
)

// SlotHandler manages trainer slots.
type SlotHandler struct {
	slots  core.SlotService
	logger *zap.Logger
}

// NewSlotHandler creates a new SlotHandler.
func NewSlotHandler(ss core.SlotService, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{slots: ss, logger: logger}
}

// AddSlot handles POST /add-slot (trainer).
func (h *SlotHandler) AddSlot(c *gin.Context) {
	var req models.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	slot, err := h.slots.AddSlot(c.Request.Context(), middleware.UserEmail(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// ListByTrainer handles GET /slots/:id, where id is the trainer ID.
func (h *SlotHandler) ListByTrainer(c *gin.Context) {
	slots, err := h.slots.ListByTrainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetSlot handles GET /slot/:slotId.
func (h *SlotHandler) GetSlot(c *gin.Context) {
	slot, err := h.slots.Get(c.Request.Context(), c.Param("slotId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteSlot handles DELETE /slots/:id, where id is the slot ID.
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	if err := h.slots.Delete(c.Request.Context(), middleware.UserEmail(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Slot deleted successfully"})
}
