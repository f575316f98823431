package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/models"
)

// ApplicationHandler runs the trainer application workflow endpoints.
type ApplicationHandler struct {
	applications core.ApplicationService
	logger       *zap.Logger
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(as core.ApplicationService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{applications: as, logger: logger}
}

// Apply handles POST /apply.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req models.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	app, err := h.applications.Apply(c.Request.Context(), middleware.UserEmail(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "Application submitted successfully.", Data: app})
}

// ListPending handles GET /applications (admin).
func (h *ApplicationHandler) ListPending(c *gin.Context) {
	apps, err := h.applications.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// GetApplication handles GET /application/:email. Clients use it to check whether the
// user has applied, so no application is a 200 with a null body.
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	app, err := h.applications.GetByEmail(c.Request.Context(), c.Param("email"))
	if errors.Is(err, core.ErrApplicationNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Approve handles PATCH /confirm/:email (admin).
func (h *ApplicationHandler) Approve(c *gin.Context) {
	user, err := h.applications.Approve(c.Request.Context(), middleware.UserEmail(c), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Application approved and user updated successfully.", Data: user})
}

// Reject handles PATCH /reject/:email (admin).
func (h *ApplicationHandler) Reject(c *gin.Context) {
	var req models.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.applications.Reject(c.Request.Context(), middleware.UserEmail(c), c.Param("email"), req.AdminFeedback)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Application rejected successfully.", Data: user})
}
