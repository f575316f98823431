package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/models"
)

// ClassHandler serves the class catalogue.
type ClassHandler struct {
	classes core.ClassService
	logger  *zap.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(cs core.ClassService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{classes: cs, logger: logger}
}

// CreateClass handles POST /classes (admin).
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	class, err := h.classes.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

// ListClasses handles GET /classes?page=&limit=&search=.
// Missing or malformed paging parameters fall back to the defaults.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	page := queryInt(c, "page")
	limit := queryInt(c, "limit")

	result, err := h.classes.List(c.Request.Context(), page, limit, c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ClassHandler) TopClasses(c *gin.Context) {
	classes, err := h.classes.Top(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *ClassHandler) AllClasses(c *gin.Context) {
	classes, err := h.classes.All(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// queryInt returns the integer query parameter, or 0 when absent or malformed.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
