package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/models"
)

// UserHandler handles user and trainer directory endpoints.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

// UpsertUser handles POST /users, called by the client after every login.
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req models.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, created, err := h.userService.Upsert(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if created {
		c.JSON(http.StatusCreated, UserUpsertResponse{Message: "User created successfully", User: user})
		return
	}
	c.JSON(http.StatusOK, UserUpsertResponse{Message: "User already exists", User: user})
}

// TouchLogin handles PATCH /users/:email.
func (h *UserHandler) TouchLogin(c *gin.Context) {
	user, err := h.userService.TouchLogin(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /users/:email.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /user/:email.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.UserEmail(c), c.Param("email"), req.Patch())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Profile updated successfully", Data: user})
}

// GetRole handles GET /users/role/:email.
func (h *UserHandler) GetRole(c *gin.Context) {
	role, err := h.userService.GetRole(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, RoleResponse{Role: string(role)})
}

func (h *UserHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.userService.ListTrainers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

func (h *UserHandler) GetTrainer(c *gin.Context) {
	trainer, err := h.userService.GetTrainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

func (h *UserHandler) TopTrainers(c *gin.Context) {
	trainers, err := h.userService.TopTrainers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

// DemoteTrainer handles PATCH /trainers/:id (admin).
func (h *UserHandler) DemoteTrainer(c *gin.Context) {
	user, err := h.userService.DemoteTrainer(c.Request.Context(), middleware.UserEmail(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Trainer demoted to member", Data: user})
}
