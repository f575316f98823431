package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/auth"
)

// AuthHandler issues access tokens.
type AuthHandler struct {
	tokens *auth.JWTManager
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(tokens *auth.JWTManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger}
}

// IssueToken handles POST /jwt.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(req.Email, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrMissingEmail) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Email is required", Code: "invalid_input"})
			return
		}
		h.logger.Error("Failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Code: "internal"})
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}
