package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/auth"
	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/models"
)

// Context keys set by VerifyToken.
const (
	ContextUserEmail   = "userEmail"
	ContextUserSubject = "userID"
)

// ErrorResponse mirrors api.ErrorResponse; it is redeclared here to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware verifies bearer tokens and gates routes by role.
type AuthMiddleware struct {
	verifier auth.Verifier
	roles    core.RoleResolver
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier auth.Verifier, roles core.RoleResolver, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a token verifier")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, roles: roles, logger: logger}
}

// VerifyToken rejects requests without a valid bearer token and stores the caller's
// email in the context under ContextUserEmail.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.ParseBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized Access", Code: "unauthorized"})
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			m.logger.Debug("Token verification failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized Access", Code: "unauthorized"})
			return
		}

		c.Set(ContextUserEmail, models.NormalizeEmail(identity.Email))
		c.Set(ContextUserSubject, identity.Subject)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of allowed.
// It must run after VerifyToken.
func (m *AuthMiddleware) RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := UserEmail(c)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized Access", Code: "unauthorized"})
			return
		}
		if m.roles == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden Access", Code: "forbidden"})
			return
		}

		role, err := m.roles.Role(c.Request.Context(), email)
		if err != nil {
			// An unknown user holds no role.
			if errors.Is(err, core.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden Access", Code: "forbidden"})
				return
			}
			m.logger.Error("Role lookup failed", zap.String("email", email), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Code: "internal"})
			return
		}
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden Access", Code: "forbidden"})
	}
}

// UserEmail returns the verified caller email, or "" on unauthenticated routes.
func UserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}

