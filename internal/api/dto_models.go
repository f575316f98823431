package api

import (
	"time"

	"truefit-backend-go/internal/models"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`             // Human readable message
	Code    string `json:"code"`              // Stable machine readable code
	Details string `json:"details,omitempty"` // Extra context for 4xx replies
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UserUpsertResponse answers POST /users.
type UserUpsertResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// TokenRequest is the body of POST /jwt.
type TokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RoleResponse answers GET /users/role/:email.
type RoleResponse struct {
	Role string `json:"role"`
}

// ClientSecretResponse answers POST /api/create-payment-intent.
type ClientSecretResponse struct {
	ClientSecret string `json:"clientSecret"`
}
