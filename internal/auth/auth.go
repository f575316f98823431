// Package auth issues and verifies bearer tokens.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingEmail is returned when a token carries no email claim.
	ErrMissingEmail = errors.New("token has no email claim")
)

// Identity is the verified caller.
type Identity struct {
	Email   string
	Subject string
}

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// ParseBearerToken extracts the token from an Authorization header value.
func ParseBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header empty")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}
