package auth

import (
	"context"
	"fmt"

	firebaseauth "firebase.google.com/go/v4/auth"

	"truefit-backend-go/internal/models"
)

// idTokenVerifier is the part of *firebaseauth.Client used here.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens issued to the web client.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client *firebaseauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := tok.Claims["email"].(string)
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	return &Identity{Email: email, Subject: tok.UID}, nil
}
