package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"truefit-backend-go/internal/models"
)

type firestoreApplicationRepository struct {
	client *firestore.Client
}

// NewFirestoreApplicationRepository creates a new instance of firestoreApplicationRepository.
func NewFirestoreApplicationRepository(client *firestore.Client) ApplicationRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ApplicationRepository.")
	}
	return &firestoreApplicationRepository{client: client}
}

func (r *firestoreApplicationRepository) GetByEmail(ctx context.Context, email string) (*models.Application, error) {
	email = models.NormalizeEmail(email)
	docSnap, err := r.client.Collection(applicationsCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("application '%s' not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get application '%s': %w", email, err)
	}
	var app models.Application
	if err := docSnap.DataTo(&app); err != nil {
		return nil, fmt.Errorf("failed to decode application '%s': %w", email, err)
	}
	app.ID = docSnap.Ref.ID
	return &app, nil
}

func (r *firestoreApplicationRepository) ListByStatus(ctx context.Context, st models.ApplicationStatus) ([]*models.Application, error) {
	iter := r.client.Collection(applicationsCollection).
		Where("status", "==", string(st)).
		OrderBy("appliedAt", firestore.Asc).
		Documents(ctx)
	apps, err := decodeAll(iter, func(a *models.Application, id string) { a.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list %s applications: %w", st, err)
	}
	return apps, nil
}
