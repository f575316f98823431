package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"truefit-backend-go/internal/models"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) ReviewRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ReviewRepository.")
	}
	return &firestoreReviewRepository{client: client}
}

func (r *firestoreReviewRepository) Create(ctx context.Context, review *models.Review) (string, error) {
	docRef := r.client.Collection(reviewsCollection).NewDoc()
	review.ID = docRef.ID
	if _, err := docRef.Create(ctx, review); err != nil {
		return "", fmt.Errorf("failed to create review: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreReviewRepository) List(ctx context.Context) ([]*models.Review, error) {
	iter := r.client.Collection(reviewsCollection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	reviews, err := decodeAll(iter, func(rv *models.Review, id string) { rv.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
