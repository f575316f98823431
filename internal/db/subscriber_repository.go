package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"truefit-backend-go/internal/models"
)

type firestoreSubscriberRepository struct {
	client *firestore.Client
}

func NewFirestoreSubscriberRepository(client *firestore.Client) SubscriberRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for SubscriberRepository.")
	}
	return &firestoreSubscriberRepository{client: client}
}

func (r *firestoreSubscriberRepository) Create(ctx context.Context, sub *models.Subscriber) (string, error) {
	docRef := r.client.Collection(subscribersCollection).NewDoc()
	sub.ID = docRef.ID
	if _, err := docRef.Create(ctx, sub); err != nil {
		return "", fmt.Errorf("failed to create subscriber: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreSubscriberRepository) List(ctx context.Context) ([]*models.Subscriber, error) {
	iter := r.client.Collection(subscribersCollection).OrderBy("subscribedAt", firestore.Desc).Documents(ctx)
	subs, err := decodeAll(iter, func(s *models.Subscriber, id string) { s.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}

func (r *firestoreSubscriberRepository) Count(ctx context.Context) (int64, error) {
	n, err := countQuery(ctx, r.client.Collection(subscribersCollection).Query)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return n, nil
}
