package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"truefit-backend-go/internal/models"
)

type firestorePaymentRepository struct {
	client *firestore.Client
}

// NewFirestorePaymentRepository creates a new instance of firestorePaymentRepository.
// Payments are recorded by firestoreTx.CreatePayment.
func NewFirestorePaymentRepository(client *firestore.Client) PaymentRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PaymentRepository.")
	}
	return &firestorePaymentRepository{client: client}
}

func (r *firestorePaymentRepository) LatestByEmail(ctx context.Context, email string) (*models.Payment, error) {
	email = models.NormalizeEmail(email)
	iter := r.client.Collection(paymentsCollection).
		Where("userEmail", "==", email).
		OrderBy("date", firestore.Desc).
		Limit(1).
		Documents(ctx)
	payments, err := decodeAll[models.Payment](iter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest payment of '%s': %w", email, err)
	}
	if len(payments) == 0 {
		return nil, fmt.Errorf("no payment for '%s': %w", email, ErrNotFound)
	}
	return payments[0], nil
}

func (r *firestorePaymentRepository) Latest(ctx context.Context, limit int) ([]*models.Payment, error) {
	iter := r.client.Collection(paymentsCollection).OrderBy("date", firestore.Desc).Limit(limit).Documents(ctx)
	payments, err := decodeAll[models.Payment](iter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest payments: %w", err)
	}
	return payments, nil
}

// TotalRevenue sums the price of every payment, reading only that field.
func (r *firestorePaymentRepository) TotalRevenue(ctx context.Context) (float64, error) {
	iter := r.client.Collection(paymentsCollection).Select("price").Documents(ctx)
	prices, err := decodeAll[struct {
		Price float64 `firestore:"price"`
	}](iter, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	var total float64
	for _, p := range prices {
		total += p.Price
	}
	return total, nil
}
