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

type firestoreSlotRepository struct {
	client *firestore.Client
}

// NewFirestoreSlotRepository creates a new instance of firestoreSlotRepository.
// Slots are created inside transactions, see firestoreTx.CreateSlot.
func NewFirestoreSlotRepository(client *firestore.Client) SlotRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for SlotRepository.")
	}
	return &firestoreSlotRepository{client: client}
}

func (r *firestoreSlotRepository) GetByID(ctx context.Context, slotID string) (*models.Slot, error) {
	if slotID == "" {
		return nil, fmt.Errorf("slot '': %w", ErrNotFound)
	}
	docSnap, err := r.client.Collection(slotsCollection).Doc(slotID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("slot '%s' not found: %w", slotID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get slot '%s': %w", slotID, err)
	}
	var slot models.Slot
	if err := docSnap.DataTo(&slot); err != nil {
		return nil, fmt.Errorf("failed to decode slot '%s': %w", slotID, err)
	}
	slot.ID = docSnap.Ref.ID
	return &slot, nil
}

func (r *firestoreSlotRepository) ListByTrainer(ctx context.Context, trainerID string) ([]*models.Slot, error) {
	iter := r.client.Collection(slotsCollection).Where("trainerId", "==", trainerID).Documents(ctx)
	slots, err := decodeAll(iter, func(s *models.Slot, id string) { s.ID = id })
	if err != nil {
		return nil, fmt.Errorf("failed to list slots of trainer '%s': %w", trainerID, err)
	}
	return slots, nil
}

// Delete removes a slot. The Exists precondition turns a missing slot into ErrNotFound.
func (r *firestoreSlotRepository) Delete(ctx context.Context, slotID string) error {
	_, err := r.client.Collection(slotsCollection).Doc(slotID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("slot '%s' not found for deletion: %w", slotID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete slot '%s': %w", slotID, err)
	}
	return nil
}
