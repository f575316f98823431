package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
)

type slotService struct {
	slots db.SlotRepository
	tx    db.Transactor
	now   func() time.Time
}

// NewSlotService creates a new SlotService instance.
func NewSlotService(slots db.SlotRepository, tx db.Transactor) SlotService {
	return &slotService{slots: slots, tx: tx, now: func() time.Time { return time.Now().UTC() }}
}

// AddSlot creates a slot for the calling trainer and adds the trainer to every linked class.
// The trainer ID defaults to the caller and may not name anyone else.
func (s *slotService) AddSlot(ctx context.Context, actorEmail string, req models.AddSlotRequest) (*models.Slot, error) {
	actor := models.NormalizeEmail(actorEmail)
	trainerID := models.NormalizeEmail(req.TrainerID)
	if trainerID == "" {
		trainerID = actor
	}
	if trainerID != actor {
		return nil, fmt.Errorf("%w: slots can only be added for yourself", ErrForbidden)
	}
	if strings.TrimSpace(req.SlotName) == "" {
		return nil, fmt.Errorf("%w: slotName is required", ErrInvalidInput)
	}

	slot := &models.Slot{
		TrainerID:       trainerID,
		TrainerName:     req.TrainerName,
		SlotName:        req.SlotName,
		SlotTime:        req.SlotTime,
		Days:            append([]string(nil), req.Days...),
		SelectedClasses: append([]models.SelectedClass(nil), req.SelectedClasses...),
	}
	classIDs := slot.ClassIDs()
	if len(classIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one class must be selected", ErrInvalidInput)
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx db.Tx) error {
		trainer, err := tx.GetUser(trainerID)
		if err != nil {
			return mapTxErr(err, ErrTrainerNotFound, trainerID)
		}
		if _, err := tx.GetClasses(classIDs); err != nil {
			return mapTxErr(err, ErrClassNotFound, strings.Join(classIDs, ","))
		}

		if slot.TrainerName == "" {
			slot.TrainerName = displayName(trainer)
		}
		slot.CreatedAt = s.now()
		if _, err := tx.CreateSlot(slot); err != nil {
			return err
		}
		return tx.AddTrainerToClasses(trainerID, classIDs)
	})
	if err != nil {
		return nil, wrapWorkflowErr("add slot", trainerID, err)
	}
	return slot, nil
}

func (s *slotService) ListByTrainer(ctx context.Context, trainerID string) ([]*models.Slot, error) {
	slots, err := s.slots.ListByTrainer(ctx, models.NormalizeEmail(trainerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

func (s *slotService) Get(ctx context.Context, slotID string) (*models.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
		}
		return nil, fmt.Errorf("failed to get slot '%s': %w", slotID, err)
	}
	return slot, nil
}

// Delete removes a slot owned by the caller.
func (s *slotService) Delete(ctx context.Context, actorEmail, slotID string) error {
	slot, err := s.Get(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.TrainerID != models.NormalizeEmail(actorEmail) {
		return fmt.Errorf("%w: slot belongs to another trainer", ErrForbidden)
	}
	if err := s.slots.Delete(ctx, slotID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
		}
		return fmt.Errorf("failed to delete slot '%s': %w", slotID, err)
	}
	return nil
}

func displayName(u *models.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
