package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"truefit-backend-go/internal/models"
)

type firestoreTransactor struct {
	client *firestore.Client
}

// NewFirestoreTransactor runs workflows inside Firestore transactions.
func NewFirestoreTransactor(client *firestore.Client) Transactor {
	if client == nil {
		log.Fatal("Firestore client is not initialized for Transactor.")
	}
	return &firestoreTransactor{client: client}
}

// RunInTransaction retries on contention through the client library.
// Create preconditions are checked at commit, so AlreadyExists is mapped here.
func (t *firestoreTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	err := t.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{client: t.client, tx: ftx, now: time.Now().UTC()})
	})
	if err != nil && status.Code(err) == codes.AlreadyExists {
		return fmt.Errorf("transaction commit: %w", ErrAlreadyExists)
	}
	return err
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
	now    time.Time
}

func (t *firestoreTx) get(collection, id string, dst interface{}) error {
	snap, err := t.tx.Get(t.client.Collection(collection).Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("failed to read %s/%s: %w", collection, id, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return nil
}

func (t *firestoreTx) GetUser(email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%s/: %w", usersCollection, ErrNotFound)
	}
	var u models.User
	if err := t.get(usersCollection, email, &u); err != nil {
		return nil, err
	}
	u.ID = email
	return &u, nil
}

func (t *firestoreTx) GetApplication(email string) (*models.Application, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%s/: %w", applicationsCollection, ErrNotFound)
	}
	var a models.Application
	if err := t.get(applicationsCollection, email, &a); err != nil {
		return nil, err
	}
	a.ID = email
	return &a, nil
}

func (t *firestoreTx) GetSlot(slotID string) (*models.Slot, error) {
	if slotID == "" {
		return nil, fmt.Errorf("%s/: %w", slotsCollection, ErrNotFound)
	}
	var s models.Slot
	if err := t.get(slotsCollection, slotID, &s); err != nil {
		return nil, err
	}
	s.ID = slotID
	return &s, nil
}

func (t *firestoreTx) GetClasses(ids []string) ([]*models.Class, error) {
	if len(ids) == 0 {
		return []*models.Class{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%s/: %w", classesCollection, ErrNotFound)
		}
		refs = append(refs, t.client.Collection(classesCollection).Doc(id))
	}
	snaps, err := t.tx.GetAll(refs)
	if err != nil {
		return nil, fmt.Errorf("failed to read classes: %w", err)
	}
	classes := make([]*models.Class, 0, len(snaps))
	for i, snap := range snaps {
		if !snap.Exists() {
			return nil, fmt.Errorf("%s/%s: %w", classesCollection, ids[i], ErrNotFound)
		}
		var c models.Class
		if err := snap.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", classesCollection, ids[i], err)
		}
		c.ID = ids[i]
		classes = append(classes, &c)
	}
	return classes, nil
}

func (t *firestoreTx) CreateApplication(app *models.Application) error {
	email := models.NormalizeEmail(app.UserEmail)
	app.UserEmail = email
	app.ID = email
	return t.tx.Create(t.client.Collection(applicationsCollection).Doc(email), app)
}

func (t *firestoreTx) UpdateUser(email string, patch models.UserPatch) error {
	ref := t.client.Collection(usersCollection).Doc(models.NormalizeEmail(email))
	return t.tx.Update(ref, userPatchUpdates(patch, t.now))
}

func (t *firestoreTx) IncrementUserSlots(email string, delta int) error {
	ref := t.client.Collection(usersCollection).Doc(models.NormalizeEmail(email))
	return t.tx.Update(ref, []firestore.Update{
		{Path: "slots", Value: firestore.Increment(delta)},
		{Path: "updatedAt", Value: t.now},
	})
}

func (t *firestoreTx) DeleteApplication(email string) error {
	ref := t.client.Collection(applicationsCollection).Doc(models.NormalizeEmail(email))
	return t.tx.Delete(ref, firestore.Exists)
}

func (t *firestoreTx) CreateSlot(slot *models.Slot) (string, error) {
	ref := t.client.Collection(slotsCollection).NewDoc()
	slot.ID = ref.ID
	if err := t.tx.Create(ref, slot); err != nil {
		return "", err
	}
	return ref.ID, nil
}

// AddTrainerToClasses adds trainerID to each class's trainer set.
func (t *firestoreTx) AddTrainerToClasses(trainerID string, classIDs []string) error {
	for _, id := range classIDs {
		ref := t.client.Collection(classesCollection).Doc(id)
		if err := t.tx.Update(ref, []firestore.Update{
			{Path: "trainerId", Value: firestore.ArrayUnion(trainerID)},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (t *firestoreTx) IncrementClassBookings(classIDs []string, delta int) error {
	for _, id := range classIDs {
		ref := t.client.Collection(classesCollection).Doc(id)
		if err := t.tx.Update(ref, []firestore.Update{
			{Path: "bookings", Value: firestore.Increment(delta)},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (t *firestoreTx) CreatePayment(payment *models.Payment) error {
	if payment.PaymentID == "" {
		return fmt.Errorf("payment ID cannot be empty")
	}
	return t.tx.Create(t.client.Collection(paymentsCollection).Doc(payment.PaymentID), payment)
}
