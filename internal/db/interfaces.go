package db

import (
	"context"
	"errors"

	"truefit-backend-go/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned when a create hits an existing document ID.
	ErrAlreadyExists = errors.New("document already exists")
)

// UserRepository defines the interface for user data storage operations.
// Users are keyed by normalized email.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, email string, patch models.UserPatch) error
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	// ListTopTrainers returns trainers ordered by remaining slots, fewest first.
	ListTopTrainers(ctx context.Context, limit int) ([]*models.User, error)
	// CountPaidMembers counts users holding a non-empty subscription.
	CountPaidMembers(ctx context.Context) (int64, error)
}

// ApplicationRepository defines read access to trainer applications.
// Writes happen through Tx so they stay consistent with the applicant's User.
type ApplicationRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Application, error)
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]*models.Application, error)
}

// ClassRepository defines the interface for class data storage operations.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) (string, error) // Returns new class ID
	// GetByIDs returns the classes that exist among ids. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Class, error)
	// List returns one page of classes matching q and the total number of matches.
	List(ctx context.Context, q models.ClassQuery) ([]*models.Class, int64, error)
	Top(ctx context.Context, limit int) ([]*models.Class, error)
	All(ctx context.Context) ([]*models.Class, error)
}

// SlotRepository defines the interface for slot data storage operations.
type SlotRepository interface {
	GetByID(ctx context.Context, slotID string) (*models.Slot, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*models.Slot, error)
	Delete(ctx context.Context, slotID string) error
}

// ForumRepository defines the interface for forum post storage operations.
type ForumRepository interface {
	Create(ctx context.Context, post *models.ForumPost) (string, error)
	// List returns posts newest first, skipping offset, and the total number of posts.
	List(ctx context.Context, offset, limit int) ([]*models.ForumPost, int64, error)
	ListByAuthorType(ctx context.Context, authorType models.Role) ([]*models.ForumPost, error)
	// Vote atomically increments the counter selected by kind.
	Vote(ctx context.Context, postID string, kind models.VoteKind) error
}

// PaymentRepository defines read access to recorded payments.
// Payments are written through Tx together with the booking counters.
type PaymentRepository interface {
	LatestByEmail(ctx context.Context, email string) (*models.Payment, error)
	Latest(ctx context.Context, limit int) ([]*models.Payment, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// ReviewRepository defines the interface for review storage operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) (string, error)
	List(ctx context.Context) ([]*models.Review, error)
}

// SubscriberRepository defines the interface for newsletter subscriber storage operations.
type SubscriberRepository interface {
	Create(ctx context.Context, sub *models.Subscriber) (string, error)
	List(ctx context.Context) ([]*models.Subscriber, error)
	Count(ctx context.Context) (int64, error)
}

// AuditRepository defines the interface for audit log data storage operations.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}

// Transactor runs fn atomically. If fn returns an error nothing it wrote is persisted.
// fn may be invoked more than once on contention, so it must not have side effects
// outside the transaction.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of operations available inside a transaction.
// All reads must happen before the first write.
type Tx interface {
	GetUser(email string) (*models.User, error)
	GetApplication(email string) (*models.Application, error)
	GetSlot(slotID string) (*models.Slot, error)
	// GetClasses returns the classes in ids order, or ErrNotFound naming the first missing ID.
	GetClasses(ids []string) ([]*models.Class, error)

	CreateApplication(app *models.Application) error
	UpdateUser(email string, patch models.UserPatch) error
	IncrementUserSlots(email string, delta int) error
	DeleteApplication(email string) error
	CreateSlot(slot *models.Slot) (string, error)
	AddTrainerToClasses(trainerID string, classIDs []string) error
	IncrementClassBookings(classIDs []string, delta int) error
	// CreatePayment fails with ErrAlreadyExists when the payment ID was recorded before.
	CreatePayment(payment *models.Payment) error
}

// Repositories bundles every repository of one backing store.
type Repositories struct {
	Users        UserRepository
	Applications ApplicationRepository
	Classes      ClassRepository
	Slots        SlotRepository
	Forum        ForumRepository
	Payments     PaymentRepository
	Reviews      ReviewRepository
	Subscribers  SubscriberRepository
	Audit        AuditRepository
	Transactor   Transactor
}
