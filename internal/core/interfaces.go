package core

import (
	"context"

	"truefit-backend-go/internal/models"
)

// UserService covers accounts, profiles and the trainer directory.
type UserService interface {
	// Upsert creates the user on first login. created is false when the email was already known.
	Upsert(ctx context.Context, req models.UpsertUserRequest) (user *models.User, created bool, err error)
	TouchLogin(ctx context.Context, email string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, actorEmail, email string, patch models.UserPatch) (*models.User, error)
	GetRole(ctx context.Context, email string) (models.Role, error)

	ListTrainers(ctx context.Context) ([]*models.User, error)
	GetTrainer(ctx context.Context, id string) (*models.User, error)
	TopTrainers(ctx context.Context) ([]*models.User, error)
	DemoteTrainer(ctx context.Context, actorEmail, id string) (*models.User, error)
}

// ApplicationService runs the trainer application workflow.
type ApplicationService interface {
	Apply(ctx context.Context, actorEmail string, req models.ApplyRequest) (*models.Application, error)
	ListPending(ctx context.Context) ([]*models.Application, error)
	GetByEmail(ctx context.Context, email string) (*models.Application, error)
	Approve(ctx context.Context, actorEmail, email string) (*models.User, error)
	Reject(ctx context.Context, actorEmail, email, feedback string) (*models.User, error)
}

// ClassService manages the class catalogue.
type ClassService interface {
	Create(ctx context.Context, req models.CreateClassRequest) (*models.Class, error)
	List(ctx context.Context, page, limit int, search string) (*models.ClassPage, error)
	Top(ctx context.Context) ([]*models.Class, error)
	All(ctx context.Context) ([]*models.Class, error)
}

// SlotService manages trainer slots.
type SlotService interface {
	AddSlot(ctx context.Context, actorEmail string, req models.AddSlotRequest) (*models.Slot, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*models.Slot, error)
	Get(ctx context.Context, slotID string) (*models.Slot, error)
	Delete(ctx context.Context, actorEmail, slotID string) error
}

// ForumService manages community posts.
type ForumService interface {
	Create(ctx context.Context, actorEmail string, req models.CreatePostRequest) (*models.ForumPost, error)
	List(ctx context.Context, page int) (*models.ForumPage, error)
	TrainerPosts(ctx context.Context) ([]*models.ForumPost, error)
	Vote(ctx context.Context, postID string, kind models.VoteKind) error
}

// BillingService handles payments and bookings.
type BillingService interface {
	CreatePaymentIntent(ctx context.Context, amount int64) (string, error)
	SavePayment(ctx context.Context, req models.SavePaymentRequest) (*models.Payment, error)
	GetBooking(ctx context.Context, actorEmail, email string) (*models.Booking, error)
	FinancialOverview(ctx context.Context) (*models.FinancialOverview, error)
}

// ReviewService manages trainer reviews.
type ReviewService interface {
	Create(ctx context.Context, actorEmail string, req models.CreateReviewRequest) (*models.Review, error)
	List(ctx context.Context) ([]*models.Review, error)
}

// SubscriberService manages newsletter sign-ups.
type SubscriberService interface {
	Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscriber, error)
	List(ctx context.Context) ([]*models.Subscriber, error)
	MembershipStats(ctx context.Context) (*models.MembershipStats, error)
}

// AuditService defines the interface for audit logging operations.
type AuditService interface {
	CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error
}

// RoleResolver maps a verified email to the user's current role.
type RoleResolver interface {
	Role(ctx context.Context, email string) (models.Role, error)
	// Invalidate drops any cached role so the next lookup reads the store.
	Invalidate(ctx context.Context, email string)
}

// PaymentProcessor is the external payment provider.
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, amount int64) (clientSecret string, err error)
	PaymentSucceeded(ctx context.Context, paymentID string) (bool, error)
}

// EventPublisher delivers notifications after a change has been committed.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// NopPublisher discards events. It is used when no queue is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Event) error { return nil }
