package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
)

const latestTransactionsLimit = 6

// billingService implements the BillingService interface.
type billingService struct {
	payments  db.PaymentRepository
	slots     db.SlotRepository
	users     db.UserRepository
	classes   db.ClassRepository
	tx        db.Transactor
	processor PaymentProcessor
	roles     RoleResolver
	after     afterCommit
	logger    *zap.Logger
	now       func() time.Time
}

// BillingDeps groups the collaborators of the billing service.
// Processor may be nil, in which case intents cannot be created and saved payments are not
// verified against the provider.
type BillingDeps struct {
	Payments  db.PaymentRepository
	Slots     db.SlotRepository
	Users     db.UserRepository
	Classes   db.ClassRepository
	Tx        db.Transactor
	Processor PaymentProcessor
	Roles     RoleResolver
	Audit     AuditService
	Events    EventPublisher
	Logger    *zap.Logger
}

// NewBillingService creates a new BillingService instance.
func NewBillingService(deps BillingDeps) BillingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &billingService{
		payments:  deps.Payments,
		slots:     deps.Slots,
		users:     deps.Users,
		classes:   deps.Classes,
		tx:        deps.Tx,
		processor: deps.Processor,
		roles:     deps.Roles,
		after:     newAfterCommit(deps.Audit, deps.Events, deps.Roles, logger),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *billingService) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	if s.processor == nil {
		return "", ErrPaymentNotConfigured
	}
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	secret, err := s.processor.CreatePaymentIntent(ctx, amount)
	if err != nil {
		s.logger.Error("Failed to create payment intent", zap.Int64("amount", amount), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrPaymentProvider, err)
	}
	return secret, nil
}

// SavePayment records a booking. In one transaction it stores the payment, bumps the bookings
// of every referenced class and takes one slot from the trainer, then sets the member's
// subscription. Replaying the same payment ID fails with ErrPaymentDuplicate.
func (s *billingService) SavePayment(ctx context.Context, req models.SavePaymentRequest) (*models.Payment, error) {
	paymentID := strings.TrimSpace(req.PaymentID)
	if paymentID == "" || strings.Contains(paymentID, "/") {
		return nil, fmt.Errorf("%w: invalid paymentId", ErrInvalidInput)
	}
	memberEmail := models.NormalizeEmail(req.UserEmail)
	trainerID := models.NormalizeEmail(req.TrainerID)
	if memberEmail == "" || trainerID == "" || req.SlotID == "" || req.PackageName == "" {
		return nil, fmt.Errorf("%w: slotId, trainerId, packageName and userEmail are required", ErrInvalidInput)
	}
	classIDs := dedupe(req.ClassesID)
	if len(classIDs) == 0 {
		return nil, fmt.Errorf("%w: classesId must not be empty", ErrInvalidInput)
	}

	if s.processor != nil {
		ok, err := s.processor.PaymentSucceeded(ctx, paymentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPaymentProvider, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPaymentNotConfirmed, paymentID)
		}
	}

	payment := &models.Payment{
		PaymentID:   paymentID,
		TrainerName: req.TrainerName,
		SlotName:    req.SlotName,
		SlotID:      req.SlotID,
		TrainerID:   trainerID,
		PackageName: req.PackageName,
		Price:       req.Price,
		ClassesID:   classIDs,
		UserName:    req.UserName,
		UserEmail:   memberEmail,
	}
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.GetSlot(req.SlotID); err != nil {
			return mapTxErr(err, ErrSlotNotFound, req.SlotID)
		}
		if _, err := tx.GetUser(trainerID); err != nil {
			return mapTxErr(err, ErrTrainerNotFound, trainerID)
		}
		if _, err := tx.GetUser(memberEmail); err != nil {
			return mapTxErr(err, ErrUserNotFound, memberEmail)
		}
		if _, err := tx.GetClasses(classIDs); err != nil {
			return mapTxErr(err, ErrClassNotFound, strings.Join(classIDs, ","))
		}

		payment.Date = s.now()
		if err := tx.CreatePayment(payment); err != nil {
			return err
		}
		if err := tx.IncrementClassBookings(classIDs, 1); err != nil {
			return err
		}
		if err := tx.IncrementUserSlots(trainerID, -1); err != nil {
			return err
		}
		pkg := req.PackageName
		return tx.UpdateUser(memberEmail, models.UserPatch{Subscription: &pkg})
	})
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentDuplicate, paymentID)
		}
		return nil, wrapWorkflowErr("save payment", paymentID, err)
	}

	s.after.record(ctx, models.AuditLog{
		Actor:      memberEmail,
		Action:     models.AuditPaymentRecord,
		TargetType: "payment",
		TargetID:   paymentID,
		Details: map[string]interface{}{
			"slotId":      req.SlotID,
			"trainerId":   trainerID,
			"packageName": req.PackageName,
			"price":       req.Price,
		},
	})
	s.after.publish(ctx, models.Event{
		Type:  models.EventBookingRecorded,
		Email: memberEmail,
		Name:  req.UserName,
		Data: map[string]string{
			"paymentId":   paymentID,
			"packageName": req.PackageName,
			"slotName":    req.SlotName,
			"trainerName": req.TrainerName,
		},
	})
	return payment, nil
}

// GetBooking joins the member's latest payment with its slot, trainer and classes.
// A slot or trainer deleted since the booking is returned as nil.
func (s *billingService) GetBooking(ctx context.Context, actorEmail, email string) (*models.Booking, error) {
	email = models.NormalizeEmail(email)
	if err := requireSelfOrAdmin(ctx, s.roles, actorEmail, email); err != nil {
		return nil, err
	}

	payment, err := s.payments.LatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, email)
		}
		return nil, fmt.Errorf("failed to get booking for '%s': %w", email, err)
	}
	booking := &models.Booking{Payment: payment, Classes: []*models.Class{}}

	slot, err := s.slots.GetByID(ctx, payment.SlotID)
	switch {
	case err == nil:
		booking.Slot = slot
	case !errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("failed to get slot '%s': %w", payment.SlotID, err)
	}

	trainer, err := s.users.GetByEmail(ctx, payment.TrainerID)
	switch {
	case err == nil:
		booking.Trainer = trainer
	case !errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("failed to get trainer '%s': %w", payment.TrainerID, err)
	}

	classes, err := s.classes.GetByIDs(ctx, payment.ClassesID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked classes: %w", err)
	}
	if classes != nil {
		booking.Classes = classes
	}
	return booking, nil
}

func (s *billingService) FinancialOverview(ctx context.Context) (*models.FinancialOverview, error) {
	latest, err := s.payments.Latest(ctx, latestTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest payments: %w", err)
	}
	total, err := s.payments.TotalRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}
	return &models.FinancialOverview{LatestTransactions: latest, TotalBalance: total}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
