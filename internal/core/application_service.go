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

// applicationService implements the ApplicationService interface.
// Every workflow step touching both an Application and its User runs in one transaction.
type applicationService struct {
	apps      db.ApplicationRepository
	tx        db.Transactor
	roles     RoleResolver
	after     afterCommit
	slotQuota int
	now       func() time.Time
}

// NewApplicationService creates a new ApplicationService. slotQuota is copied onto every
// new application and becomes the trainer's slot count on approval.
func NewApplicationService(
	apps db.ApplicationRepository,
	tx db.Transactor,
	roles RoleResolver,
	audit AuditService,
	events EventPublisher,
	slotQuota int,
	logger *zap.Logger,
) ApplicationService {
	return &applicationService{
		apps:      apps,
		tx:        tx,
		roles:     roles,
		after:     newAfterCommit(audit, events, roles, logger),
		slotQuota: slotQuota,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Apply files a pending application for req.UserEmail and marks the user as pending.
// A second application while one is pending fails with ErrApplicationPending.
func (s *applicationService) Apply(ctx context.Context, actorEmail string, req models.ApplyRequest) (*models.Application, error) {
	email := models.NormalizeEmail(req.UserEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: userEmail is required", ErrInvalidInput)
	}
	if err := requireSelfOrAdmin(ctx, s.roles, actorEmail, email); err != nil {
		return nil, err
	}

	var app *models.Application
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx db.Tx) error {
		if _, err := tx.GetUser(email); err != nil {
			return mapTxErr(err, ErrUserNotFound, email)
		}
		if _, err := tx.GetApplication(email); err == nil {
			return fmt.Errorf("%w: %s", ErrApplicationPending, email)
		} else if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		app = &models.Application{
			UserEmail:     email,
			FullName:      req.FullName,
			PhotoURL:      req.PhotoURL,
			Age:           req.Age,
			AboutInfo:     req.AboutInfo,
			Experience:    req.Experience,
			Skills:        append([]string(nil), req.Skills...),
			AvailableDays: append([]string(nil), req.AvailableDays...),
			AvailableTime: req.AvailableTime,
			Linkedin:      req.Linkedin,
			Instagram:     req.Instagram,
			Slots:         s.slotQuota,
			Status:        models.StatusPending,
			AdminFeedback: nil,
			AppliedAt:     s.now(),
		}
		if err := tx.CreateApplication(app); err != nil {
			return err
		}
		pending := models.StatusPending
		return tx.UpdateUser(email, models.UserPatch{Status: &pending})
	})
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrApplicationPending, email)
		}
		return nil, wrapWorkflowErr("apply", email, err)
	}

	s.after.record(ctx, models.AuditLog{
		Actor:      actorEmail,
		Action:     models.AuditApplicationSubmit,
		TargetType: "application",
		TargetID:   email,
	})
	s.after.publish(ctx, models.Event{Type: models.EventApplicationSubmitted, Email: email, Name: app.FullName})
	return app, nil
}

func (s *applicationService) ListPending(ctx context.Context) ([]*models.Application, error) {
	apps, err := s.apps.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	return apps, nil
}

func (s *applicationService) GetByEmail(ctx context.Context, email string) (*models.Application, error) {
	app, err := s.apps.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, email)
		}
		return nil, fmt.Errorf("failed to get application '%s': %w", email, err)
	}
	return app, nil
}

// Approve promotes the applicant to trainer, copying the profile and slot quota from the
// application, and deletes the application. No user is created when none exists.
func (s *applicationService) Approve(ctx context.Context, actorEmail, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	var updated *models.User
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx db.Tx) error {
		app, err := tx.GetApplication(email)
		if err != nil {
			return mapTxErr(err, ErrApplicationNotFound, email)
		}
		user, err := tx.GetUser(email)
		if err != nil {
			return mapTxErr(err, ErrUserNotFound, email)
		}

		patch := app.ApprovalPatch()
		if err := tx.UpdateUser(email, patch); err != nil {
			return err
		}
		if err := tx.DeleteApplication(email); err != nil {
			return err
		}
		patch.ApplyTo(user)
		updated = user
		return nil
	})
	if err != nil {
		return nil, wrapWorkflowErr("approve", email, err)
	}

	s.after.invalidateRole(ctx, email)
	s.after.record(ctx, models.AuditLog{
		Actor:      actorEmail,
		Action:     models.AuditApplicationApprove,
		TargetType: "application",
		TargetID:   email,
		Details:    map[string]interface{}{"slots": updated.Slots},
	})
	s.after.publish(ctx, models.Event{Type: models.EventApplicationApproved, Email: email, Name: updated.FullName})
	return updated, nil
}

// Reject records the admin's feedback on the user and deletes the application.
func (s *applicationService) Reject(ctx context.Context, actorEmail, email, feedback string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, fmt.Errorf("%w: adminFeedback is required", ErrInvalidInput)
	}

	var updated *models.User
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx db.Tx) error {
		app, err := tx.GetApplication(email)
		if err != nil {
			return mapTxErr(err, ErrApplicationNotFound, email)
		}
		user, err := tx.GetUser(email)
		if err != nil {
			return mapTxErr(err, ErrUserNotFound, email)
		}

		patch := app.RejectionPatch(feedback)
		if err := tx.UpdateUser(email, patch); err != nil {
			return err
		}
		if err := tx.DeleteApplication(email); err != nil {
			return err
		}
		patch.ApplyTo(user)
		updated = user
		return nil
	})
	if err != nil {
		return nil, wrapWorkflowErr("reject", email, err)
	}

	s.after.invalidateRole(ctx, email)
	s.after.record(ctx, models.AuditLog{
		Actor:      actorEmail,
		Action:     models.AuditApplicationReject,
		TargetType: "application",
		TargetID:   email,
		Details:    map[string]interface{}{"adminFeedback": feedback},
	})
	s.after.publish(ctx, models.Event{
		Type:  models.EventApplicationRejected,
		Email: email,
		Name:  updated.DisplayName,
		Data:  map[string]string{"adminFeedback": feedback},
	})
	return updated, nil
}

// mapTxErr turns a not-found read inside a transaction into the given service error.
func mapTxErr(err error, notFound error, key string) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %s", notFound, key)
	}
	return err
}

// wrapWorkflowErr adds context to infrastructure errors and passes service errors through.
func wrapWorkflowErr(step, key string, err error) error {
	if isServiceErr(err) {
		return err
	}
	return fmt.Errorf("%s '%s' failed: %w", step, key, err)
}

func isServiceErr(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrApplicationNotFound, ErrApplicationPending, ErrForbidden,
		ErrInvalidInput, ErrClassNotFound, ErrSlotNotFound, ErrTrainerNotFound,
		ErrPostNotFound, ErrBookingNotFound, ErrPaymentDuplicate, ErrPaymentNotConfirmed,
		ErrPaymentProvider, ErrPaymentNotConfigured,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
