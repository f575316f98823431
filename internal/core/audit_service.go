package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
)

// auditService implements the AuditService interface.
type auditService struct {
	auditRepo db.AuditRepository
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// CreateAuditLog stamps the entry with the current time when unset and stores it.
func (s *auditService) CreateAuditLog(ctx context.Context, logEntry models.AuditLog) error {
	if s.auditRepo == nil {
		return errors.New("AuditRepository not initialized in AuditService")
	}
	if logEntry.Action == "" {
		return fmt.Errorf("%w: audit action is required", ErrInvalidInput)
	}
	if logEntry.Timestamp.IsZero() {
		logEntry.Timestamp = time.Now().UTC()
	}
	if err := s.auditRepo.Create(ctx, logEntry); err != nil {
		return fmt.Errorf("failed to create audit log via repository: %w", err)
	}
	return nil
}

// afterCommit runs the best-effort side effects of a committed change.
// Failures are logged and never reach the caller.
type afterCommit struct {
	audit  AuditService
	events EventPublisher
	roles  RoleResolver
	logger *zap.Logger
}

func newAfterCommit(audit AuditService, events EventPublisher, roles RoleResolver, logger *zap.Logger) afterCommit {
	if events == nil {
		events = NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return afterCommit{audit: audit, events: events, roles: roles, logger: logger}
}

func (a afterCommit) record(ctx context.Context, entry models.AuditLog) {
	if a.audit == nil {
		return
	}
	if err := a.audit.CreateAuditLog(context.WithoutCancel(ctx), entry); err != nil {
		a.logger.Warn("Failed to write audit log",
			zap.String("action", entry.Action),
			zap.String("targetId", entry.TargetID),
			zap.Error(err))
	}
}

func (a afterCommit) publish(ctx context.Context, event models.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := a.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		a.logger.Warn("Failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("email", event.Email),
			zap.Error(err))
	}
}

func (a afterCommit) invalidateRole(ctx context.Context, email string) {
	if a.roles != nil {
		a.roles.Invalidate(context.WithoutCancel(ctx), email)
	}
}
