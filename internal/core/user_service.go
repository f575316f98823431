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

// topTrainersLimit is the size of the featured trainer list.
const topTrainersLimit = 6

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	roles    RoleResolver
	after    afterCommit
	now      func() time.Time
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, roles RoleResolver, audit AuditService, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		roles:    roles,
		after:    newAfterCommit(audit, nil, roles, logger),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Upsert creates a member on first login. For a known user only a changed auth method is
// written back, together with the login time.
func (s *userService) Upsert(ctx context.Context, req models.UpsertUserRequest) (*models.User, bool, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		return nil, false, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.AuthMethod != req.AuthMethod {
			now := s.now()
			patch := models.UserPatch{AuthMethod: &req.AuthMethod, LastLogin: &now}
			if err := s.userRepo.Update(ctx, email, patch); err != nil {
				return nil, false, fmt.Errorf("failed to refresh auth method of '%s': %w", email, err)
			}
			patch.ApplyTo(existing)
		}
		return existing, false, nil
	case !errors.Is(err, db.ErrNotFound):
		return nil, false, fmt.Errorf("failed to look up user '%s': %w", email, err)
	}

	now := s.now()
	user := &models.User{
		Email:       email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		AuthMethod:  req.AuthMethod,
		Role:        models.RoleMember,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLogin:   now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			// Lost a race with a concurrent first login; report the stored user.
			stored, getErr := s.userRepo.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to read user '%s' after concurrent create: %w", email, getErr)
			}
			return stored, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user '%s': %w", email, err)
	}
	return user, true, nil
}

func (s *userService) TouchLogin(ctx context.Context, email string) (*models.User, error) {
	now := s.now()
	if err := s.userRepo.Update(ctx, email, models.UserPatch{LastLogin: &now}); err != nil {
		return nil, s.mapUserErr(email, err)
	}
	return s.GetByEmail(ctx, email)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.mapUserErr(email, err)
	}
	return user, nil
}

// UpdateProfile applies a profile-only patch. Privileged fields are rejected.
func (s *userService) UpdateProfile(ctx context.Context, actorEmail, email string, patch models.UserPatch) (*models.User, error) {
	if err := requireSelfOrAdmin(ctx, s.roles, actorEmail, email); err != nil {
		return nil, err
	}
	if patch.Role != nil || patch.Status != nil || patch.Slots != nil || patch.Subscription != nil || patch.AdminFeedback != nil {
		return nil, fmt.Errorf("%w: role, status, slots, subscription and feedback cannot be changed here", ErrInvalidInput)
	}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no profile fields to update", ErrInvalidInput)
	}
	if err := s.userRepo.Update(ctx, email, patch); err != nil {
		return nil, s.mapUserErr(email, err)
	}
	return s.GetByEmail(ctx, email)
}

func (s *userService) GetRole(ctx context.Context, email string) (models.Role, error) {
	return s.roles.Role(ctx, email)
}

func (s *userService) ListTrainers(ctx context.Context) ([]*models.User, error) {
	trainers, err := s.userRepo.ListByRole(ctx, models.RoleTrainer)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}
	return trainers, nil
}

func (s *userService) GetTrainer(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTrainerNotFound, id)
		}
		return nil, fmt.Errorf("failed to get trainer '%s': %w", id, err)
	}
	if user.Role != models.RoleTrainer {
		return nil, fmt.Errorf("%w: %s", ErrTrainerNotFound, id)
	}
	return user, nil
}

// TopTrainers lists trainers with the fewest remaining slots, i.e. the most booked.
func (s *userService) TopTrainers(ctx context.Context) ([]*models.User, error) {
	trainers, err := s.userRepo.ListTopTrainers(ctx, topTrainersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top trainers: %w", err)
	}
	return trainers, nil
}

// DemoteTrainer turns a trainer back into a member.
func (s *userService) DemoteTrainer(ctx context.Context, actorEmail, id string) (*models.User, error) {
	trainer, err := s.GetTrainer(ctx, id)
	if err != nil {
		return nil, err
	}
	role := models.RoleMember
	if err := s.userRepo.Update(ctx, trainer.Email, models.UserPatch{Role: &role}); err != nil {
		return nil, s.mapUserErr(trainer.Email, err)
	}
	trainer.Role = role

	s.after.invalidateRole(ctx, trainer.Email)
	s.after.record(ctx, models.AuditLog{
		Actor:      actorEmail,
		Action:     models.AuditTrainerDemote,
		TargetType: "user",
		TargetID:   trainer.Email,
	})
	return trainer, nil
}

func (s *userService) mapUserErr(email string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}
	return fmt.Errorf("user '%s': %w", email, err)
}
