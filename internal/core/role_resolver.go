package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
	"truefit-backend-go/pkg/cache"
)

const roleCachePrefix = "role:"

// cachedRoleResolver reads roles through a TTL cache, bounding how stale a role can be.
type cachedRoleResolver struct {
	users  db.UserRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewRoleResolver returns a RoleResolver backed by users and fronted by c.
func NewRoleResolver(users db.UserRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) RoleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedRoleResolver{users: users, cache: c, ttl: ttl, logger: logger}
}

func (r *cachedRoleResolver) Role(ctx context.Context, email string) (models.Role, error) {
	email = models.NormalizeEmail(email)
	key := roleCachePrefix + email

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		switch {
		case err == nil:
			if role := models.Role(cached); role.Valid() {
				return role, nil
			}
		case !errors.Is(err, cache.ErrMiss):
			r.logger.Warn("Role cache read failed, falling back to store", zap.String("email", email), zap.Error(err))
		}
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return "", fmt.Errorf("failed to resolve role of '%s': %w", email, err)
	}

	role := user.Role
	if !role.Valid() {
		role = models.RoleMember
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, string(role), r.ttl); err != nil {
			r.logger.Warn("Role cache write failed", zap.String("email", email), zap.Error(err))
		}
	}
	return role, nil
}

func (r *cachedRoleResolver) Invalidate(ctx context.Context, email string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, roleCachePrefix+models.NormalizeEmail(email)); err != nil {
		r.logger.Warn("Role cache invalidation failed", zap.String("email", email), zap.Error(err))
	}
}

// requireSelfOrAdmin allows actorEmail to act on targetEmail's data when they are the same
// person or the actor is an admin.
func requireSelfOrAdmin(ctx context.Context, roles RoleResolver, actorEmail, targetEmail string) error {
	if models.NormalizeEmail(actorEmail) == models.NormalizeEmail(targetEmail) {
		return nil
	}
	role, err := roles.Role(ctx, actorEmail)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrForbidden
		}
		return err
	}
	if role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
