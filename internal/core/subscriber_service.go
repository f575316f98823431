package core

import (
	"context"
	"fmt"
	"time"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
)

type subscriberService struct {
	subscribers db.SubscriberRepository
	users       db.UserRepository
	now         func() time.Time
}

// NewSubscriberService creates a new SubscriberService instance.
func NewSubscriberService(subscribers db.SubscriberRepository, users db.UserRepository) SubscriberService {
	return &subscriberService{subscribers: subscribers, users: users, now: func() time.Time { return time.Now().UTC() }}
}

func (s *subscriberService) Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscriber, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	sub := &models.Subscriber{Name: req.Name, Email: email, SubscribedAt: s.now()}
	if _, err := s.subscribers.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return sub, nil
}

func (s *subscriberService) List(ctx context.Context) ([]*models.Subscriber, error) {
	subs, err := s.subscribers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}

// MembershipStats counts newsletter subscribers against users holding a subscription.
func (s *subscriberService) MembershipStats(ctx context.Context) (*models.MembershipStats, error) {
	subs, err := s.subscribers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}
	paid, err := s.users.CountPaidMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count paid members: %w", err)
	}
	return &models.MembershipStats{TotalSubscribers: subs, TotalPaidMembers: paid}, nil
}
