package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
)

type reviewService struct {
	reviews db.ReviewRepository
	now     func() time.Time
}

// NewReviewService creates a new ReviewService instance.
func NewReviewService(reviews db.ReviewRepository) ReviewService {
	return &reviewService{reviews: reviews, now: func() time.Time { return time.Now().UTC() }}
}

func (s *reviewService) Create(ctx context.Context, actorEmail string, req models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Feedback) == "" {
		return nil, fmt.Errorf("%w: feedback is required", ErrInvalidInput)
	}
	review := &models.Review{
		UserName:  req.UserName,
		UserEmail: models.NormalizeEmail(actorEmail),
		UserImage: req.UserImage,
		TrainerID: models.NormalizeEmail(req.TrainerID),
		Rating:    req.Rating,
		Feedback:  req.Feedback,
		CreatedAt: s.now(),
	}
	if _, err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) List(ctx context.Context) ([]*models.Review, error) {
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
