package core

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
)

const (
	defaultClassPageSize = 6
	maxClassPageSize     = 100
	topClassesLimit      = 6
)

type classService struct {
	classes db.ClassRepository
	now     func() time.Time
}

// NewClassService creates a new ClassService instance.
func NewClassService(classes db.ClassRepository) ClassService {
	return &classService{classes: classes, now: func() time.Time { return time.Now().UTC() }}
}

func (s *classService) Create(ctx context.Context, req models.CreateClassRequest) (*models.Class, error) {
	name := strings.TrimSpace(req.ClassName)
	if name == "" {
		return nil, fmt.Errorf("%w: className is required", ErrInvalidInput)
	}
	class := &models.Class{
		ClassName:  name,
		Details:    req.Details,
		Image:      req.Image,
		TrainerIDs: []string{},
		Bookings:   0,
		CreatedAt:  s.now(),
	}
	if _, err := s.classes.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	return class, nil
}

// List returns a page of classes. page is 1-based; out of range values fall back to defaults.
func (s *classService) List(ctx context.Context, page, limit int, search string) (*models.ClassPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultClassPageSize
	}
	if limit > maxClassPageSize {
		limit = maxClassPageSize
	}

	page, offset := pageOffset(page, limit)

	classes, total, err := s.classes.List(ctx, models.ClassQuery{
		Search: search,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return &models.ClassPage{
		Classes:     classes,
		TotalPages:  models.TotalPages(total, limit),
		CurrentPage: page,
		TotalCount:  total,
	}, nil
}

// Top lists the most booked classes.
func (s *classService) Top(ctx context.Context) ([]*models.Class, error) {
	classes, err := s.classes.Top(ctx, topClassesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top classes: %w", err)
	}
	return classes, nil
}

func (s *classService) All(ctx context.Context) ([]*models.Class, error) {
	classes, err := s.classes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

// pageOffset clamps a 1-based page so its offset stays within int32, which is what
// Firestore accepts, and returns the clamped page with its offset.
func pageOffset(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		page = maxPage
	}
	return page, (page - 1) * limit
}
