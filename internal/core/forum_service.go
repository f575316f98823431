package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
)

const forumPageSize = 6

type forumService struct {
	posts db.ForumRepository
	users db.UserRepository
	roles RoleResolver
	now   func() time.Time
}

// NewForumService creates a new ForumService instance.
func NewForumService(posts db.ForumRepository, users db.UserRepository, roles RoleResolver) ForumService {
	return &forumService{posts: posts, users: users, roles: roles, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a post authored by the caller. The author type is the caller's current role.
func (s *forumService) Create(ctx context.Context, actorEmail string, req models.CreatePostRequest) (*models.ForumPost, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}
	email := models.NormalizeEmail(actorEmail)
	role, err := s.roles.Role(ctx, email)
	if err != nil {
		return nil, err
	}

	post := &models.ForumPost{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		AuthorName:  req.AuthorName,
		AuthorEmail: email,
		AuthorImage: req.AuthorImage,
		AuthorType:  role,
		PostedDate:  s.now(),
	}
	if post.AuthorName == "" || post.AuthorImage == "" {
		if author, err := s.users.GetByEmail(ctx, email); err == nil {
			if post.AuthorName == "" {
				post.AuthorName = displayName(author)
			}
			if post.AuthorImage == "" {
				post.AuthorImage = author.PhotoURL
			}
		}
	}

	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create forum post: %w", err)
	}
	return post, nil
}

func (s *forumService) List(ctx context.Context, page int) (*models.ForumPage, error) {
	page, offset := pageOffset(page, forumPageSize)
	posts, total, err := s.posts.List(ctx, offset, forumPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list forum posts: %w", err)
	}
	return &models.ForumPage{
		TotalPosts:  total,
		CurrentPage: page,
		TotalPages:  models.TotalPages(total, forumPageSize),
		Posts:       posts,
	}, nil
}

func (s *forumService) TrainerPosts(ctx context.Context) ([]*models.ForumPost, error) {
	posts, err := s.posts.ListByAuthorType(ctx, models.RoleTrainer)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainer posts: %w", err)
	}
	return posts, nil
}

func (s *forumService) Vote(ctx context.Context, postID string, kind models.VoteKind) error {
	if kind != models.VoteUp && kind != models.VoteDown {
		return fmt.Errorf("%w: unknown vote kind %q", ErrInvalidInput, kind)
	}
	if err := s.posts.Vote(ctx, postID, kind); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		return fmt.Errorf("failed to vote on post '%s': %w", postID, err)
	}
	return nil
}
