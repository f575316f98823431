package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"truefit-backend-go/internal/models"
)

type firestoreForumRepository struct {
	client *firestore.Client
}

// NewFirestoreForumRepository creates a new instance of firestoreForumRepository.
func NewFirestoreForumRepository(client *firestore.Client) ForumRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ForumRepository.")
	}
	return &firestoreForumRepository{client: client}
}

func (r *firestoreForumRepository) Create(ctx context.Context, post *models.ForumPost) (string, error) {
	docRef := r.client.Collection(forumsCollection).NewDoc()
	post.ID = docRef.ID
	if _, err := docRef.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create forum post: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreForumRepository) List(ctx context.Context, offset, limit int) ([]*models.ForumPost, int64, error) {
	col := r.client.Collection(forumsCollection)
	total, err := countQuery(ctx, col.Query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count forum posts: %w", err)
	}
	iter := col.OrderBy("postedDate", firestore.Desc).Offset(offset).Limit(limit).Documents(ctx)
	posts, err := decodeAll(iter, setPostID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list forum posts: %w", err)
	}
	return posts, total, nil
}

func (r *firestoreForumRepository) ListByAuthorType(ctx context.Context, authorType models.Role) ([]*models.ForumPost, error) {
	iter := r.client.Collection(forumsCollection).Where("authorType", "==", string(authorType)).Documents(ctx)
	posts, err := decodeAll(iter, setPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s forum posts: %w", authorType, err)
	}
	return posts, nil
}

// Vote uses a server-side increment so concurrent votes are never lost.
func (r *firestoreForumRepository) Vote(ctx context.Context, postID string, kind models.VoteKind) error {
	_, err := r.client.Collection(forumsCollection).Doc(postID).Update(ctx, []firestore.Update{
		{Path: string(kind), Value: firestore.Increment(1)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("forum post '%s' not found: %w", postID, ErrNotFound)
		}
		return fmt.Errorf("failed to record %s on post '%s': %w", kind, postID, err)
	}
	return nil
}

func setPostID(p *models.ForumPost, id string) { p.ID = id }
