package db

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"

	"truefit-backend-go/internal/models"
)

// prefixEnd is appended to a search prefix to form the exclusive upper bound of a range query.
const prefixEnd = "\uf8ff"

type firestoreClassRepository struct {
	client *firestore.Client
}

// NewFirestoreClassRepository creates a new instance of firestoreClassRepository.
func NewFirestoreClassRepository(client *firestore.Client) ClassRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ClassRepository.")
	}
	return &firestoreClassRepository{client: client}
}

// Create adds a class with an auto-generated ID and maintains the lower-cased search key.
func (r *firestoreClassRepository) Create(ctx context.Context, class *models.Class) (string, error) {
	docRef := r.client.Collection(classesCollection).NewDoc()
	class.ID = docRef.ID
	class.ClassNameLower = strings.ToLower(class.ClassName)
	if class.TrainerIDs == nil {
		class.TrainerIDs = []string{}
	}
	if _, err := docRef.Create(ctx, class); err != nil {
		return "", fmt.Errorf("failed to create class: %w", err)
	}
	return docRef.ID, nil
}

func (r *firestoreClassRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Class, error) {
	if len(ids) == 0 {
		return []*models.Class{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.client.Collection(classesCollection).Doc(id))
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to get classes: %w", err)
	}
	classes := make([]*models.Class, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var c models.Class
		if err := snap.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to decode class '%s': %w", snap.Ref.ID, err)
		}
		c.ID = snap.Ref.ID
		classes = append(classes, &c)
	}
	return classes, nil
}

// List pages through classes ordered by name. A non-empty search is a case-insensitive
// prefix match, since Firestore cannot query substrings.
func (r *firestoreClassRepository) List(ctx context.Context, q models.ClassQuery) ([]*models.Class, int64, error) {
	base := r.client.Collection(classesCollection).Query
	if search := strings.ToLower(strings.TrimSpace(q.Search)); search != "" {
		base = base.Where("classNameLower", ">=", search).Where("classNameLower", "<", search+prefixEnd)
	}

	total, err := countQuery(ctx, base)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count classes: %w", err)
	}

	pageQuery := base.OrderBy("classNameLower", firestore.Asc).Offset(q.Offset)
	if q.Limit > 0 {
		pageQuery = pageQuery.Limit(q.Limit)
	}
	classes, err := decodeAll(pageQuery.Documents(ctx), setClassID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, total, nil
}

func (r *firestoreClassRepository) Top(ctx context.Context, limit int) ([]*models.Class, error) {
	iter := r.client.Collection(classesCollection).OrderBy("bookings", firestore.Desc).Limit(limit).Documents(ctx)
	classes, err := decodeAll(iter, setClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to list top classes: %w", err)
	}
	return classes, nil
}

func (r *firestoreClassRepository) All(ctx context.Context) ([]*models.Class, error) {
	classes, err := decodeAll(r.client.Collection(classesCollection).Documents(ctx), setClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func setClassID(c *models.Class, id string) { c.ID = id }
