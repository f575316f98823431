package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"truefit-backend-go/internal/models"
)

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document keyed by the normalized email.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	email := models.NormalizeEmail(user.Email)
	if email == "" {
		return errors.New("user email cannot be empty for Create operation")
	}
	user.Email = email
	user.ID = email
	_, err := r.client.Collection(usersCollection).Doc(email).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user '%s': %w", email, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user '%s': %w", email, err)
	}
	return nil
}

// GetByEmail retrieves a user document by its normalized email.
func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("user '': %w", ErrNotFound)
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(email).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user '%s' not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", email, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for '%s': %w", email, err)
	}
	user.ID = docSnap.Ref.ID
	return &user, nil
}

// Update applies the set fields of patch. It fails with ErrNotFound when the user does not exist,
// unlike Set with MergeAll which would create the document.
func (r *firestoreUserRepository) Update(ctx context.Context, email string, patch models.UserPatch) error {
	email = models.NormalizeEmail(email)
	_, err := r.client.Collection(usersCollection).Doc(email).Update(ctx, userPatchUpdates(patch, time.Now().UTC()))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user '%s' not found for update: %w", email, ErrNotFound)
		}
		return fmt.Errorf("failed to update user '%s': %w", email, err)
	}
	return nil
}

func (r *firestoreUserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	iter := r.client.Collection(usersCollection).Where("role", "==", string(role)).Documents(ctx)
	users, err := decodeAll(iter, setUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with role '%s': %w", role, err)
	}
	return users, nil
}

// ListTopTrainers needs a composite index on (role, slots).
func (r *firestoreUserRepository) ListTopTrainers(ctx context.Context, limit int) ([]*models.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("role", "==", string(models.RoleTrainer)).
		OrderBy("slots", firestore.Asc).
		Limit(limit).
		Documents(ctx)
	users, err := decodeAll(iter, setUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list top trainers: %w", err)
	}
	return users, nil
}

func (r *firestoreUserRepository) CountPaidMembers(ctx context.Context) (int64, error) {
	n, err := countQuery(ctx, r.client.Collection(usersCollection).Where("subscription", "!=", ""))
	if err != nil {
		return 0, fmt.Errorf("failed to count paid members: %w", err)
	}
	return n, nil
}

func setUserID(u *models.User, id string) { u.ID = id }

// userPatchUpdates converts a patch into field updates. updatedAt is always refreshed.
func userPatchUpdates(p models.UserPatch, now time.Time) []firestore.Update {
	updates := []firestore.Update{{Path: "updatedAt", Value: now}}
	add := func(path string, v interface{}) {
		updates = append(updates, firestore.Update{Path: path, Value: v})
	}
	if p.DisplayName != nil {
		add("displayName", *p.DisplayName)
	}
	if p.FullName != nil {
		add("fullName", *p.FullName)
	}
	if p.PhotoURL != nil {
		add("photoURL", *p.PhotoURL)
	}
	if p.AuthMethod != nil {
		add("authMethod", *p.AuthMethod)
	}
	if p.Role != nil {
		add("role", string(*p.Role))
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	if p.Subscription != nil {
		add("subscription", *p.Subscription)
	}
	if p.Slots != nil {
		add("slots", *p.Slots)
	}
	if p.Age != nil {
		add("age", *p.Age)
	}
	if p.AboutInfo != nil {
		add("aboutInfo", *p.AboutInfo)
	}
	if p.Experience != nil {
		add("experience", *p.Experience)
	}
	if p.Skills != nil {
		add("skills", *p.Skills)
	}
	if p.AvailableDays != nil {
		add("availableDays", *p.AvailableDays)
	}
	if p.AvailableTime != nil {
		add("availableTime", *p.AvailableTime)
	}
	if p.Linkedin != nil {
		add("linkedin", *p.Linkedin)
	}
	if p.Instagram != nil {
		add("instagram", *p.Instagram)
	}
	if p.AdminFeedback != nil {
		add("adminFeedback", *p.AdminFeedback)
	}
	if p.LastLogin != nil {
		add("lastLogin", *p.LastLogin)
	}
	return updates
}
