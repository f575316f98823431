package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"truefit-backend-go/internal/config"
)

const (
	usersCollection        = "users"
	applicationsCollection = "applications"
	classesCollection      = "classes"
	slotsCollection        = "slots"
	forumsCollection       = "forums"
	paymentsCollection     = "payments"
	reviewsCollection      = "reviews"
	subscribersCollection  = "subscribers"
	auditLogsCollection    = "audit_logs"
)

// Client owns the Firebase app handles for the lifetime of the process.
// It is opened once in main and closed by the shutdown hook.
type Client struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// NewClient initializes the Firebase Admin SDK and opens the Firestore and Auth clients.
// Credentials come from a file path, a base64 service-account JSON, or ADC, in that order.
func NewClient(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*Client, error) {
	if appConfig == nil {
		return nil, errors.New("NewClient: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file", zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file does not exist, falling back on ambient credentials",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with base64 encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FirebaseServiceAccountJSONBase64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	var firebaseAppConfig *firebase.Config
	if appConfig.FirebaseProjectID != "" {
		firebaseAppConfig = &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, firebaseAppConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	logger.Info("Firestore and Firebase Auth clients initialized", zap.String("projectId", appConfig.FirebaseProjectID))
	return &Client{Firestore: fs, Auth: authClient}, nil
}

// Close releases the Firestore connection.
func (c *Client) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}

// NewFirestoreRepositories wires every Firestore repository onto one client.
func NewFirestoreRepositories(client *firestore.Client) *Repositories {
	return &Repositories{
		Users:        NewFirestoreUserRepository(client),
		Applications: NewFirestoreApplicationRepository(client),
		Classes:      NewFirestoreClassRepository(client),
		Slots:        NewFirestoreSlotRepository(client),
		Forum:        NewFirestoreForumRepository(client),
		Payments:     NewFirestorePaymentRepository(client),
		Reviews:      NewFirestoreReviewRepository(client),
		Subscribers:  NewFirestoreSubscriberRepository(client),
		Audit:        NewFirestoreAuditRepository(client),
		Transactor:   NewFirestoreTransactor(client),
	}
}

// countQuery runs a server-side count aggregation over q.
func countQuery(ctx context.Context, q firestore.Query) (int64, error) {
	results, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := results["total"]
	if !ok {
		return 0, errors.New("aggregation result missing count")
	}
	pv, ok := v.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation value type %T", v)
	}
	return pv.GetIntegerValue(), nil
}

// decodeAll drains iter into a slice of T, setting the document ID through setID when given.
func decodeAll[T any](iter *firestore.DocumentIterator, setID func(*T, string)) ([]*T, error) {
	defer iter.Stop()

	out := make([]*T, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, fmt.Errorf("failed to decode document '%s': %w", doc.Ref.ID, err)
		}
		if setID != nil {
			setID(&item, doc.Ref.ID)
		}
		out = append(out, &item)
	}
	return out, nil
}
