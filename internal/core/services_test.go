package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/models"
	"truefit-backend-go/pkg/cache"
)

const adminEmail = "admin@truefit.io"

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeProcessor struct {
	secret    string
	succeeded map[string]bool
	err       error
}

func (f *fakeProcessor) CreatePaymentIntent(_ context.Context, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.secret, nil
}

func (f *fakeProcessor) PaymentSucceeded(_ context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.succeeded[id], nil
}

// testEnv wires every service against one in-memory store.
type testEnv struct {
	store  *db.MemoryStore
	repos  *db.Repositories
	events *recordingPublisher
	roles  RoleResolver

	users        UserService
	applications ApplicationService
	classes      ClassService
	slots        SlotService
	forum        ForumService
	billing      BillingService
	reviews      ReviewService
	subscribers  SubscriberService
}

func newTestEnv(t *testing.T, processor PaymentProcessor) *testEnv {
	t.Helper()
	store := db.NewMemoryStore()
	repos := store.Repositories()
	events := &recordingPublisher{}
	logger := zap.NewNop()
	roles := NewRoleResolver(repos.Users, cache.NewMemoryCache(cache.DefaultMemoryCacheSize, time.Minute), time.Minute, logger)
	audit := NewAuditService(repos.Audit)

	store.PutUser(models.User{Email: adminEmail, Role: models.RoleAdmin})

	return &testEnv{
		store:        store,
		repos:        repos,
		events:       events,
		roles:        roles,
		users:        NewUserService(repos.Users, roles, audit, logger),
		applications: NewApplicationService(repos.Applications, repos.Transactor, roles, audit, events, models.DefaultApplicationSlots, logger),
		classes:      NewClassService(repos.Classes),
		slots:        NewSlotService(repos.Slots, repos.Transactor),
		forum:        NewForumService(repos.Forum, repos.Users, roles),
		billing: NewBillingService(BillingDeps{
			Payments:  repos.Payments,
			Slots:     repos.Slots,
			Users:     repos.Users,
			Classes:   repos.Classes,
			Tx:        repos.Transactor,
			Processor: processor,
			Roles:     roles,
			Audit:     audit,
			Events:    events,
			Logger:    logger,
		}),
		reviews:     NewReviewService(repos.Reviews),
		subscribers: NewSubscriberService(repos.Subscribers, repos.Users),
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.repos.Users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return u
}

var errInjected = errors.New("injected failure")
