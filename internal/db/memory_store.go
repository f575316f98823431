package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"truefit-backend-go/internal/models"
)

// errReadAfterWrite mirrors Firestore's rule that a transaction reads before it writes.
var errReadAfterWrite = errors.New("transaction read after write")

// MemoryStore is an in-process implementation of every repository and the transactor.
// It backs DATABASE_DRIVER=memory and the service and handler tests.
//
// Records are stored by value and every slice is replaced rather than mutated, so a
// shallow copy of the maps is enough to roll a transaction back.
type MemoryStore struct {
	mu sync.Mutex

	users        map[string]models.User
	applications map[string]models.Application
	classes      map[string]models.Class
	slots        map[string]models.Slot
	posts        map[string]models.ForumPost
	payments     map[string]models.Payment
	reviews      map[string]models.Review
	subscribers  map[string]models.Subscriber
	auditLogs    []models.AuditLog

	nextErr map[string]error
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]models.User),
		applications: make(map[string]models.Application),
		classes:      make(map[string]models.Class),
		slots:        make(map[string]models.Slot),
		posts:        make(map[string]models.ForumPost),
		payments:     make(map[string]models.Payment),
		reviews:      make(map[string]models.Review),
		subscribers:  make(map[string]models.Subscriber),
		nextErr:      make(map[string]error),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *MemoryStore) Repositories() *Repositories {
	return &Repositories{
		Users:        memoryUsers{s},
		Applications: memoryApplications{s},
		Classes:      memoryClasses{s},
		Slots:        memorySlots{s},
		Forum:        memoryForum{s},
		Payments:     memoryPayments{s},
		Reviews:      memoryReviews{s},
		Subscribers:  memorySubscribers{s},
		Audit:        memoryAudit{s},
		Transactor:   s,
	}
}

// SetErr makes the next call of op fail with err. Op names are "<repo>.<Method>"
// (for example "users.GetByEmail"), "tx.<Method>" for transaction steps and "tx.Commit".
func (s *MemoryStore) SetErr(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextErr[op] = err
}

func (s *MemoryStore) takeErr(op string) error {
	if err, ok := s.nextErr[op]; ok {
		delete(s.nextErr, op)
		return err
	}
	return nil
}

// AuditLogs returns a copy of every recorded audit entry.
func (s *MemoryStore) AuditLogs() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.auditLogs...)
}

// PutUser, PutApplication, PutClass, PutSlot and PutPayment seed records directly, bypassing workflows.
func (s *MemoryStore) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = models.NormalizeEmail(u.Email)
	u.ID = u.Email
	s.users[u.Email] = cloneUser(u)
}

func (s *MemoryStore) PutApplication(a models.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.UserEmail = models.NormalizeEmail(a.UserEmail)
	s.applications[a.UserEmail] = cloneApplication(a)
}

func (s *MemoryStore) PutClass(c models.Class) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.ClassNameLower = strings.ToLower(c.ClassName)
	s.classes[c.ID] = cloneClass(c)
	return c.ID
}

func (s *MemoryStore) PutSlot(sl models.Slot) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl.ID == "" {
		sl.ID = uuid.NewString()
	}
	s.slots[sl.ID] = cloneSlot(sl)
	return sl.ID
}

func (s *MemoryStore) PutPayment(p models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UserEmail = models.NormalizeEmail(p.UserEmail)
	s.payments[p.PaymentID] = clonePayment(p)
}

// Transactions

type memorySnapshot struct {
	users        map[string]models.User
	applications map[string]models.Application
	classes      map[string]models.Class
	slots        map[string]models.Slot
	payments     map[string]models.Payment
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) snapshot() memorySnapshot {
	return memorySnapshot{
		users:        copyMap(s.users),
		applications: copyMap(s.applications),
		classes:      copyMap(s.classes),
		slots:        copyMap(s.slots),
		payments:     copyMap(s.payments),
	}
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.users = snap.users
	s.applications = snap.applications
	s.classes = snap.classes
	s.slots = snap.slots
	s.payments = snap.payments
}

// RunInTransaction serializes transactions on the store mutex and restores the
// pre-transaction state when fn or the commit fails.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot()
	tx := &memoryTx{s: s, now: s.now()}
	if err := fn(ctx, tx); err != nil {
		s.restore(snap)
		return err
	}
	if err := s.takeErr("tx.Commit"); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type memoryTx struct {
	s     *MemoryStore
	now   time.Time
	wrote bool
}

func (t *memoryTx) read(op string) error {
	if t.wrote {
		return errReadAfterWrite
	}
	return t.s.takeErr(op)
}

func (t *memoryTx) write(op string) error {
	t.wrote = true
	return t.s.takeErr(op)
}

func (t *memoryTx) GetUser(email string) (*models.User, error) {
	if err := t.read("tx.GetUser"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	u, ok := t.s.users[email]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", usersCollection, email, ErrNotFound)
	}
	out := cloneUser(u)
	return &out, nil
}

func (t *memoryTx) GetApplication(email string) (*models.Application, error) {
	if err := t.read("tx.GetApplication"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	a, ok := t.s.applications[email]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", applicationsCollection, email, ErrNotFound)
	}
	out := cloneApplication(a)
	return &out, nil
}

func (t *memoryTx) GetSlot(slotID string) (*models.Slot, error) {
	if err := t.read("tx.GetSlot"); err != nil {
		return nil, err
	}
	sl, ok := t.s.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", slotsCollection, slotID, ErrNotFound)
	}
	out := cloneSlot(sl)
	return &out, nil
}

func (t *memoryTx) GetClasses(ids []string) ([]*models.Class, error) {
	if err := t.read("tx.GetClasses"); err != nil {
		return nil, err
	}
	out := make([]*models.Class, 0, len(ids))
	for _, id := range ids {
		c, ok := t.s.classes[id]
		if !ok {
			return nil, fmt.Errorf("%s/%s: %w", classesCollection, id, ErrNotFound)
		}
		cc := cloneClass(c)
		out = append(out, &cc)
	}
	return out, nil
}

func (t *memoryTx) CreateApplication(app *models.Application) error {
	if err := t.write("tx.CreateApplication"); err != nil {
		return err
	}
	email := models.NormalizeEmail(app.UserEmail)
	if _, ok := t.s.applications[email]; ok {
		return fmt.Errorf("%s/%s: %w", applicationsCollection, email, ErrAlreadyExists)
	}
	app.UserEmail = email
	app.ID = email
	t.s.applications[email] = cloneApplication(*app)
	return nil
}

func (t *memoryTx) UpdateUser(email string, patch models.UserPatch) error {
	if err := t.write("tx.UpdateUser"); err != nil {
		return err
	}
	return t.s.updateUser(email, patch, t.now)
}

func (t *memoryTx) IncrementUserSlots(email string, delta int) error {
	if err := t.write("tx.IncrementUserSlots"); err != nil {
		return err
	}
	email = models.NormalizeEmail(email)
	u, ok := t.s.users[email]
	if !ok {
		return fmt.Errorf("%s/%s: %w", usersCollection, email, ErrNotFound)
	}
	u.Slots += delta
	u.UpdatedAt = t.now
	t.s.users[email] = u
	return nil
}

func (t *memoryTx) DeleteApplication(email string) error {
	if err := t.write("tx.DeleteApplication"); err != nil {
		return err
	}
	email = models.NormalizeEmail(email)
	if _, ok := t.s.applications[email]; !ok {
		return fmt.Errorf("%s/%s: %w", applicationsCollection, email, ErrNotFound)
	}
	delete(t.s.applications, email)
	return nil
}

func (t *memoryTx) CreateSlot(slot *models.Slot) (string, error) {
	if err := t.write("tx.CreateSlot"); err != nil {
		return "", err
	}
	slot.ID = uuid.NewString()
	t.s.slots[slot.ID] = cloneSlot(*slot)
	return slot.ID, nil
}

func (t *memoryTx) AddTrainerToClasses(trainerID string, classIDs []string) error {
	if err := t.write("tx.AddTrainerToClasses"); err != nil {
		return err
	}
	for _, id := range classIDs {
		c, ok := t.s.classes[id]
		if !ok {
			return fmt.Errorf("%s/%s: %w", classesCollection, id, ErrNotFound)
		}
		if !contains(c.TrainerIDs, trainerID) {
			ids := make([]string, 0, len(c.TrainerIDs)+1)
			c.TrainerIDs = append(append(ids, c.TrainerIDs...), trainerID)
		}
		t.s.classes[id] = c
	}
	return nil
}

func (t *memoryTx) IncrementClassBookings(classIDs []string, delta int) error {
	if err := t.write("tx.IncrementClassBookings"); err != nil {
		return err
	}
	for _, id := range classIDs {
		c, ok := t.s.classes[id]
		if !ok {
			return fmt.Errorf("%s/%s: %w", classesCollection, id, ErrNotFound)
		}
		c.Bookings += delta
		t.s.classes[id] = c
	}
	return nil
}

func (t *memoryTx) CreatePayment(payment *models.Payment) error {
	if err := t.write("tx.CreatePayment"); err != nil {
		return err
	}
	if payment.PaymentID == "" {
		return errors.New("payment ID cannot be empty")
	}
	if _, ok := t.s.payments[payment.PaymentID]; ok {
		return fmt.Errorf("%s/%s: %w", paymentsCollection, payment.PaymentID, ErrAlreadyExists)
	}
	t.s.payments[payment.PaymentID] = clonePayment(*payment)
	return nil
}

func (s *MemoryStore) updateUser(email string, patch models.UserPatch, now time.Time) error {
	email = models.NormalizeEmail(email)
	u, ok := s.users[email]
	if !ok {
		return fmt.Errorf("%s/%s: %w", usersCollection, email, ErrNotFound)
	}
	patch.ApplyTo(&u)
	u.UpdatedAt = now
	s.users[email] = u
	return nil
}

// Users

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("users.GetByEmail"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	u, ok := r.s.users[email]
	if !ok {
		return nil, fmt.Errorf("user '%s' not found: %w", email, ErrNotFound)
	}
	out := cloneUser(u)
	return &out, nil
}

func (r memoryUsers) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("users.Create"); err != nil {
		return err
	}
	email := models.NormalizeEmail(user.Email)
	if email == "" {
		return errors.New("user email cannot be empty for Create operation")
	}
	if _, ok := r.s.users[email]; ok {
		return fmt.Errorf("user '%s': %w", email, ErrAlreadyExists)
	}
	user.Email = email
	user.ID = email
	r.s.users[email] = cloneUser(*user)
	return nil
}

func (r memoryUsers) Update(_ context.Context, email string, patch models.UserPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("users.Update"); err != nil {
		return err
	}
	return r.s.updateUser(email, patch, r.s.now())
}

func (r memoryUsers) ListByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("users.ListByRole"); err != nil {
		return nil, err
	}
	return r.s.usersWithRole(role), nil
}

func (r memoryUsers) ListTopTrainers(_ context.Context, limit int) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("users.ListTopTrainers"); err != nil {
		return nil, err
	}
	trainers := r.s.usersWithRole(models.RoleTrainer)
	sort.SliceStable(trainers, func(i, j int) bool { return trainers[i].Slots < trainers[j].Slots })
	return page(trainers, 0, limit), nil
}

func (r memoryUsers) CountPaidMembers(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("users.CountPaidMembers"); err != nil {
		return 0, err
	}
	var n int64
	for _, u := range r.s.users {
		if u.Subscription != "" {
			n++
		}
	}
	return n, nil
}

// usersWithRole returns matching users ordered by email. Caller holds mu.
func (s *MemoryStore) usersWithRole(role models.Role) []*models.User {
	out := make([]*models.User, 0)
	for _, u := range s.users {
		if u.Role == role {
			uu := cloneUser(u)
			out = append(out, &uu)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// Applications

type memoryApplications struct{ s *MemoryStore }

func (r memoryApplications) GetByEmail(_ context.Context, email string) (*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("applications.GetByEmail"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	a, ok := r.s.applications[email]
	if !ok {
		return nil, fmt.Errorf("application '%s' not found: %w", email, ErrNotFound)
	}
	out := cloneApplication(a)
	return &out, nil
}

func (r memoryApplications) ListByStatus(_ context.Context, st models.ApplicationStatus) ([]*models.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("applications.ListByStatus"); err != nil {
		return nil, err
	}
	out := make([]*models.Application, 0)
	for _, a := range r.s.applications {
		if a.Status == st {
			aa := cloneApplication(a)
			out = append(out, &aa)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.Before(out[j].AppliedAt) })
	return out, nil
}

// Classes

type memoryClasses struct{ s *MemoryStore }

func (r memoryClasses) Create(_ context.Context, class *models.Class) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("classes.Create"); err != nil {
		return "", err
	}
	class.ID = uuid.NewString()
	class.ClassNameLower = strings.ToLower(class.ClassName)
	if class.TrainerIDs == nil {
		class.TrainerIDs = []string{}
	}
	r.s.classes[class.ID] = cloneClass(*class)
	return class.ID, nil
}

func (r memoryClasses) GetByIDs(_ context.Context, ids []string) ([]*models.Class, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("classes.GetByIDs"); err != nil {
		return nil, err
	}
	out := make([]*models.Class, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.s.classes[id]; ok {
			cc := cloneClass(c)
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r memoryClasses) List(_ context.Context, q models.ClassQuery) ([]*models.Class, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("classes.List"); err != nil {
		return nil, 0, err
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]*models.Class, 0)
	for _, c := range r.s.classes {
		if search == "" || strings.HasPrefix(c.ClassNameLower, search) {
			cc := cloneClass(c)
			matched = append(matched, &cc)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ClassNameLower != matched[j].ClassNameLower {
			return matched[i].ClassNameLower < matched[j].ClassNameLower
		}
		return matched[i].ID < matched[j].ID
	})
	return page(matched, q.Offset, q.Limit), int64(len(matched)), nil
}

func (r memoryClasses) Top(_ context.Context, limit int) ([]*models.Class, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("classes.Top"); err != nil {
		return nil, err
	}
	all := r.s.allClasses()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Bookings > all[j].Bookings })
	return page(all, 0, limit), nil
}

func (r memoryClasses) All(_ context.Context) ([]*models.Class, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("classes.All"); err != nil {
		return nil, err
	}
	return r.s.allClasses(), nil
}

func (s *MemoryStore) allClasses() []*models.Class {
	out := make([]*models.Class, 0, len(s.classes))
	for _, c := range s.classes {
		cc := cloneClass(c)
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Slots

type memorySlots struct{ s *MemoryStore }

func (r memorySlots) GetByID(_ context.Context, slotID string) (*models.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("slots.GetByID"); err != nil {
		return nil, err
	}
	sl, ok := r.s.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("slot '%s' not found: %w", slotID, ErrNotFound)
	}
	out := cloneSlot(sl)
	return &out, nil
}

func (r memorySlots) ListByTrainer(_ context.Context, trainerID string) ([]*models.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("slots.ListByTrainer"); err != nil {
		return nil, err
	}
	out := make([]*models.Slot, 0)
	for _, sl := range r.s.slots {
		if sl.TrainerID == trainerID {
			ss := cloneSlot(sl)
			out = append(out, &ss)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memorySlots) Delete(_ context.Context, slotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("slots.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.slots[slotID]; !ok {
		return fmt.Errorf("slot '%s' not found for deletion: %w", slotID, ErrNotFound)
	}
	delete(r.s.slots, slotID)
	return nil
}

// Forum

type memoryForum struct{ s *MemoryStore }

func (r memoryForum) Create(_ context.Context, post *models.ForumPost) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("forum.Create"); err != nil {
		return "", err
	}
	post.ID = uuid.NewString()
	r.s.posts[post.ID] = *post
	return post.ID, nil
}

func (r memoryForum) List(_ context.Context, offset, limit int) ([]*models.ForumPost, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("forum.List"); err != nil {
		return nil, 0, err
	}
	all := r.s.postsWhere(func(models.ForumPost) bool { return true })
	return page(all, offset, limit), int64(len(all)), nil
}

func (r memoryForum) ListByAuthorType(_ context.Context, authorType models.Role) ([]*models.ForumPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("forum.ListByAuthorType"); err != nil {
		return nil, err
	}
	return r.s.postsWhere(func(p models.ForumPost) bool { return p.AuthorType == authorType }), nil
}

func (r memoryForum) Vote(_ context.Context, postID string, kind models.VoteKind) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("forum.Vote"); err != nil {
		return err
	}
	p, ok := r.s.posts[postID]
	if !ok {
		return fmt.Errorf("forum post '%s' not found: %w", postID, ErrNotFound)
	}
	switch kind {
	case models.VoteUp:
		p.Upvotes++
	case models.VoteDown:
		p.Downvotes++
	default:
		return fmt.Errorf("unknown vote kind %q", kind)
	}
	r.s.posts[postID] = p
	return nil
}

// postsWhere returns matching posts newest first. Caller holds mu.
func (s *MemoryStore) postsWhere(keep func(models.ForumPost) bool) []*models.ForumPost {
	out := make([]*models.ForumPost, 0)
	for _, p := range s.posts {
		if keep(p) {
			pp := p
			out = append(out, &pp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PostedDate.After(out[j].PostedDate) })
	return out
}

// Payments

type memoryPayments struct{ s *MemoryStore }

func (r memoryPayments) LatestByEmail(_ context.Context, email string) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("payments.LatestByEmail"); err != nil {
		return nil, err
	}
	email = models.NormalizeEmail(email)
	var latest *models.Payment
	for _, p := range r.s.payments {
		if p.UserEmail != email {
			continue
		}
		if latest == nil || p.Date.After(latest.Date) {
			pp := clonePayment(p)
			latest = &pp
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no payment for '%s': %w", email, ErrNotFound)
	}
	return latest, nil
}

func (r memoryPayments) Latest(_ context.Context, limit int) ([]*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("payments.Latest"); err != nil {
		return nil, err
	}
	all := make([]*models.Payment, 0, len(r.s.payments))
	for _, p := range r.s.payments {
		pp := clonePayment(p)
		all = append(all, &pp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return page(all, 0, limit), nil
}

func (r memoryPayments) TotalRevenue(_ context.Context) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("payments.TotalRevenue"); err != nil {
		return 0, err
	}
	var total float64
	for _, p := range r.s.payments {
		total += p.Price
	}
	return total, nil
}

// Reviews

type memoryReviews struct{ s *MemoryStore }

func (r memoryReviews) Create(_ context.Context, review *models.Review) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("reviews.Create"); err != nil {
		return "", err
	}
	review.ID = uuid.NewString()
	r.s.reviews[review.ID] = *review
	return review.ID, nil
}

func (r memoryReviews) List(_ context.Context) ([]*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("reviews.List"); err != nil {
		return nil, err
	}
	out := make([]*models.Review, 0, len(r.s.reviews))
	for _, rv := range r.s.reviews {
		rr := rv
		out = append(out, &rr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Subscribers

type memorySubscribers struct{ s *MemoryStore }

func (r memorySubscribers) Create(_ context.Context, sub *models.Subscriber) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("subscribers.Create"); err != nil {
		return "", err
	}
	sub.ID = uuid.NewString()
	r.s.subscribers[sub.ID] = *sub
	return sub.ID, nil
}

func (r memorySubscribers) List(_ context.Context) ([]*models.Subscriber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("subscribers.List"); err != nil {
		return nil, err
	}
	out := make([]*models.Subscriber, 0, len(r.s.subscribers))
	for _, sub := range r.s.subscribers {
		ss := sub
		out = append(out, &ss)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out, nil
}

func (r memorySubscribers) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("subscribers.Count"); err != nil {
		return 0, err
	}
	return int64(len(r.s.subscribers)), nil
}

// Audit

type memoryAudit struct{ s *MemoryStore }

func (r memoryAudit) Create(_ context.Context, logEntry models.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeErr("audit.Create"); err != nil {
		return err
	}
	logEntry.ID = uuid.NewString()
	r.s.auditLogs = append(r.s.auditLogs, logEntry)
	return nil
}

// helpers

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneUser(u models.User) models.User {
	u.Skills = cloneStrings(u.Skills)
	u.AvailableDays = cloneStrings(u.AvailableDays)
	return u
}

func cloneApplication(a models.Application) models.Application {
	a.Skills = cloneStrings(a.Skills)
	a.AvailableDays = cloneStrings(a.AvailableDays)
	if a.AdminFeedback != nil {
		f := *a.AdminFeedback
		a.AdminFeedback = &f
	}
	return a
}

func cloneClass(c models.Class) models.Class {
	c.TrainerIDs = cloneStrings(c.TrainerIDs)
	return c
}

func cloneSlot(s models.Slot) models.Slot {
	s.Days = cloneStrings(s.Days)
	if s.SelectedClasses != nil {
		s.SelectedClasses = append([]models.SelectedClass(nil), s.SelectedClasses...)
	}
	return s
}

func clonePayment(p models.Payment) models.Payment {
	p.ClassesID = cloneStrings(p.ClassesID)
	return p
}
