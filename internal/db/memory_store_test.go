package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truefit-backend-go/internal/models"
)

func TestMemoryUsersCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryStore().Repositories()

	user := &models.User{Email: "  Ann@Example.com ", Role: models.RoleMember}
	require.NoError(t, repos.Users.Create(ctx, user))
	assert.Equal(t, "ann@example.com", user.ID)

	err := repos.Users.Create(ctx, &models.User{Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := repos.Users.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, got.Role)

	_, err = repos.Users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsersUpdateMissing(t *testing.T) {
	repos := NewMemoryStore().Repositories()
	name := "x"
	err := repos.Users.Update(context.Background(), "ghost@example.com", models.UserPatch{DisplayName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTopTrainersAndPaidMembers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(models.User{Email: "a@x.com", Role: models.RoleTrainer, Slots: 5})
	store.PutUser(models.User{Email: "b@x.com", Role: models.RoleTrainer, Slots: -1})
	store.PutUser(models.User{Email: "c@x.com", Role: models.RoleTrainer, Slots: 3})
	store.PutUser(models.User{Email: "d@x.com", Role: models.RoleMember, Subscription: "gold"})
	store.PutUser(models.User{Email: "e@x.com", Role: models.RoleMember})
	repos := store.Repositories()

	top, err := repos.Users.ListTopTrainers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b@x.com", top[0].Email)
	assert.Equal(t, "c@x.com", top[1].Email)

	n, err := repos.Users.CountPaidMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryClassListSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, name := range []string{"Yoga Flow", "yoga basics", "Boxing", "Pilates", "Yin Yoga"} {
		store.PutClass(models.Class{ClassName: name})
	}
	repos := store.Repositories()

	classes, total, err := repos.Classes.List(ctx, models.ClassQuery{Search: "YOGA", Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, classes, 2)
	assert.Equal(t, "yoga basics", classes[0].ClassName)

	classes, total, err = repos.Classes.List(ctx, models.ClassQuery{Offset: 3, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, classes, 2)

	classes, _, err = repos.Classes.List(ctx, models.ClassQuery{Offset: 10, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestMemoryForumVote(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryStore().Repositories()

	id, err := repos.Forum.Create(ctx, &models.ForumPost{Title: "t", AuthorType: models.RoleTrainer, PostedDate: time.Now()})
	require.NoError(t, err)

	require.NoError(t, repos.Forum.Vote(ctx, id, models.VoteUp))
	require.NoError(t, repos.Forum.Vote(ctx, id, models.VoteUp))
	require.NoError(t, repos.Forum.Vote(ctx, id, models.VoteDown))
	assert.ErrorIs(t, repos.Forum.Vote(ctx, "missing", models.VoteUp), ErrNotFound)

	posts, total, err := repos.Forum.List(ctx, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.Equal(t, 2, posts[0].Upvotes)
	assert.Equal(t, 1, posts[0].Downvotes)
}

func TestMemoryTransactionCommits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(models.User{Email: "t@x.com", Role: models.RoleTrainer, Slots: 0})
	classID := store.PutClass(models.Class{ClassName: "Boxing"})
	repos := store.Repositories()

	err := repos.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.GetClasses([]string{classID}); err != nil {
			return err
		}
		if err := tx.CreatePayment(&models.Payment{PaymentID: "pi_1", UserEmail: "m@x.com"}); err != nil {
			return err
		}
		if err := tx.IncrementClassBookings([]string{classID}, 1); err != nil {
			return err
		}
		return tx.IncrementUserSlots("t@x.com", -1)
	})
	require.NoError(t, err)

	trainer, err := repos.Users.GetByEmail(ctx, "t@x.com")
	require.NoError(t, err)
	assert.Equal(t, -1, trainer.Slots)

	classes, err := repos.Classes.GetByIDs(ctx, []string{classID})
	require.NoError(t, err)
	assert.Equal(t, 1, classes[0].Bookings)
}

func TestMemoryTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(models.User{Email: "a@x.com", Role: models.RoleMember})
	repos := store.Repositories()

	boom := errors.New("boom")
	store.SetErr("tx.DeleteApplication", boom)

	err := repos.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.CreateApplication(&models.Application{UserEmail: "a@x.com", Status: models.StatusPending}); err != nil {
			return err
		}
		status := models.StatusPending
		if err := tx.UpdateUser("a@x.com", models.UserPatch{Status: &status}); err != nil {
			return err
		}
		return tx.DeleteApplication("a@x.com")
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.Applications.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	user, err := repos.Users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNone, user.Status)
}

func TestMemoryTransactionCommitFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repos := store.Repositories()
	store.SetErr("tx.Commit", errors.New("aborted"))

	err := repos.Transactor.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		return tx.CreatePayment(&models.Payment{PaymentID: "pi_9"})
	})
	require.Error(t, err)

	_, err = repos.Payments.Latest(ctx, 10)
	require.NoError(t, err)
	total, err := repos.Payments.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemoryTransactionRejectsReadAfterWrite(t *testing.T) {
	store := NewMemoryStore()
	store.PutUser(models.User{Email: "a@x.com"})

	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		if err := tx.IncrementUserSlots("a@x.com", 1); err != nil {
			return err
		}
		_, err := tx.GetUser("a@x.com")
		return err
	})
	assert.ErrorIs(t, err, errReadAfterWrite)
}

func TestMemoryDuplicatePayment(t *testing.T) {
	store := NewMemoryStore()
	store.PutPayment(models.Payment{PaymentID: "pi_1", UserEmail: "m@x.com"})

	err := store.RunInTransaction(context.Background(), func(ctx context.Context, tx Tx) error {
		return tx.CreatePayment(&models.Payment{PaymentID: "pi_1"})
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestMemoryAddTrainerToClassesIsASet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	id := store.PutClass(models.Class{ClassName: "Spin", TrainerIDs: []string{"t@x.com"}})

	for i := 0; i < 2; i++ {
		err := store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
			return tx.AddTrainerToClasses("u@x.com", []string{id})
		})
		require.NoError(t, err)
	}

	classes, err := store.Repositories().Classes.GetByIDs(ctx, []string{id})
	require.NoError(t, err)
	assert.Equal(t, []string{"t@x.com", "u@x.com"}, classes[0].TrainerIDs)
}

func TestMemoryLatestPaymentByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.PutPayment(models.Payment{PaymentID: "old", UserEmail: "m@x.com", Price: 10, Date: now.Add(-time.Hour)})
	store.PutPayment(models.Payment{PaymentID: "new", UserEmail: "M@x.com", Price: 20, Date: now})
	repos := store.Repositories()

	p, err := repos.Payments.LatestByEmail(ctx, "m@x.com")
	require.NoError(t, err)
	assert.Equal(t, "new", p.PaymentID)

	total, err := repos.Payments.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, total, 1e-9)

	_, err = repos.Payments.LatestByEmail(ctx, "none@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySetErrIsOneShot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetErr("subscribers.Count", errors.New("boom"))
	repos := store.Repositories()

	_, err := repos.Subscribers.Count(ctx)
	require.Error(t, err)
	n, err := repos.Subscribers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
