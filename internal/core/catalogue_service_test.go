package core

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truefit-backend-go/internal/models"
)

func TestClassListPaging(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, name := range []string{"Yoga", "Yin Yoga", "Boxing", "Pilates", "Spin", "Zumba", "Crossfit"} {
		_, err := env.classes.Create(context.Background(), models.CreateClassRequest{ClassName: name})
		require.NoError(t, err)
	}

	page, err := env.classes.List(context.Background(), 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.EqualValues(t, 7, page.TotalCount)
	assert.Len(t, page.Classes, 6)

	page, err = env.classes.List(context.Background(), 2, 6, "")
	require.NoError(t, err)
	assert.Len(t, page.Classes, 1)

	page, err = env.classes.List(context.Background(), 1, 6, "y")
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalCount)
}

func TestListClampsHugePages(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.classes.Create(context.Background(), models.CreateClassRequest{ClassName: "Yoga"})
	require.NoError(t, err)

	page, err := env.classes.List(context.Background(), math.MaxInt, 6, "")
	require.NoError(t, err)
	assert.Empty(t, page.Classes)
	assert.Equal(t, math.MaxInt32/6+1, page.CurrentPage)

	posts, err := env.forum.List(context.Background(), math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, posts.Posts)
	assert.Equal(t, math.MaxInt32/forumPageSize+1, posts.CurrentPage)
}

func TestPageOffsetStaysInInt32(t *testing.T) {
	for _, limit := range []int{1, 6, 100} {
		page, offset := pageOffset(math.MaxInt, limit)
		assert.GreaterOrEqual(t, offset, 0)
		assert.LessOrEqual(t, offset, math.MaxInt32)
		assert.Equal(t, (page-1)*limit, offset)
	}
	page, offset := pageOffset(-3, 6)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)
}

func TestCreateClassDefaults(t *testing.T) {
	env := newTestEnv(t, nil)

	class, err := env.classes.Create(context.Background(), models.CreateClassRequest{ClassName: " Yoga "})
	require.NoError(t, err)
	assert.NotEmpty(t, class.ID)
	assert.Equal(t, "Yoga", class.ClassName)
	assert.Empty(t, class.TrainerIDs)
	assert.Zero(t, class.Bookings)

	_, err = env.classes.Create(context.Background(), models.CreateClassRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddSlotTagsClasses(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.PutUser(models.User{Email: "coach@x.com", Role: models.RoleTrainer, FullName: "Coach"})
	yoga := env.store.PutClass(models.Class{ClassName: "Yoga", TrainerIDs: []string{"other@x.com"}})

	slot, err := env.slots.AddSlot(context.Background(), "coach@x.com", models.AddSlotRequest{
		SlotName:        "Morning",
		SelectedClasses: []models.SelectedClass{{Value: yoga, Label: "Yoga"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "coach@x.com", slot.TrainerID)
	assert.Equal(t, "Coach", slot.TrainerName)

	classes, err := env.repos.Classes.GetByIDs(context.Background(), []string{yoga})
	require.NoError(t, err)
	assert.Equal(t, []string{"other@x.com", "coach@x.com"}, classes[0].TrainerIDs)

	// Adding a second slot must not duplicate the trainer on the class.
	_, err = env.slots.AddSlot(context.Background(), "coach@x.com", models.AddSlotRequest{
		SlotName:        "Evening",
		SelectedClasses: []models.SelectedClass{{Value: yoga}},
	})
	require.NoError(t, err)
	classes, err = env.repos.Classes.GetByIDs(context.Background(), []string{yoga})
	require.NoError(t, err)
	assert.Len(t, classes[0].TrainerIDs, 2)

	slots, err := env.slots.ListByTrainer(context.Background(), "coach@x.com")
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestAddSlotValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.PutUser(models.User{Email: "coach@x.com", Role: models.RoleTrainer})
	yoga := env.store.PutClass(models.Class{ClassName: "Yoga"})

	_, err := env.slots.AddSlot(context.Background(), "coach@x.com", models.AddSlotRequest{
		TrainerID: "other@x.com", SlotName: "s", SelectedClasses: []models.SelectedClass{{Value: yoga}},
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.slots.AddSlot(context.Background(), "coach@x.com", models.AddSlotRequest{SlotName: "s"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.slots.AddSlot(context.Background(), "coach@x.com", models.AddSlotRequest{
		SlotName: "s", SelectedClasses: []models.SelectedClass{{Value: yoga}, {Value: "missing"}},
	})
	assert.ErrorIs(t, err, ErrClassNotFound)

	slots, err := env.slots.ListByTrainer(context.Background(), "coach@x.com")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAddSlotRollsBack(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.PutUser(models.User{Email: "coach@x.com", Role: models.RoleTrainer})
	yoga := env.store.PutClass(models.Class{ClassName: "Yoga"})
	env.store.SetErr("tx.AddTrainerToClasses", errInjected)

	_, err := env.slots.AddSlot(context.Background(), "coach@x.com", models.AddSlotRequest{
		SlotName: "s", SelectedClasses: []models.SelectedClass{{Value: yoga}},
	})
	require.ErrorIs(t, err, errInjected)

	slots, err := env.slots.ListByTrainer(context.Background(), "coach@x.com")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestDeleteSlotOwnerOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	slotID := env.store.PutSlot(models.Slot{TrainerID: "coach@x.com", SlotName: "s"})

	assert.ErrorIs(t, env.slots.Delete(context.Background(), "other@x.com", slotID), ErrForbidden)
	require.NoError(t, env.slots.Delete(context.Background(), "coach@x.com", slotID))
	assert.ErrorIs(t, env.slots.Delete(context.Background(), "coach@x.com", slotID), ErrSlotNotFound)
}

func TestForumPostsAndVotes(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.PutUser(models.User{Email: "coach@x.com", Role: models.RoleTrainer, FullName: "Coach", PhotoURL: "p.png"})
	env.store.PutUser(models.User{Email: "m@x.com", Role: models.RoleMember})

	post, err := env.forum.Create(context.Background(), "coach@x.com", models.CreatePostRequest{Title: "t", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTrainer, post.AuthorType)
	assert.Equal(t, "Coach", post.AuthorName)
	assert.Equal(t, "p.png", post.AuthorImage)

	_, err = env.forum.Create(context.Background(), "m@x.com", models.CreatePostRequest{Title: "t2", Description: "d2"})
	require.NoError(t, err)

	require.NoError(t, env.forum.Vote(context.Background(), post.ID, models.VoteUp))
	require.NoError(t, env.forum.Vote(context.Background(), post.ID, models.VoteUp))
	require.NoError(t, env.forum.Vote(context.Background(), post.ID, models.VoteDown))
	assert.ErrorIs(t, env.forum.Vote(context.Background(), "missing", models.VoteUp), ErrPostNotFound)

	trainerPosts, err := env.forum.TrainerPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, trainerPosts, 1)
	assert.Equal(t, 2, trainerPosts[0].Upvotes)
	assert.Equal(t, 1, trainerPosts[0].Downvotes)

	page, err := env.forum.List(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalPosts)
	assert.Equal(t, 1, page.TotalPages)
}

func TestMembershipStats(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.PutUser(models.User{Email: "m@x.com", Role: models.RoleMember, Subscription: "gold"})
	env.store.PutUser(models.User{Email: "n@x.com", Role: models.RoleMember})

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := env.subscribers.Subscribe(context.Background(), models.SubscribeRequest{Email: email})
		require.NoError(t, err)
	}
	_, err := env.subscribers.Subscribe(context.Background(), models.SubscribeRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	stats, err := env.subscribers.MembershipStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalSubscribers)
	assert.EqualValues(t, 1, stats.TotalPaidMembers)
}

func TestCreateReview(t *testing.T) {
	env := newTestEnv(t, nil)

	review, err := env.reviews.Create(context.Background(), "M@x.com", models.CreateReviewRequest{Rating: 5, Feedback: "great"})
	require.NoError(t, err)
	assert.Equal(t, "m@x.com", review.UserEmail)

	_, err = env.reviews.Create(context.Background(), "m@x.com", models.CreateReviewRequest{Rating: 6, Feedback: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	reviews, err := env.reviews.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}
