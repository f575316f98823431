package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truefit-backend-go/internal/models"
)

type bookingFixture struct {
	env      *testEnv
	slotID   string
	classIDs []string
}

func newBookingFixture(t *testing.T, processor PaymentProcessor, trainerSlots int) *bookingFixture {
	t.Helper()
	env := newTestEnv(t, processor)
	env.store.PutUser(models.User{Email: "coach@x.com", Role: models.RoleTrainer, FullName: "Coach", Slots: trainerSlots})
	env.store.PutUser(models.User{Email: "m@x.com", Role: models.RoleMember})
	yoga := env.store.PutClass(models.Class{ClassName: "Yoga", Bookings: 3})
	box := env.store.PutClass(models.Class{ClassName: "Boxing"})
	slotID := env.store.PutSlot(models.Slot{
		TrainerID:       "coach@x.com",
		SlotName:        "Morning",
		SelectedClasses: []models.SelectedClass{{Value: yoga, Label: "Yoga"}, {Value: box, Label: "Boxing"}},
	})
	return &bookingFixture{env: env, slotID: slotID, classIDs: []string{yoga, box}}
}

func (f *bookingFixture) request(paymentID string) models.SavePaymentRequest {
	return models.SavePaymentRequest{
		PaymentID:   paymentID,
		SlotID:      f.slotID,
		SlotName:    "Morning",
		TrainerID:   "coach@x.com",
		TrainerName: "Coach",
		PackageName: "gold",
		Price:       49.5,
		ClassesID:   f.classIDs,
		UserName:    "Mia",
		UserEmail:   "m@x.com",
	}
}

func (f *bookingFixture) bookings(t *testing.T) []int {
	t.Helper()
	classes, err := f.env.repos.Classes.GetByIDs(context.Background(), f.classIDs)
	require.NoError(t, err)
	out := make([]int, 0, len(classes))
	for _, c := range classes {
		out = append(out, c.Bookings)
	}
	return out
}

func TestSavePaymentRecordsBooking(t *testing.T) {
	f := newBookingFixture(t, nil, 10)

	payment, err := f.env.billing.SavePayment(context.Background(), f.request("pi_1"))
	require.NoError(t, err)
	assert.False(t, payment.Date.IsZero())

	assert.Equal(t, []int{4, 1}, f.bookings(t))
	assert.Equal(t, 9, f.env.user(t, "coach@x.com").Slots)
	assert.Equal(t, "gold", f.env.user(t, "m@x.com").Subscription)
	assert.Contains(t, f.env.events.types(), models.EventBookingRecorded)

	logs := f.env.store.AuditLogs()
	require.NotEmpty(t, logs)
	assert.Equal(t, models.AuditPaymentRecord, logs[len(logs)-1].Action)
}

func TestSavePaymentDecrementsBelowZero(t *testing.T) {
	f := newBookingFixture(t, nil, 0)

	_, err := f.env.billing.SavePayment(context.Background(), f.request("pi_1"))
	require.NoError(t, err)
	assert.Equal(t, -1, f.env.user(t, "coach@x.com").Slots)
}

func TestSavePaymentDuplicateIsRejected(t *testing.T) {
	f := newBookingFixture(t, nil, 10)
	_, err := f.env.billing.SavePayment(context.Background(), f.request("pi_1"))
	require.NoError(t, err)

	_, err = f.env.billing.SavePayment(context.Background(), f.request("pi_1"))
	assert.ErrorIs(t, err, ErrPaymentDuplicate)

	assert.Equal(t, []int{4, 1}, f.bookings(t))
	assert.Equal(t, 9, f.env.user(t, "coach@x.com").Slots)
}

func TestSavePaymentDeduplicatesClasses(t *testing.T) {
	f := newBookingFixture(t, nil, 10)
	req := f.request("pi_1")
	req.ClassesID = []string{f.classIDs[0], f.classIDs[0]}

	_, err := f.env.billing.SavePayment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 0}, f.bookings(t))
}

func TestSavePaymentMissingReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SavePaymentRequest)
		want   error
	}{
		{"slot", func(r *models.SavePaymentRequest) { r.SlotID = "nope" }, ErrSlotNotFound},
		{"trainer", func(r *models.SavePaymentRequest) { r.TrainerID = "ghost@x.com" }, ErrTrainerNotFound},
		{"member", func(r *models.SavePaymentRequest) { r.UserEmail = "ghost@x.com" }, ErrUserNotFound},
		{"class", func(r *models.SavePaymentRequest) { r.ClassesID = append(r.ClassesID, "nope") }, ErrClassNotFound},
		{"bad id", func(r *models.SavePaymentRequest) { r.PaymentID = "a/b" }, ErrInvalidInput},
		{"no classes", func(r *models.SavePaymentRequest) { r.ClassesID = nil }, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t, nil, 10)
			req := f.request("pi_1")
			tt.mutate(&req)

			_, err := f.env.billing.SavePayment(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, []int{3, 0}, f.bookings(t))
			assert.Equal(t, 10, f.env.user(t, "coach@x.com").Slots)
		})
	}
}

func TestSavePaymentRollsBackOnFailure(t *testing.T) {
	for _, op := range []string{"tx.CreatePayment", "tx.IncrementClassBookings", "tx.IncrementUserSlots", "tx.UpdateUser", "tx.Commit"} {
		t.Run(op, func(t *testing.T) {
			f := newBookingFixture(t, nil, 10)
			f.env.store.SetErr(op, errInjected)

			_, err := f.env.billing.SavePayment(context.Background(), f.request("pi_1"))
			require.ErrorIs(t, err, errInjected)

			assert.Equal(t, []int{3, 0}, f.bookings(t))
			assert.Equal(t, 10, f.env.user(t, "coach@x.com").Slots)
			assert.Empty(t, f.env.user(t, "m@x.com").Subscription)
			_, err = f.env.billing.GetBooking(context.Background(), "m@x.com", "m@x.com")
			assert.ErrorIs(t, err, ErrBookingNotFound)
		})
	}
}

func TestSavePaymentVerifiesWithProcessor(t *testing.T) {
	processor := &fakeProcessor{succeeded: map[string]bool{"pi_ok": true}}
	f := newBookingFixture(t, processor, 10)

	_, err := f.env.billing.SavePayment(context.Background(), f.request("pi_pending"))
	assert.ErrorIs(t, err, ErrPaymentNotConfirmed)

	_, err = f.env.billing.SavePayment(context.Background(), f.request("pi_ok"))
	assert.NoError(t, err)

	processor.err = errors.New("stripe down")
	_, err = f.env.billing.SavePayment(context.Background(), f.request("pi_other"))
	assert.ErrorIs(t, err, ErrPaymentProvider)
}

func TestCreatePaymentIntent(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.billing.CreatePaymentIntent(context.Background(), 100)
	assert.ErrorIs(t, err, ErrPaymentNotConfigured)

	env = newTestEnv(t, &fakeProcessor{secret: "pi_1_secret"})
	secret, err := env.billing.CreatePaymentIntent(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", secret)

	_, err = env.billing.CreatePaymentIntent(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBookingJoinsLatestPayment(t *testing.T) {
	f := newBookingFixture(t, nil, 10)
	f.env.store.PutPayment(models.Payment{
		PaymentID: "old", UserEmail: "m@x.com", SlotID: f.slotID, TrainerID: "coach@x.com",
		ClassesID: f.classIDs[:1], Date: time.Now().Add(-time.Hour),
	})
	_, err := f.env.billing.SavePayment(context.Background(), f.request("pi_new"))
	require.NoError(t, err)

	booking, err := f.env.billing.GetBooking(context.Background(), "m@x.com", "m@x.com")
	require.NoError(t, err)
	assert.Equal(t, "pi_new", booking.Payment.PaymentID)
	require.NotNil(t, booking.Slot)
	assert.Equal(t, f.slotID, booking.Slot.ID)
	require.NotNil(t, booking.Trainer)
	assert.Equal(t, "Coach", booking.Trainer.FullName)
	assert.Len(t, booking.Classes, 2)
}

func TestGetBookingAccess(t *testing.T) {
	f := newBookingFixture(t, nil, 10)
	_, err := f.env.billing.SavePayment(context.Background(), f.request("pi_1"))
	require.NoError(t, err)

	_, err = f.env.billing.GetBooking(context.Background(), "coach@x.com", "m@x.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.env.billing.GetBooking(context.Background(), adminEmail, "m@x.com")
	assert.NoError(t, err)

	_, err = f.env.billing.GetBooking(context.Background(), "coach@x.com", "coach@x.com")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestFinancialOverview(t *testing.T) {
	env := newTestEnv(t, nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		env.store.PutPayment(models.Payment{
			PaymentID: string(rune('a' + i)),
			UserEmail: "m@x.com",
			Price:     10,
			Date:      base.Add(time.Duration(i) * time.Hour),
		})
	}

	overview, err := env.billing.FinancialOverview(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 80.0, overview.TotalBalance, 0.001)
	require.Len(t, overview.LatestTransactions, 6)
	assert.Equal(t, "h", overview.LatestTransactions[0].PaymentID)
}
