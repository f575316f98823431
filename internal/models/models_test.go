package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalPatchPromotesToTrainer(t *testing.T) {
	app := &Application{
		UserEmail:     "a@x.com",
		FullName:      "A",
		PhotoURL:      "https://img/a.png",
		Age:           31,
		Skills:        []string{"yoga"},
		AvailableDays: []string{"mon", "wed"},
		Slots:         DefaultApplicationSlots,
	}
	u := &User{Email: "a@x.com", Role: RoleMember, Status: StatusPending, DisplayName: "alice"}

	app.ApprovalPatch().ApplyTo(u)

	assert.Equal(t, RoleTrainer, u.Role)
	assert.Equal(t, StatusApproved, u.Status)
	assert.Equal(t, 10, u.Slots)
	assert.Equal(t, "A", u.FullName)
	assert.Equal(t, 31, u.Age)
	assert.Equal(t, []string{"yoga"}, u.Skills)
	assert.Equal(t, "alice", u.DisplayName, "approval must not overwrite the display name")

	// the user must not alias the application's slices
	app.Skills[0] = "boxing"
	assert.Equal(t, "yoga", u.Skills[0])
}

func TestRejectionPatchStoresFeedback(t *testing.T) {
	app := &Application{UserEmail: "a@x.com", FullName: "A", Age: 20, PhotoURL: "p"}
	u := &User{Email: "a@x.com", Role: RoleMember, Status: StatusPending}

	app.RejectionPatch("incomplete").ApplyTo(u)

	assert.Equal(t, StatusRejected, u.Status)
	assert.Equal(t, "incomplete", u.AdminFeedback)
	assert.Equal(t, "A", u.DisplayName)
	assert.Equal(t, RoleMember, u.Role)
}

func TestUserPatchIsEmpty(t *testing.T) {
	assert.True(t, UserPatch{}.IsEmpty())
	name := "x"
	assert.False(t, UserPatch{FullName: &name}.IsEmpty())
	assert.True(t, UpdateProfileRequest{}.Patch().IsEmpty())
}

func TestSlotClassIDsDeduplicates(t *testing.T) {
	s := &Slot{SelectedClasses: []SelectedClass{{Value: "c1"}, {Value: "c2"}, {Value: "c1"}, {Value: ""}}}
	require.Equal(t, []string{"c1", "c2"}, s.ClassIDs())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
}
