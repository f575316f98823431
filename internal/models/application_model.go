package models

import "time"

// DefaultApplicationSlots is the bookable slot quota granted to a new trainer.
const DefaultApplicationSlots = 10

// Application is a member's request to become a trainer.
// It is keyed by the applicant email and removed once an admin decides on it.
type Application struct {
	ID            string            `json:"id" firestore:"-"`
	UserEmail     string            `json:"userEmail" firestore:"userEmail"`
	FullName      string            `json:"fullName" firestore:"fullName"`
	PhotoURL      string            `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Age           int               `json:"age,omitempty" firestore:"age,omitempty"`
	AboutInfo     string            `json:"aboutInfo,omitempty" firestore:"aboutInfo,omitempty"`
	Experience    string            `json:"experience,omitempty" firestore:"experience,omitempty"`
	Skills        []string          `json:"skills,omitempty" firestore:"skills,omitempty"`
	AvailableDays []string          `json:"availableDays,omitempty" firestore:"availableDays,omitempty"`
	AvailableTime string            `json:"availableTime,omitempty" firestore:"availableTime,omitempty"`
	Linkedin      string            `json:"linkedin,omitempty" firestore:"linkedin,omitempty"`
	Instagram     string            `json:"instagram,omitempty" firestore:"instagram,omitempty"`
	Slots         int               `json:"slots" firestore:"slots"`
	Status        ApplicationStatus `json:"status" firestore:"status"`
	AdminFeedback *string           `json:"adminFeedback" firestore:"adminFeedback"`
	AppliedAt     time.Time         `json:"appliedAt" firestore:"appliedAt"`
}

// ApprovalPatch is the update applied to the applicant's User when an admin approves.
func (a *Application) ApprovalPatch() UserPatch {
	role := RoleTrainer
	status := StatusApproved
	slots := a.Slots
	age := a.Age
	skills := append([]string(nil), a.Skills...)
	days := append([]string(nil), a.AvailableDays...)
	return UserPatch{
		PhotoURL:      &a.PhotoURL,
		FullName:      &a.FullName,
		Age:           &age,
		AboutInfo:     &a.AboutInfo,
		Linkedin:      &a.Linkedin,
		Instagram:     &a.Instagram,
		Experience:    &a.Experience,
		Skills:        &skills,
		AvailableDays: &days,
		AvailableTime: &a.AvailableTime,
		Slots:         &slots,
		Role:          &role,
		Status:        &status,
	}
}

// RejectionPatch is the update applied to the applicant's User when an admin rejects.
func (a *Application) RejectionPatch(feedback string) UserPatch {
	status := StatusRejected
	age := a.Age
	return UserPatch{
		DisplayName:   &a.FullName,
		Age:           &age,
		PhotoURL:      &a.PhotoURL,
		Status:        &status,
		AdminFeedback: &feedback,
	}
}
