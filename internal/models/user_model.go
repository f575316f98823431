package models

import (
	"strings"
	"time"
)

// Role is the capability level of a user.
type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// ApplicationStatus tracks where a user is in the trainer application workflow.
// The empty value means the user never applied.
type ApplicationStatus string

const (
	StatusNone     ApplicationStatus = ""
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// User represents a member, trainer or admin of the platform.
// The normalized email is the document ID.
type User struct {
	ID            string            `json:"id" firestore:"-"`
	Email         string            `json:"email" firestore:"email"`
	DisplayName   string            `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	FullName      string            `json:"fullName,omitempty" firestore:"fullName,omitempty"`
	PhotoURL      string            `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	AuthMethod    string            `json:"authMethod,omitempty" firestore:"authMethod,omitempty"`
	Role          Role              `json:"role" firestore:"role"`
	Status        ApplicationStatus `json:"status,omitempty" firestore:"status,omitempty"`
	Subscription  string            `json:"subscription,omitempty" firestore:"subscription,omitempty"`
	Slots         int               `json:"slots" firestore:"slots"`
	Age           int               `json:"age,omitempty" firestore:"age,omitempty"`
	AboutInfo     string            `json:"aboutInfo,omitempty" firestore:"aboutInfo,omitempty"`
	Experience    string            `json:"experience,omitempty" firestore:"experience,omitempty"`
	Skills        []string          `json:"skills,omitempty" firestore:"skills,omitempty"`
	AvailableDays []string          `json:"availableDays,omitempty" firestore:"availableDays,omitempty"`
	AvailableTime string            `json:"availableTime,omitempty" firestore:"availableTime,omitempty"`
	Linkedin      string            `json:"linkedin,omitempty" firestore:"linkedin,omitempty"`
	Instagram     string            `json:"instagram,omitempty" firestore:"instagram,omitempty"`
	AdminFeedback string            `json:"adminFeedback,omitempty" firestore:"adminFeedback,omitempty"`
	CreatedAt     time.Time         `json:"createdAt" firestore:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt" firestore:"updatedAt"`
	LastLogin     time.Time         `json:"lastLogin" firestore:"lastLogin"`
}

// NormalizeEmail lower-cases and trims an email so it can be used as a document key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserPatch is a partial update of a User. Nil fields are left untouched.
type UserPatch struct {
	DisplayName   *string
	FullName      *string
	PhotoURL      *string
	AuthMethod    *string
	Role          *Role
	Status        *ApplicationStatus
	Subscription  *string
	Slots         *int
	Age           *int
	AboutInfo     *string
	Experience    *string
	Skills        *[]string
	AvailableDays *[]string
	AvailableTime *string
	Linkedin      *string
	Instagram     *string
	AdminFeedback *string
	LastLogin     *time.Time
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.DisplayName == nil && p.FullName == nil && p.PhotoURL == nil &&
		p.AuthMethod == nil && p.Role == nil && p.Status == nil &&
		p.Subscription == nil && p.Slots == nil && p.Age == nil &&
		p.AboutInfo == nil && p.Experience == nil && p.Skills == nil &&
		p.AvailableDays == nil && p.AvailableTime == nil && p.Linkedin == nil &&
		p.Instagram == nil && p.AdminFeedback == nil && p.LastLogin == nil
}

// ApplyTo copies every set field of the patch onto u.
func (p UserPatch) ApplyTo(u *User) {
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.AuthMethod != nil {
		u.AuthMethod = *p.AuthMethod
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Subscription != nil {
		u.Subscription = *p.Subscription
	}
	if p.Slots != nil {
		u.Slots = *p.Slots
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.AboutInfo != nil {
		u.AboutInfo = *p.AboutInfo
	}
	if p.Experience != nil {
		u.Experience = *p.Experience
	}
	if p.Skills != nil {
		u.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.AvailableDays != nil {
		u.AvailableDays = append([]string(nil), (*p.AvailableDays)...)
	}
	if p.AvailableTime != nil {
		u.AvailableTime = *p.AvailableTime
	}
	if p.Linkedin != nil {
		u.Linkedin = *p.Linkedin
	}
	if p.Instagram != nil {
		u.Instagram = *p.Instagram
	}
	if p.AdminFeedback != nil {
		u.AdminFeedback = *p.AdminFeedback
	}
	if p.LastLogin != nil {
		u.LastLogin = *p.LastLogin
	}
}
