package models

import "time"

// Class is a group session that trainers can be attached to and members can book.
type Class struct {
	ID             string    `json:"id" firestore:"-"`
	ClassName      string    `json:"className" firestore:"className"`
	ClassNameLower string    `json:"-" firestore:"classNameLower"`
	Details        string    `json:"details,omitempty" firestore:"details,omitempty"`
	Image          string    `json:"image,omitempty" firestore:"image,omitempty"`
	TrainerIDs     []string  `json:"trainerId" firestore:"trainerId"`
	Bookings       int       `json:"bookings" firestore:"bookings"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt"`
}

// ClassQuery filters and pages the class listing.
type ClassQuery struct {
	Search string
	Offset int
	Limit  int
}
