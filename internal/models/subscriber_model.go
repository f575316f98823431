package models

import "time"

// Subscriber is a newsletter sign-up. Subscribers need not have an account.
type Subscriber struct {
	ID           string    `json:"id" firestore:"-"`
	Name         string    `json:"name,omitempty" firestore:"name,omitempty"`
	Email        string    `json:"email" firestore:"email"`
	SubscribedAt time.Time `json:"subscribedAt" firestore:"subscribedAt"`
}

// MembershipStats compares newsletter subscribers with paying members.
type MembershipStats struct {
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalPaidMembers int64 `json:"totalPaidMembers"`
}
