package models

import "time"

// Review is a member's rating of a trainer.
type Review struct {
	ID        string    `json:"id" firestore:"-"`
	UserName  string    `json:"userName,omitempty" firestore:"userName,omitempty"`
	UserEmail string    `json:"userEmail" firestore:"userEmail"`
	UserImage string    `json:"userImage,omitempty" firestore:"userImage,omitempty"`
	TrainerID string    `json:"trainerId,omitempty" firestore:"trainerId,omitempty"`
	Rating    int       `json:"rating" firestore:"rating"`
	Feedback  string    `json:"feedback" firestore:"feedback"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
