package models

import "time"

// VoteKind selects which counter a forum vote increments.
type VoteKind string

const (
	VoteUp   VoteKind = "upvotes"
	VoteDown VoteKind = "downvotes"
)

// ForumPost is a community post written by a member, trainer or admin.
type ForumPost struct {
	ID          string    `json:"id" firestore:"-"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Image       string    `json:"image,omitempty" firestore:"image,omitempty"`
	AuthorName  string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	AuthorEmail string    `json:"authorEmail" firestore:"authorEmail"`
	AuthorImage string    `json:"authorImage,omitempty" firestore:"authorImage,omitempty"`
	AuthorType  Role      `json:"authorType" firestore:"authorType"`
	Upvotes     int       `json:"upvotes" firestore:"upvotes"`
	Downvotes   int       `json:"downvotes" firestore:"downvotes"`
	PostedDate  time.Time `json:"postedDate" firestore:"postedDate"`
}
