package models

import "time"

// EventType names a notification published after a state change has been committed.
type EventType string

const (
	EventApplicationSubmitted EventType = "application.submitted"
	EventApplicationApproved  EventType = "application.approved"
	EventApplicationRejected  EventType = "application.rejected"
	EventBookingRecorded      EventType = "booking.recorded"
)

// Event is the payload carried on the notification queue.
type Event struct {
	Type       EventType         `json:"type"`
	Email      string            `json:"email"`
	Name       string            `json:"name,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data,omitempty"`
}
