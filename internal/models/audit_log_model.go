package models

import "time"

// AuditLog records an administrative or financial action.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp"`
	Actor      string                 `json:"actor" firestore:"actor"`   // email of who performed the action
	Action     string                 `json:"action" firestore:"action"` // e.g. "APPLICATION_APPROVE", "PAYMENT_RECORD"
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}

const (
	AuditApplicationSubmit  = "APPLICATION_SUBMIT"
	AuditApplicationApprove = "APPLICATION_APPROVE"
	AuditApplicationReject  = "APPLICATION_REJECT"
	AuditTrainerDemote      = "TRAINER_DEMOTE"
	AuditPaymentRecord      = "PAYMENT_RECORD"
)
