package core

import "errors"

// Service-level errors. Handlers map these to HTTP status codes.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrApplicationPending   = errors.New("application already pending")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrClassNotFound        = errors.New("class not found")
	ErrSlotNotFound         = errors.New("slot not found")
	ErrTrainerNotFound      = errors.New("trainer not found")
	ErrPostNotFound         = errors.New("forum post not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPaymentDuplicate     = errors.New("payment already recorded")
	ErrPaymentNotConfirmed  = errors.New("payment not confirmed by processor")
	ErrPaymentProvider      = errors.New("payment provider error")
	ErrPaymentNotConfigured = errors.New("payment processor not configured")
)
