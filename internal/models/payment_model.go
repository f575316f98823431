package models

import "time"

// Payment records a completed booking paid through the payment processor.
// PaymentID is the processor's identifier and the document ID.
type Payment struct {
	PaymentID   string    `json:"paymentId" firestore:"paymentId"`
	TrainerName string    `json:"trainerName,omitempty" firestore:"trainerName,omitempty"`
	SlotName    string    `json:"slotName,omitempty" firestore:"slotName,omitempty"`
	SlotID      string    `json:"slotId" firestore:"slotId"`
	TrainerID   string    `json:"trainerId" firestore:"trainerId"`
	PackageName string    `json:"packageName" firestore:"packageName"`
	Price       float64   `json:"price" firestore:"price"`
	ClassesID   []string  `json:"classesId" firestore:"classesId"`
	UserName    string    `json:"userName,omitempty" firestore:"userName,omitempty"`
	UserEmail   string    `json:"userEmail" firestore:"userEmail"`
	Date        time.Time `json:"date" firestore:"date"`
}

// Booking is the joined view of a member's latest payment.
type Booking struct {
	Payment *Payment `json:"bookingResult"`
	Slot    *Slot    `json:"slotResult"`
	Trainer *User    `json:"trainerResult"`
	Classes []*Class `json:"classResult"`
}

// FinancialOverview summarizes revenue for the admin dashboard.
type FinancialOverview struct {
	LatestTransactions []*Payment `json:"latestTransactions"`
	TotalBalance       float64    `json:"totalBalance"`
}
