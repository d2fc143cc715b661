package domain

import "time"

const EventTypePaymentCompleted = "payment.completed"

// PaymentCompletedEvent is published after a verified payment credits a user.
// It is the reconciliation trail for orders completed at the gateway.
type PaymentCompletedEvent struct {
	OrderID        string    `json:"order_id"`
	PaymentID      string    `json:"payment_id"`
	UserID         int64     `json:"user_id"`
	PlanType       string    `json:"plan_type"`
	AmountMinor    int64     `json:"amount_minor"`
	Currency       string    `json:"currency"`
	CreditsGranted int       `json:"credits_granted"`
	Timestamp      time.Time `json:"timestamp"`
}
