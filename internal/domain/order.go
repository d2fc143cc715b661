package domain

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrOrderAlreadyProcessed = errors.New("order already processed")

// Order is one payment attempt against the gateway. Each gateway order id gets
// its own row; completing an order is a one-way transition from pending.
type Order struct {
	ID          string
	GatewayID   string
	UserID      int64
	PlanType    string
	AmountMinor int64
	Currency    string
	PaymentID   string
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
