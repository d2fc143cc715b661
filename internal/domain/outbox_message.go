package domain

import "time"

type OutboxMessageStatus string

const (
	OutboxStatusPending OutboxMessageStatus = "PENDING"
	OutboxStatusSent    OutboxMessageStatus = "SENT"
	OutboxStatusFailed  OutboxMessageStatus = "FAILED"
)

// OutboxMessage is a payment event recorded in the same transaction as the
// state change it describes, published to Kafka by the outbox processor.
type OutboxMessage struct {
	ID        string
	OrderID   string
	EventType string
	Payload   []byte
	Status    OutboxMessageStatus
	CreatedAt time.Time
	SentAt    *time.Time
}
