package domain

import "time"

type EventType string

const (
	EventOrderCreated EventType = "orderCreated"
	EventOrderUpdated EventType = "orderUpdated"
)

// Event is what staff displays receive on the restaurant channel.
// Order is populated for orderCreated, OrderID/Status for orderUpdated.
type Event struct {
	Type         EventType   `json:"type"`
	RestaurantID string      `json:"restaurant_id"`
	Order        *Order      `json:"order,omitempty"`
	OrderID      string      `json:"order_id,omitempty"`
	Status       OrderStatus `json:"status,omitempty"`
	OccurredAt   time.Time   `json:"occurred_at"`
}

// AuditMessage is emitted to Kafka on every committed status transition.
// Status history itself is an external concern; the engine only publishes.
type AuditMessage struct {
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	OldStatus    string    `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	ChangedBy    string    `json:"changed_by,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
