package lifecycle

import (
	"context"

	"easyorder-core/internal/domain"
)

// StatusStore is the slice of the order store the manager commits through.
type StatusStore interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
}

// EventPublisher fans an event out to the restaurant's staff channel.
// Publish failures never fail a committed transition.
type EventPublisher interface {
	Publish(ctx context.Context, restaurantID string, ev domain.Event) error
}

// AuditSink receives every committed transition for external history keeping.
type AuditSink interface {
	Record(ctx context.Context, msg domain.AuditMessage) error
}
