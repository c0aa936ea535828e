package channel

import (
	"context"

	"easyorder-core/internal/domain"
)

// Publisher matches lifecycle.EventPublisher without importing it.
type Publisher interface {
	Publish(ctx context.Context, restaurantID string, ev domain.Event) error
}

// Fanout publishes to every target in order and reports the first failure.
// The local hub comes first so in-process staff see the event even when the
// broker is down.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, restaurantID string, ev domain.Event) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, restaurantID, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
