package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"easyorder-core/internal/domain"
)

// Bridge mirrors channel events through a RabbitMQ topic exchange so staff
// connected to another engine instance converge on the same feed. Routing
// keys are restaurant-scoped: restaurant.<id>.<eventType>.
type Bridge struct {
	conn       *amqp.Connection
	pubCh      *amqp.Channel
	exchange   string
	instanceID string
}

func NewBridge(url, exchange, instanceID string) (*Bridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Bridge{conn: conn, pubCh: ch, exchange: exchange, instanceID: instanceID}, nil
}

func (b *Bridge) Publish(ctx context.Context, restaurantID string, ev domain.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	key := fmt.Sprintf("restaurant.%s.%s", restaurantID, ev.Type)
	return b.pubCh.PublishWithContext(ctx, b.exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Transient,
		ContentType:  "application/json",
		Timestamp:    time.Now(),
		Body:         body,
		Headers:      amqp.Table{"x-engine-id": b.instanceID},
	})
}

// Consume binds an exclusive queue to the exchange and replays remote events
// into the local hub. Events published by this same instance are skipped so
// local connections do not see them twice. Blocks until ctx is cancelled or
// the delivery channel closes.
func (b *Bridge) Consume(ctx context.Context, hub *Hub) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "restaurant.#", b.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if origin, _ := d.Headers["x-engine-id"].(string); origin == b.instanceID {
				continue
			}
			var ev domain.Event
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				log.Printf("bridge: dropping malformed event: %v", err)
				continue
			}
			_ = hub.Publish(ctx, ev.RestaurantID, ev)
		}
	}
}

func (b *Bridge) Close() {
	if b.pubCh != nil {
		_ = b.pubCh.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
}
