package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"easyorder-core/internal/domain"
)

// KafkaPublisher emits every committed status transition to Kafka. The engine
// keeps no status history itself; downstream consumers own the audit trail.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Record(ctx context.Context, msg domain.AuditMessage) error {
	payload, _ := json.Marshal(msg)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.OrderID),
		Value: payload,
	})
}
