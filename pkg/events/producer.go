package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicShopEvents = "shop_events"

	TypeUserRegistered = "user_registered"
	TypeSweetCreated   = "sweet_created"
	TypeSweetUpdated   = "sweet_updated"
	TypeSweetDeleted   = "sweet_deleted"
	TypeOrderPlaced    = "order_placed"
	TypeOrderStatus    = "order_status_changed"
)

// Publisher is what the services depend on; tests substitute a recorder and
// deployments without Kafka run with a nil *Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, key string, event map[string]any) error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) PublishEvent(ctx context.Context, key string, event map[string]any) error {
	if p == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("events: write: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
