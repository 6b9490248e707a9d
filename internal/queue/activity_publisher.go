package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Publisher records relay activity.
type Publisher interface {
	Publish(ctx context.Context, msg ActivityMessage) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ActivityPublisher publishes activity records to Kafka.
type ActivityPublisher struct {
	writer messageWriter
}

// NewActivityPublisher constructs a publisher for the given topic.
func NewActivityPublisher(k *Kafka, topic string) *ActivityPublisher {
	return &ActivityPublisher{writer: k.NewWriter(topic)}
}

// Publish emits an activity message to Kafka.
func (p *ActivityPublisher) Publish(ctx context.Context, msg ActivityMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("activity publisher: marshal message: %w", err)
	}
	record := kafka.Message{
		Key:   msg.Key(),
		Value: value,
		Time:  msg.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(msg.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, record); err != nil {
		return fmt.Errorf("activity publisher: write message: %w", err)
	}
	return nil
}

// Close closes the publisher.
func (p *ActivityPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every message. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ActivityMessage) error { return nil }

func (NopPublisher) Close() error { return nil }
