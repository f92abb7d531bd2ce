package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher delivers an encoded event. key keeps one user's events ordered.
type Publisher interface {
	Publish(ctx context.Context, eventType string, key string, payload []byte) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher writes every event type to one topic; the type travels in
// the event-type header.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
		},
		topic: topic,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, message(eventType, key, payload, time.Now().UTC()))
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

func message(eventType, key string, payload []byte, at time.Time) kafka.Message {
	return kafka.Message{
		Key:     []byte(key),
		Value:   payload,
		Time:    at,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(eventType)}},
	}
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With("component", "events.log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, eventType string, key string, payload []byte) error {
	p.logger.InfoContext(ctx, "event published",
		"event_type", eventType,
		"key", key,
		"payload", string(payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
