// Package events publishes lifecycle events to Kafka, best effort. The
// engine never depends on delivery: when no brokers are configured the
// publisher is disabled, and a full buffer drops the event with a warning.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/agendavel/agendavel/libs/kafkax"
)

type pending struct {
	topic   string
	key     string
	value   []byte
	headers []kafka.Header
}

type Publisher struct {
	logger  *slog.Logger
	brokers []string
	buf     chan pending
}

func NewPublisher(logger *slog.Logger, brokers string) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		logger:  logger,
		brokers: kafkax.SplitBrokers(brokers),
		buf:     make(chan pending, 256),
	}
}

func (p *Publisher) Enabled() bool { return len(p.brokers) > 0 }

// Publish enqueues one event. The topic name equals the event type. Never
// blocks the caller.
func (p *Publisher) Publish(ctx context.Context, eventType, aggregateID string, payload map[string]any) {
	if !p.Enabled() {
		return
	}
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to encode event payload", "event_type", eventType, "err", err)
		return
	}
	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(uuid.NewString())},
		{Key: "event_type", Value: []byte(eventType)},
	}
	headers = kafkax.InjectTraceHeaders(ctx, headers)

	select {
	case p.buf <- pending{topic: eventType, key: aggregateID, value: value, headers: headers}:
	default:
		p.logger.Warn("event buffer full, dropping event", "event_type", eventType, "aggregate_id", aggregateID)
	}
}

// Run drains the buffer into Kafka until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	if !p.Enabled() {
		p.logger.Warn("event publisher disabled (no kafka brokers configured)")
		return
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  p.brokers,
		Balancer: &kafka.Hash{},
	})
	defer writer.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.buf:
			msg := kafka.Message{
				Topic:   ev.topic,
				Key:     []byte(ev.key),
				Value:   ev.value,
				Headers: ev.headers,
			}
			if err := writer.WriteMessages(ctx, msg); err != nil {
				p.logger.Error("event publish failed", "topic", ev.topic, "err", err)
			}
		}
	}
}
