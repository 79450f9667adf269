package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/helixir/newsboard-service/internal/config"
	"github.com/helixir/newsboard-service/internal/domain"
)

// Kafka header names set on every message.
const (
	HeaderEventType     = "event_type"
	HeaderCorrelationID = "correlation_id"
	HeaderSource        = "source"
)

// messageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON value written for each event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventVersion  int             `json:"event_version"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Source        string          `json:"source"`
	CreatedAt     time.Time       `json:"created_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaPublisher writes events to a single Kafka topic keyed by aggregate ID,
// so events for one article or comment stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	source string
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher from configuration.
func NewKafkaPublisher(cfg config.KafkaConfig, source string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: false,
	}
	return newKafkaPublisher(w, source)
}

func newKafkaPublisher(w messageWriter, source string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, source: source}
}

// Publish writes all events in one call.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...*domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		msg, err := p.message(ev)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write events to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) message(ev *domain.Event) (kafka.Message, error) {
	value, err := json.Marshal(Envelope{
		EventID:       ev.EventID,
		EventVersion:  ev.EventVersion,
		EventType:     ev.EventType,
		AggregateType: ev.AggregateType,
		AggregateID:   ev.AggregateID,
		CorrelationID: ev.CorrelationID,
		Source:        p.source,
		CreatedAt:     ev.CreatedAt,
		Payload:       ev.Payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event envelope: %w", err)
	}

	headers := []kafka.Header{
		{Key: HeaderEventType, Value: []byte(ev.EventType)},
		{Key: HeaderSource, Value: []byte(p.source)},
	}
	if ev.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: HeaderCorrelationID, Value: []byte(ev.CorrelationID)})
	}

	return kafka.Message{
		Key:     []byte(ev.AggregateType + ":" + ev.AggregateID),
		Value:   value,
		Headers: headers,
		Time:    ev.CreatedAt,
	}, nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
