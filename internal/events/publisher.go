package events

import (
	"context"

	"github.com/helixir/newsboard-service/internal/domain"
)

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, events ...*domain.Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, ...*domain.Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
