package events

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/newsboard-service/internal/domain"
	"github.com/helixir/newsboard-service/internal/observability"
)

// DefaultServiceName identifies this service as the event source.
const DefaultServiceName = "newsboard-service"

// DefaultPublishTimeout bounds how long a write request waits on the broker.
const DefaultPublishTimeout = 2 * time.Second

// EmitParams describes one event to emit.
type EmitParams struct {
	// EventType is one of the domain.EventType* constants.
	EventType string
	// AggregateType is the entity the event is about (domain.Entity*).
	AggregateType string
	// AggregateID identifies the entity.
	AggregateID string
	// Payload is JSON-serialized into the event.
	Payload interface{}
}

// Emitter builds and publishes board events.
type Emitter struct {
	publisher      Publisher
	metrics        *observability.Metrics
	logger         zerolog.Logger
	publishTimeout time.Duration
}

// NewEmitter creates an emitter. A nil publisher discards events.
func NewEmitter(publisher Publisher, metrics *observability.Metrics, logger zerolog.Logger) *Emitter {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Emitter{
		publisher:      publisher,
		metrics:        metrics,
		logger:         observability.WithComponent(logger, "events"),
		publishTimeout: DefaultPublishTimeout,
	}
}

// WithPublishTimeout overrides DefaultPublishTimeout. Non-positive values are
// ignored.
func (e *Emitter) WithPublishTimeout(d time.Duration) *Emitter {
	if d > 0 {
		e.publishTimeout = d
	}
	return e
}

// Emit publishes one event, stamping it with the request's correlation ID.
// The publish outlives request cancellation but not the publish timeout.
// Failures are logged and counted, never returned.
func (e *Emitter) Emit(ctx context.Context, params EmitParams) {
	ev, err := domain.NewEvent(params.EventType, params.AggregateType, params.AggregateID, params.Payload)
	if err != nil {
		e.fail(params.EventType, params.AggregateID, err)
		return
	}
	ev.WithCorrelationID(observability.CorrelationIDFromContext(ctx))

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.publishTimeout)
	defer cancel()

	if err := e.publisher.Publish(pubCtx, ev); err != nil {
		e.fail(params.EventType, params.AggregateID, err)
		return
	}

	e.metrics.RecordEventPublished(params.EventType)
	e.logger.Debug().
		Str("event_id", ev.EventID).
		Str("event_type", ev.EventType).
		Str("aggregate_id", ev.AggregateID).
		Msg("event published")
}

func (e *Emitter) fail(eventType, aggregateID string, err error) {
	e.metrics.RecordEventFailed(eventType)
	e.logger.Warn().
		Err(err).
		Str("event_type", eventType).
		Str("aggregate_id", aggregateID).
		Msg("failed to publish event")
}

// VotesUpdated emits article.votes_updated.
func (e *Emitter) VotesUpdated(ctx context.Context, article *domain.Article, inc int) {
	e.Emit(ctx, EmitParams{
		EventType:     domain.EventTypeArticleVotesUpdated,
		AggregateType: domain.EntityArticle,
		AggregateID:   strconv.Itoa(article.ArticleID),
		Payload: domain.ArticleVotesUpdatedPayload{
			ArticleID: article.ArticleID,
			IncVotes:  inc,
			Votes:     article.Votes,
		},
	})
}

// CommentCreated emits comment.created.
func (e *Emitter) CommentCreated(ctx context.Context, c *domain.Comment) {
	e.Emit(ctx, EmitParams{
		EventType:     domain.EventTypeCommentCreated,
		AggregateType: domain.EntityComment,
		AggregateID:   strconv.Itoa(c.CommentID),
		Payload: domain.CommentCreatedPayload{
			CommentID: c.CommentID,
			ArticleID: c.ArticleID,
			Author:    c.Author,
		},
	})
}

// CommentDeleted emits comment.deleted.
func (e *Emitter) CommentDeleted(ctx context.Context, commentID int) {
	e.Emit(ctx, EmitParams{
		EventType:     domain.EventTypeCommentDeleted,
		AggregateType: domain.EntityComment,
		AggregateID:   strconv.Itoa(commentID),
		Payload:       domain.CommentDeletedPayload{CommentID: commentID},
	})
}
