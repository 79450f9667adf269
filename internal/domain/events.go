package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event type constants for board events.
const (
	EventTypeArticleVotesUpdated = "article.votes_updated"
	EventTypeCommentCreated      = "comment.created"
	EventTypeCommentDeleted      = "comment.deleted"
)

// Event is a domain event published after a successful write.
type Event struct {
	EventID       string
	EventVersion  int
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       []byte
	CorrelationID string
	CreatedAt     time.Time
}

// NewEvent creates a new event with the given parameters.
// The payload is JSON-serialized automatically.
func NewEvent(eventType, aggregateType, aggregateID string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		EventID:       uuid.New().String(),
		EventVersion:  1,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payloadBytes,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// WithCorrelationID sets the request correlation ID on the event.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// ArticleVotesUpdatedPayload is the payload for article.votes_updated events.
type ArticleVotesUpdatedPayload struct {
	ArticleID int `json:"article_id"`
	IncVotes  int `json:"inc_votes"`
	Votes     int `json:"votes"`
}

// CommentCreatedPayload is the payload for comment.created events.
type CommentCreatedPayload struct {
	CommentID int    `json:"comment_id"`
	ArticleID int    `json:"article_id"`
	Author    string `json:"author"`
}

// CommentDeletedPayload is the payload for comment.deleted events.
type CommentDeletedPayload struct {
	CommentID int `json:"comment_id"`
}
