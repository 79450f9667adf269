package repository

import (
	"context"

	"github.com/helixir/newsboard-service/internal/domain"
)

// TopicRepository reads topics.
type TopicRepository interface {
	// List returns every topic ordered by slug.
	List(ctx context.Context) ([]*domain.Topic, error)

	// ListSlugs returns the slug of every topic.
	ListSlugs(ctx context.Context) ([]string, error)
}
