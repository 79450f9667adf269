package articlequery

import (
	"context"
	"fmt"

	"github.com/helixir/newsboard-service/internal/domain"
	"github.com/helixir/newsboard-service/internal/repository"
)

// TopicValidator checks topic filters against the topic registry.
type TopicValidator struct {
	topics repository.TopicRepository
}

// NewTopicValidator creates a validator backed by the given repository.
func NewTopicValidator(topics repository.TopicRepository) *TopicValidator {
	return &TopicValidator{topics: topics}
}

// EnsureTopicExists succeeds without I/O when topic is nil. Otherwise it
// returns a *domain.NotFoundError unless a topic with exactly that slug exists.
func (v *TopicValidator) EnsureTopicExists(ctx context.Context, topic *string) error {
	if topic == nil {
		return nil
	}

	slugs, err := v.topics.ListSlugs(ctx)
	if err != nil {
		return fmt.Errorf("failed to check topic: %w", err)
	}

	for _, slug := range slugs {
		if slug == *topic {
			return nil
		}
	}
	return domain.NewNotFoundError(domain.EntityTopic, *topic)
}
