package articlequery

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/helixir/newsboard-service/internal/domain"
	"github.com/helixir/newsboard-service/internal/repository"
)

// ListArticlesRequest carries the raw collection query values. Empty strings
// mean the parameter was omitted; a nil Topic means no topic filter.
type ListArticlesRequest struct {
	Topic  *string
	SortBy string
	Order  string
	Limit  string
	Page   string
}

// ArticleList is one page of the article collection.
type ArticleList struct {
	Articles   []*domain.ArticleSummary `json:"articles"`
	TotalCount int                      `json:"total_count"`
}

// Engine orchestrates the article collection query.
type Engine struct {
	articles repository.ArticleRepository
	topics   *TopicValidator
	logger   zerolog.Logger
}

// NewEngine wires the engine to its repositories.
func NewEngine(articles repository.ArticleRepository, topics repository.TopicRepository, logger zerolog.Logger) *Engine {
	return &Engine{
		articles: articles,
		topics:   NewTopicValidator(topics),
		logger:   logger.With().Str("component", "articlequery").Logger(),
	}
}

// ListArticles validates every parameter, then checks the topic and fetches
// the ordered list concurrently, then windows the list.
func (e *Engine) ListArticles(ctx context.Context, req ListArticlesRequest) (*ArticleList, error) {
	sortBy, err := ParseSort(req.SortBy)
	if err != nil {
		return nil, err
	}
	order, err := ParseOrder(req.Order)
	if err != nil {
		return nil, err
	}
	window, err := ParseWindow(req.Limit, req.Page)
	if err != nil {
		return nil, err
	}

	filter := repository.ArticleFilter{
		Topic:  req.Topic,
		SortBy: sortBy,
		Order:  order,
	}

	rows, err := FetchChecked(ctx,
		func(ctx context.Context) error {
			return e.topics.EnsureTopicExists(ctx, req.Topic)
		},
		func(ctx context.Context) ([]*domain.ArticleSummary, error) {
			return e.articles.ListSummaries(ctx, filter)
		},
	)
	if err != nil {
		return nil, err
	}

	page, err := Paginate(rows, window)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("sort_by", string(sortBy)).
		Str("order", string(order)).
		Int("returned", len(page.Items)).
		Int("total_count", page.TotalCount).
		Msg("article list served")

	return &ArticleList{
		Articles:   page.Items,
		TotalCount: page.TotalCount,
	}, nil
}
