package repository

import (
	"context"

	"github.com/helixir/newsboard-service/internal/domain"
)

// ArticleFilter selects and orders the article list.
type ArticleFilter struct {
	// Topic restricts the list to one topic slug when non-nil.
	Topic *string
	// SortBy must be one of domain.SortColumns.
	SortBy domain.SortColumn
	// Order must be domain.SortAsc or domain.SortDesc.
	Order domain.SortOrder
}

// ArticleRepository reads and updates articles.
type ArticleRepository interface {
	// ListSummaries returns every article matching the filter in list form,
	// with comment_count aggregated from the comment table. Rows are ordered
	// by the requested column and direction, then by article_id ascending.
	// An unknown SortBy or Order yields a *domain.QueryParamError before any
	// query is issued.
	ListSummaries(ctx context.Context, filter ArticleFilter) ([]*domain.ArticleSummary, error)

	// GetByID returns the full article, body included.
	// Returns domain.ErrNotFound if no matching article exists.
	GetByID(ctx context.Context, id int) (*domain.Article, error)

	// IncrementVotes adds inc (which may be negative) to the article's votes
	// in a single statement and returns the updated article.
	// Returns domain.ErrNotFound if no matching article exists.
	IncrementVotes(ctx context.Context, id, inc int) (*domain.Article, error)
}
