package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/newsboard-service/internal/domain"
)

// Compile-time interface verification.
var _ ArticleRepository = (*PgArticleRepository)(nil)

// articleSortFragments maps every sortable column to a fixed ORDER BY
// expression. Identifiers are never built from request input.
var articleSortFragments = map[domain.SortColumn]string{
	domain.SortByAuthor:        "a.author",
	domain.SortByArticleID:     "a.article_id",
	domain.SortByTitle:         "a.title",
	domain.SortByTopic:         "a.topic",
	domain.SortByCreatedAt:     "a.created_at",
	domain.SortByVotes:         "a.votes",
	domain.SortByArticleImgURL: "a.article_img_url",
	domain.SortByCommentCount:  "comment_count",
}

var articleOrderKeywords = map[domain.SortOrder]string{
	domain.SortAsc:  "ASC",
	domain.SortDesc: "DESC",
}

const (
	articleSummaryColumns = `
		a.article_id, a.author, a.title, a.topic, a.created_at, a.votes, a.article_img_url,
		COUNT(c.comment_id)::INT AS comment_count`

	articleColumns = `
		a.article_id, a.title, a.topic, a.author, a.body, a.created_at, a.votes, a.article_img_url,
		COUNT(c.comment_id)::INT AS comment_count`

	articleGroupBy = `
		GROUP BY a.article_id, a.author, a.title, a.topic, a.body, a.created_at, a.votes, a.article_img_url`
)

// PgArticleRepository is a PostgreSQL implementation of ArticleRepository.
type PgArticleRepository struct {
	db DBTX
}

// NewPgArticleRepository creates a new PostgreSQL article repository.
func NewPgArticleRepository(db DBTX) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

// ListSummaries returns the filtered, ordered article list.
func (r *PgArticleRepository) ListSummaries(ctx context.Context, filter ArticleFilter) ([]*domain.ArticleSummary, error) {
	query, args, err := buildArticleListQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*domain.ArticleSummary, 0)
	for rows.Next() {
		a, err := scanArticleSummaryFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating articles: %w", err)
	}

	return articles, nil
}

// buildArticleListQuery assembles the list statement. The topic is a bound
// parameter; sort column and direction come from the closed fragment maps.
func buildArticleListQuery(filter ArticleFilter) (string, []interface{}, error) {
	sortExpr, ok := articleSortFragments[filter.SortBy]
	if !ok {
		return "", nil, domain.NewQueryParamError(domain.ParamSort, string(filter.SortBy))
	}
	direction, ok := articleOrderKeywords[filter.Order]
	if !ok {
		return "", nil, domain.NewQueryParamError(domain.ParamOrder, string(filter.Order))
	}

	var (
		b    strings.Builder
		args []interface{}
	)

	b.WriteString("SELECT")
	b.WriteString(articleSummaryColumns)
	b.WriteString(`
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id`)

	if filter.Topic != nil {
		args = append(args, *filter.Topic)
		b.WriteString("\n\t\tWHERE a.topic = $" + strconv.Itoa(len(args)))
	}

	b.WriteString(articleGroupBy)
	b.WriteString("\n\t\tORDER BY ")
	b.WriteString(sortExpr)
	b.WriteString(" ")
	b.WriteString(direction)
	b.WriteString(", a.article_id ASC")

	return b.String(), args, nil
}

// GetByID retrieves a single article with its comment count.
func (r *PgArticleRepository) GetByID(ctx context.Context, id int) (*domain.Article, error) {
	query := `
		SELECT` + articleColumns + `
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id
		WHERE a.article_id = $1` + articleGroupBy

	article, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError(domain.EntityArticle, strconv.Itoa(id))
		}
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}

	return article, nil
}

// IncrementVotes applies a relative vote change in one statement, so
// concurrent increments never lose updates.
func (r *PgArticleRepository) IncrementVotes(ctx context.Context, id, inc int) (*domain.Article, error) {
	query := `
		UPDATE articles a
		SET votes = a.votes + $1
		WHERE a.article_id = $2
		RETURNING a.article_id, a.title, a.topic, a.author, a.body, a.created_at, a.votes, a.article_img_url,
			(SELECT COUNT(*)::INT FROM comments c WHERE c.article_id = a.article_id)`

	article, err := scanArticle(r.db.QueryRow(ctx, query, inc, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError(domain.EntityArticle, strconv.Itoa(id))
		}
		return nil, fmt.Errorf("failed to update article votes: %w", err)
	}

	return article, nil
}

// articleScanDest holds the destination pointers for scanning an Article row.
type articleScanDest struct {
	article domain.Article
}

// destinations returns the slice of pointers for Scan operations.
func (d *articleScanDest) destinations() []interface{} {
	return []interface{}{
		&d.article.ArticleID, &d.article.Title, &d.article.Topic, &d.article.Author,
		&d.article.Body, &d.article.CreatedAt, &d.article.Votes, &d.article.ArticleImgURL,
		&d.article.CommentCount,
	}
}

// finalize normalizes the timestamp to UTC.
func (d *articleScanDest) finalize() (*domain.Article, error) {
	d.article.CreatedAt = d.article.CreatedAt.UTC()
	return &d.article, nil
}

// scanArticle scans a single row into an Article.
func scanArticle(row pgx.Row) (*domain.Article, error) {
	var dest articleScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// articleSummaryScanDest holds the destination pointers for the list form.
type articleSummaryScanDest struct {
	summary domain.ArticleSummary
}

func (d *articleSummaryScanDest) destinations() []interface{} {
	return []interface{}{
		&d.summary.ArticleID, &d.summary.Author, &d.summary.Title, &d.summary.Topic,
		&d.summary.CreatedAt, &d.summary.Votes, &d.summary.ArticleImgURL, &d.summary.CommentCount,
	}
}

func (d *articleSummaryScanDest) finalize() (*domain.ArticleSummary, error) {
	d.summary.CreatedAt = d.summary.CreatedAt.UTC()
	return &d.summary, nil
}

// scanArticleSummaryFromRows scans the current row from pgx.Rows into an ArticleSummary.
func scanArticleSummaryFromRows(rows pgx.Rows) (*domain.ArticleSummary, error) {
	var dest articleSummaryScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
