package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/newsboard-service/internal/domain"
)

// Compile-time interface verification.
var _ TopicRepository = (*PgTopicRepository)(nil)

// PgTopicRepository is a PostgreSQL implementation of TopicRepository.
type PgTopicRepository struct {
	db DBTX
}

// NewPgTopicRepository creates a new PostgreSQL topic repository.
func NewPgTopicRepository(db DBTX) *PgTopicRepository {
	return &PgTopicRepository{db: db}
}

// List returns all topics.
func (r *PgTopicRepository) List(ctx context.Context) ([]*domain.Topic, error) {
	rows, err := r.db.Query(ctx, `SELECT slug, description FROM topics ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	topics, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Topic, error) {
		var t domain.Topic
		err := row.Scan(&t.Slug, &t.Description)
		return &t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	return topics, nil
}

// ListSlugs returns the slug of every topic.
func (r *PgTopicRepository) ListSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT slug FROM topics`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic slugs: %w", err)
	}

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan topic slugs: %w", err)
	}

	return slugs, nil
}
