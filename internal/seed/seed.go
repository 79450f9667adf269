// Package seed loads a fixed board dataset into the store. The embedded
// development dataset backs local development and the end-to-end suite.
package seed

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/helixir/newsboard-service/internal/database"
	"github.com/helixir/newsboard-service/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// Dataset is a complete board: rows are inserted in field order, so every
// reference must point at an earlier row. Comment ArticleID values refer to
// the 1-based position of the article in Articles.
type Dataset struct {
	Topics   []domain.Topic   `json:"topics"`
	Users    []domain.User    `json:"users"`
	Articles []domain.Article `json:"articles"`
	Comments []domain.Comment `json:"comments"`
}

// Development returns the embedded development dataset.
func Development() (*Dataset, error) {
	raw, err := dataFS.ReadFile("data/development.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded dataset: %w", err)
	}
	return Parse(bytes.NewReader(raw))
}

// Parse decodes a dataset and checks its references.
func Parse(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks that every reference in the dataset resolves.
func (ds *Dataset) Validate() error {
	topics := make(map[string]bool, len(ds.Topics))
	for _, t := range ds.Topics {
		topics[t.Slug] = true
	}
	users := make(map[string]bool, len(ds.Users))
	for _, u := range ds.Users {
		users[u.Username] = true
	}

	for i, a := range ds.Articles {
		if !topics[a.Topic] {
			return domain.NewValidationError(fmt.Sprintf("articles[%d].topic", i), "unknown topic "+a.Topic)
		}
		if !users[a.Author] {
			return domain.NewValidationError(fmt.Sprintf("articles[%d].author", i), "unknown user "+a.Author)
		}
	}
	for i, c := range ds.Comments {
		if c.ArticleID < 1 || c.ArticleID > len(ds.Articles) {
			return domain.NewValidationError(fmt.Sprintf("comments[%d].article_id", i), "out of range")
		}
		if !users[c.Author] {
			return domain.NewValidationError(fmt.Sprintf("comments[%d].author", i), "unknown user "+c.Author)
		}
	}
	return nil
}

// Loader replaces the board contents with a dataset.
type Loader struct {
	db     database.Transactor
	logger zerolog.Logger
}

// NewLoader creates a loader that writes through db.
func NewLoader(db database.Transactor, logger zerolog.Logger) *Loader {
	return &Loader{
		db:     db,
		logger: logger.With().Str("component", "seed").Logger(),
	}
}

// Load truncates every board table, resetting identities, and inserts ds in
// one transaction.
func (l *Loader) Load(ctx context.Context, ds *Dataset) error {
	if ds == nil {
		return domain.NewValidationError("dataset", "is required")
	}

	err := l.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return insert(ctx, tx, ds)
	})
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	l.logger.Info().
		Int("topics", len(ds.Topics)).
		Int("users", len(ds.Users)).
		Int("articles", len(ds.Articles)).
		Int("comments", len(ds.Comments)).
		Msg("dataset loaded")
	return nil
}

const (
	truncateQuery = `TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE`

	insertTopicQuery = `INSERT INTO topics (slug, description) VALUES ($1, $2)`

	insertUserQuery = `INSERT INTO users (username, name, avatar_url) VALUES ($1, $2, NULLIF($3, ''))`

	insertArticleQuery = `
		INSERT INTO articles (title, topic, author, body, created_at, votes, article_img_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertCommentQuery = `
		INSERT INTO comments (body, article_id, author, votes, created_at)
		VALUES ($1, $2, $3, $4, $5)`
)

func insert(ctx context.Context, tx database.DBTX, ds *Dataset) error {
	if _, err := tx.Exec(ctx, truncateQuery); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	batch := &pgx.Batch{}
	for _, t := range ds.Topics {
		batch.Queue(insertTopicQuery, t.Slug, t.Description)
	}
	for _, u := range ds.Users {
		batch.Queue(insertUserQuery, u.Username, u.Name, u.AvatarURL)
	}
	for _, a := range ds.Articles {
		batch.Queue(insertArticleQuery, a.Title, a.Topic, a.Author, a.Body, a.CreatedAt, a.Votes, a.ArticleImgURL)
	}
	for _, c := range ds.Comments {
		batch.Queue(insertCommentQuery, c.Body, c.ArticleID, c.Author, c.Votes, c.CreatedAt)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}
	return nil
}
