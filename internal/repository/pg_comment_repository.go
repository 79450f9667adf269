package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/newsboard-service/internal/domain"
)

// Compile-time interface verification.
var _ CommentRepository = (*PgCommentRepository)(nil)

const commentColumns = `comment_id, body, article_id, author, votes, created_at`

// PgCommentRepository is a PostgreSQL implementation of CommentRepository.
type PgCommentRepository struct {
	db DBTX
}

// NewPgCommentRepository creates a new PostgreSQL comment repository.
func NewPgCommentRepository(db DBTX) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

// ListByArticle returns the article's comments, newest first.
func (r *PgCommentRepository) ListByArticle(ctx context.Context, articleID int) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC, comment_id DESC`

	rows, err := r.db.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c, err := scanCommentFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

// Create inserts a comment and returns the stored row.
func (r *PgCommentRepository) Create(ctx context.Context, in *domain.NewComment) (*domain.Comment, error) {
	if in == nil {
		return nil, domain.NewValidationError("comment", "comment cannot be nil")
	}

	query := `
		INSERT INTO comments (article_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns

	c, err := scanComment(r.db.QueryRow(ctx, query, in.ArticleID, in.Author, in.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return c, nil
}

// Delete removes a comment by ID.
func (r *PgCommentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE comment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError(domain.EntityComment, strconv.Itoa(id))
	}

	return nil
}

// commentScanDest holds the destination pointers for scanning a Comment row.
type commentScanDest struct {
	comment domain.Comment
}

// destinations returns the slice of pointers for Scan operations.
func (d *commentScanDest) destinations() []interface{} {
	return []interface{}{
		&d.comment.CommentID, &d.comment.Body, &d.comment.ArticleID,
		&d.comment.Author, &d.comment.Votes, &d.comment.CreatedAt,
	}
}

func (d *commentScanDest) finalize() (*domain.Comment, error) {
	d.comment.CreatedAt = d.comment.CreatedAt.UTC()
	return &d.comment, nil
}

// scanComment scans a single row into a Comment.
func scanComment(row pgx.Row) (*domain.Comment, error) {
	var dest commentScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanCommentFromRows scans the current row from pgx.Rows into a Comment.
func scanCommentFromRows(rows pgx.Rows) (*domain.Comment, error) {
	var dest commentScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
