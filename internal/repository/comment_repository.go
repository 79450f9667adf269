package repository

import (
	"context"

	"github.com/helixir/newsboard-service/internal/domain"
)

// CommentRepository reads and writes comments.
type CommentRepository interface {
	// ListByArticle returns the comments on one article, newest first.
	// It does not check that the article exists.
	ListByArticle(ctx context.Context, articleID int) ([]*domain.Comment, error)

	// Create inserts a comment. A missing article or unknown author surfaces
	// as a wrapped foreign_key_violation.
	Create(ctx context.Context, in *domain.NewComment) (*domain.Comment, error)

	// Delete removes a comment.
	// Returns domain.ErrNotFound if no matching comment exists.
	Delete(ctx context.Context, id int) error
}
