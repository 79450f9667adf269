package repository

import (
	"context"

	"github.com/helixir/newsboard-service/internal/domain"
)

// UserRepository reads users.
type UserRepository interface {
	// List returns every user ordered by username.
	List(ctx context.Context) ([]*domain.User, error)

	// GetByUsername returns domain.ErrNotFound if no matching user exists.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
