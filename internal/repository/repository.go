// Package repository provides data access interfaces and their PostgreSQL
// implementations for topics, users, articles and comments.
//
// # Error Handling
//
// Lookups that find nothing return *domain.NotFoundError. Every other store
// failure is wrapped with fmt.Errorf and %w so callers can still reach the
// underlying *pgconn.PgError; mapping PostgreSQL error codes to responses is
// the job of the apierror package, not of this one.
//
// # Transactions
//
// Implementations accept DBTX, so the same repository works against the pool
// or a pgx.Tx handed out by database.DB.WithTransaction:
//
//	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
//	    comments := repository.NewPgCommentRepository(tx)
//	    _, err := comments.Create(ctx, in)
//	    return err
//	})
package repository

import (
	"github.com/helixir/newsboard-service/internal/database"
)

// DBTX is the database interface supporting both pool and transaction contexts.
type DBTX = database.DBTX
