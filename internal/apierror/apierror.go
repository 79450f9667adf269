// Package apierror maps failures raised anywhere below the HTTP layer to the
// status and message the API returns for them.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/helixir/newsboard-service/internal/domain"
)

// PostgreSQL error codes that are client errors rather than server faults.
const (
	pgNumericValueOutOfRange    = "22003"
	pgInvalidTextRepresentation = "22P02"
	pgNotNullViolation          = "23502"
	pgForeignKeyViolation       = "23503"
)

// Fixed messages.
const (
	MsgBadRequest      = "ERROR: bad request"
	MsgInternal        = "ERROR: internal server error"
	MsgTooManyRequests = "ERROR: too many requests"
	MsgRouteNotFound   = "ERROR: route not found"
)

// fkEntities names the referenced entity for each foreign key constraint.
var fkEntities = map[string]string{
	"comments_article_id_fkey": domain.EntityArticle,
	"comments_author_fkey":     domain.EntityUser,
	"articles_topic_fkey":      domain.EntityTopic,
	"articles_author_fkey":     domain.EntityUser,
}

// Response is the classified outcome: an HTTP status and the msg body field.
type Response struct {
	Status int    `json:"-"`
	Msg    string `json:"msg"`
}

// Classify returns the response for err and true, or false when err is not a
// known client failure and must be treated as an internal error. Each rule
// matches a distinct error kind, so rule order does not affect the result.
func Classify(err error) (Response, bool) {
	if err == nil {
		return Response{}, false
	}

	var (
		nf    *domain.NotFoundError
		qp    *domain.QueryParamError
		pgErr *pgconn.PgError
	)

	switch {
	case errors.As(err, &qp):
		return Response{Status: http.StatusBadRequest, Msg: fmt.Sprintf("ERROR: invalid %s query", qp.Param)}, true

	case errors.As(err, &nf):
		return Response{Status: http.StatusNotFound, Msg: fmt.Sprintf("ERROR: %s *%s* does not exist", nf.Entity, nf.ID)}, true

	case errors.Is(err, domain.ErrInvalidInput):
		return Response{Status: http.StatusBadRequest, Msg: MsgBadRequest}, true

	case errors.As(err, &pgErr):
		return classifyPg(pgErr)
	}

	return Response{}, false
}

func classifyPg(pgErr *pgconn.PgError) (Response, bool) {
	switch pgErr.Code {
	case pgNumericValueOutOfRange, pgInvalidTextRepresentation, pgNotNullViolation:
		return Response{Status: http.StatusBadRequest, Msg: MsgBadRequest}, true
	case pgForeignKeyViolation:
		entity, ok := fkEntities[pgErr.ConstraintName]
		if !ok {
			entity = domain.EntityArticle
		}
		return Response{Status: http.StatusNotFound, Msg: fmt.Sprintf("ERROR: %s does not exist", entity)}, true
	}
	return Response{}, false
}

// Internal is the response for any unclassified failure.
func Internal() Response {
	return Response{Status: http.StatusInternalServerError, Msg: MsgInternal}
}
