package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/helixir/newsboard-service/internal/apierror"
	"github.com/helixir/newsboard-service/internal/articlequery"
	"github.com/helixir/newsboard-service/internal/domain"
)

// maxRequestBodySize caps JSON request bodies at 1 MB.
const maxRequestBodySize = 1 << 20

// Response envelopes for JSON serialization.

type topicsResponse struct {
	Topics []*domain.Topic `json:"topics"`
}

type articleResponse struct {
	Article *domain.Article `json:"article"`
}

type articlesResponse = articlequery.ArticleList

type commentsResponse struct {
	Comments []*domain.Comment `json:"comments"`
}

type commentResponse struct {
	Comment *domain.Comment `json:"comment"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// Request bodies.

type patchVotesRequest struct {
	IncVotes *int `json:"inc_votes" validate:"required,min=-2147483648,max=2147483647"`
}

type postCommentRequest struct {
	Username string `json:"username" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, v interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, v)
}

// writeError writes a JSON error response with a single msg field.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	writeJSON(w, r, statusCode, apierror.Response{Status: statusCode, Msg: message})
}

// writeDomainError classifies err and writes the matching response.
// Unclassified errors are logged and reported as a bare 500; their details
// never reach the client.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	resp, ok := apierror.Classify(err)
	if !ok {
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled request error")
		resp = apierror.Internal()
	}

	var qp *domain.QueryParamError
	if errors.As(err, &qp) {
		s.metrics.RecordQueryRejected(qp.Param)
	}

	writeError(w, r, resp.Status, resp.Msg)
}

// decodeBody decodes and validates a JSON request body. Any failure is
// malformed input.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return domain.NewValidationError("body", "malformed JSON")
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.NewValidationError(verrs[0].Field(), verrs[0].Tag())
		}
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}
