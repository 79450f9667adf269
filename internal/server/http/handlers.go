package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/helixir/newsboard-service/internal/articlequery"
	"github.com/helixir/newsboard-service/internal/domain"
)

// listTopics handles GET /api/topics.
func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.topics.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, topicsResponse{Topics: nonNil(topics)})
}

// listArticles handles GET /api/articles.
// Query parameters: topic, sort_by, order, limit, p.
func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := articlequery.ListArticlesRequest{
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
		Limit:  q.Get("limit"),
		Page:   q.Get("p"),
	}
	if topic := q.Get("topic"); topic != "" {
		req.Topic = &topic
	}

	list, err := s.engine.ListArticles(r.Context(), req)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.metrics.RecordArticleQuery(len(list.Articles))
	writeJSON(w, r, http.StatusOK, articlesResponse{
		Articles:   nonNil(list.Articles),
		TotalCount: list.TotalCount,
	})
}

// getArticle handles GET /api/articles/{article_id}.
func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID("article_id", chi.URLParam(r, "article_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	article, err := s.articles.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, articleResponse{Article: article})
}

// patchArticleVotes handles PATCH /api/articles/{article_id}.
// Body: {"inc_votes": <integer>}; the increment may be negative.
func (s *Server) patchArticleVotes(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID("article_id", chi.URLParam(r, "article_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var body patchVotesRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	article, err := s.articles.IncrementVotes(r.Context(), id, *body.IncVotes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.metrics.RecordVoteUpdate()
	s.emitter.VotesUpdated(r.Context(), article, *body.IncVotes)

	writeJSON(w, r, http.StatusOK, articleResponse{Article: article})
}

// listArticleComments handles GET /api/articles/{article_id}/comments.
// The article lookup runs alongside the comment query so that an article
// without comments is told apart from a missing article.
func (s *Server) listArticleComments(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID("article_id", chi.URLParam(r, "article_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	comments, err := articlequery.FetchChecked(r.Context(),
		func(ctx context.Context) error {
			_, err := s.articles.GetByID(ctx, id)
			return err
		},
		func(ctx context.Context) ([]*domain.Comment, error) {
			return s.comments.ListByArticle(ctx, id)
		},
	)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, commentsResponse{Comments: nonNil(comments)})
}

// postArticleComment handles POST /api/articles/{article_id}/comments.
// Body: {"username": "...", "body": "..."}.
func (s *Server) postArticleComment(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID("article_id", chi.URLParam(r, "article_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var body postCommentRequest
	if err := s.decodeBody(w, r, &body); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	comment, err := s.comments.Create(r.Context(), &domain.NewComment{
		ArticleID: id,
		Author:    body.Username,
		Body:      body.Body,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.metrics.RecordCommentCreated()
	s.emitter.CommentCreated(r.Context(), comment)

	writeJSON(w, r, http.StatusCreated, commentResponse{Comment: comment})
}

// deleteComment handles DELETE /api/comments/{comment_id}.
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseID("comment_id", chi.URLParam(r, "comment_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.comments.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.metrics.RecordCommentDeleted()
	s.emitter.CommentDeleted(r.Context(), id)

	w.Header().Del("Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

// listUsers handles GET /api/users.
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, usersResponse{Users: nonNil(users)})
}

// getUser handles GET /api/users/{username}.
func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, userResponse{User: user})
}

// nonNil makes empty collections serialize as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
