package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/helixir/newsboard-service/internal/articlequery"
	"github.com/helixir/newsboard-service/internal/database"
	"github.com/helixir/newsboard-service/internal/domain"
	"github.com/helixir/newsboard-service/internal/events"
	"github.com/helixir/newsboard-service/internal/observability"
	"github.com/helixir/newsboard-service/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

// mockArticleRepo implements repository.ArticleRepository for HTTP handler tests.
type mockArticleRepo struct {
	listFn func(ctx context.Context, filter repository.ArticleFilter) ([]*domain.ArticleSummary, error)
	getFn  func(ctx context.Context, id int) (*domain.Article, error)
	incFn  func(ctx context.Context, id, inc int) (*domain.Article, error)
}

func (m *mockArticleRepo) ListSummaries(ctx context.Context, filter repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockArticleRepo) GetByID(ctx context.Context, id int) (*domain.Article, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.NewNotFoundError(domain.EntityArticle, fmt.Sprint(id))
}

func (m *mockArticleRepo) IncrementVotes(ctx context.Context, id, inc int) (*domain.Article, error) {
	if m.incFn != nil {
		return m.incFn(ctx, id, inc)
	}
	return nil, domain.NewNotFoundError(domain.EntityArticle, fmt.Sprint(id))
}

// mockCommentRepo implements repository.CommentRepository for HTTP handler tests.
type mockCommentRepo struct {
	listFn   func(ctx context.Context, articleID int) ([]*domain.Comment, error)
	createFn func(ctx context.Context, in *domain.NewComment) (*domain.Comment, error)
	deleteFn func(ctx context.Context, id int) error
}

func (m *mockCommentRepo) ListByArticle(ctx context.Context, articleID int) ([]*domain.Comment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, articleID)
	}
	return nil, nil
}

func (m *mockCommentRepo) Create(ctx context.Context, in *domain.NewComment) (*domain.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockTopicRepo implements repository.TopicRepository for HTTP handler tests.
type mockTopicRepo struct {
	topics []*domain.Topic
	err    error
}

func (m *mockTopicRepo) List(_ context.Context) ([]*domain.Topic, error) {
	return m.topics, m.err
}

func (m *mockTopicRepo) ListSlugs(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	slugs := make([]string, len(m.topics))
	for i, t := range m.topics {
		slugs[i] = t.Slug
	}
	return slugs, nil
}

// mockUserRepo implements repository.UserRepository for HTTP handler tests.
type mockUserRepo struct {
	users []*domain.User
}

func (m *mockUserRepo) List(_ context.Context) ([]*domain.User, error) {
	return m.users, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError(domain.EntityUser, username)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evs ...*domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fakeHealth struct {
	status database.HealthStatus
}

func (f fakeHealth) Health(_ context.Context) database.HealthStatus { return f.status }

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type testDeps struct {
	articles  *mockArticleRepo
	comments  *mockCommentRepo
	topics    *mockTopicRepo
	users     *mockUserRepo
	publisher *recordingPublisher
	metrics   *observability.Metrics
	health    HealthChecker
	cfg       Config
}

func newTestDeps() *testDeps {
	return &testDeps{
		articles: &mockArticleRepo{},
		comments: &mockCommentRepo{},
		topics: &mockTopicRepo{topics: []*domain.Topic{
			{Slug: "mitch", Description: "The man, the Mitch, the legend"},
			{Slug: "cats", Description: "Not dogs"},
			{Slug: "paper", Description: "what books are made of"},
		}},
		users: &mockUserRepo{users: []*domain.User{
			{Username: "butter_bridge", Name: "jonny"},
			{Username: "lurker", Name: "do_nothing"},
		}},
		publisher: &recordingPublisher{},
		metrics:   observability.NewMetricsWithRegistry("test", prometheus.NewRegistry()),
		health:    fakeHealth{status: database.HealthStatus{Status: "healthy", MaxConns: 20}},
	}
}

// newTestHTTPServer creates a Server configured for testing with mocked dependencies.
func newTestHTTPServer(d *testDeps) *Server {
	logger := zerolog.Nop()
	return NewServer(d.cfg, Dependencies{
		Engine:   articlequery.NewEngine(d.articles, d.topics, logger),
		Articles: d.articles,
		Comments: d.comments,
		Topics:   d.topics,
		Users:    d.users,
		Health:   d.health,
		Emitter:  events.NewEmitter(d.publisher, d.metrics, logger),
		Metrics:  d.metrics,
	}, logger)
}

// serveHTTP dispatches a request through the test server's router and returns the recorder.
func serveHTTP(s *Server, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, r)
	return rr
}

// decodeJSON decodes a JSON response body into the given target.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// expectError asserts the status and msg of an error response.
func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	var body map[string]string
	decodeJSON(t, rr, &body)
	if body["msg"] != msg {
		t.Errorf("expected msg %q, got %q", msg, body["msg"])
	}
	if len(body) != 1 {
		t.Errorf("expected a single msg field, got %v", body)
	}
}

// summaries returns n articles ordered by ascending article_id.
func summaries(n int) []*domain.ArticleSummary {
	base := time.Date(2020, 11, 3, 9, 12, 0, 0, time.UTC)
	out := make([]*domain.ArticleSummary, n)
	for i := range out {
		out[i] = &domain.ArticleSummary{
			ArticleID: i + 1,
			Title:     fmt.Sprintf("article %d", i+1),
			Topic:     "mitch",
			Author:    "butter_bridge",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func articleIDs(list []*domain.ArticleSummary) []int {
	ids := make([]int, len(list))
	for i, a := range list {
		ids[i] = a.ArticleID
	}
	return ids
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	return bytes.NewBuffer(b)
}

// ---------------------------------------------------------------------------
// Tests: listArticles
// ---------------------------------------------------------------------------

func TestListArticles_Defaults(t *testing.T) {
	d := newTestDeps()
	var captured repository.ArticleFilter
	d.articles.listFn = func(_ context.Context, f repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
		captured = f
		return summaries(13), nil
	}
	srv := newTestHTTPServer(d)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp articlesResponse
	decodeJSON(t, rr, &resp)
	if resp.TotalCount != 13 {
		t.Errorf("expected total_count 13, got %d", resp.TotalCount)
	}
	if len(resp.Articles) != articlequery.DefaultLimit {
		t.Errorf("expected %d articles, got %d", articlequery.DefaultLimit, len(resp.Articles))
	}
	if captured.SortBy != domain.SortByCreatedAt || captured.Order != domain.SortDesc {
		t.Errorf("expected created_at desc, got %s %s", captured.SortBy, captured.Order)
	}
	if captured.Topic != nil {
		t.Errorf("expected no topic filter, got %q", *captured.Topic)
	}
	if got := testutil.ToFloat64(d.metrics.ArticleQueries); got != 1 {
		t.Errorf("expected 1 article query recorded, got %v", got)
	}
}

func TestListArticles_SecondPage(t *testing.T) {
	d := newTestDeps()
	d.articles.listFn = func(_ context.Context, f repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
		if f.SortBy != domain.SortByArticleID || f.Order != domain.SortAsc {
			t.Errorf("unexpected ordering %s %s", f.SortBy, f.Order)
		}
		return summaries(13), nil
	}
	srv := newTestHTTPServer(d)

	req := httptest.NewRequest(http.MethodGet, "/api/articles?sort_by=article_id&order=asc&limit=5&p=2", nil)
	rr := serveHTTP(srv, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp articlesResponse
	decodeJSON(t, rr, &resp)
	want := []int{6, 7, 8, 9, 10}
	if got := articleIDs(resp.Articles); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected ids %v, got %v", want, got)
	}
	if resp.TotalCount != 13 {
		t.Errorf("expected total_count 13, got %d", resp.TotalCount)
	}
}

func TestListArticles_UnboundedLimit(t *testing.T) {
	d := newTestDeps()
	d.articles.listFn = func(_ context.Context, _ repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
		return summaries(13), nil
	}
	srv := newTestHTTPServer(d)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles?limit=null&p=7", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp articlesResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Articles) != 13 {
		t.Errorf("expected all 13 articles, got %d", len(resp.Articles))
	}
}

func TestListArticles_RejectedParameters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		msg   string
		param string
	}{
		{"page past the end", "?limit=5&order=asc&sort_by=article_id&p=4", "ERROR: invalid p query", domain.ParamPage},
		{"unknown sort column", "?sort_by=forklift_count", "ERROR: invalid sort query", domain.ParamSort},
		{"unknown order", "?order=sideways", "ERROR: invalid order query", domain.ParamOrder},
		{"non-numeric limit", "?limit=ten", "ERROR: invalid limit query", domain.ParamLimit},
		{"zero limit", "?limit=0", "ERROR: invalid limit query", domain.ParamLimit},
		{"negative page", "?p=-1", "ERROR: invalid p query", domain.ParamPage},
		{"decimal page", "?p=1.5", "ERROR: invalid p query", domain.ParamPage},
		{"sql in sort column", "?sort_by=votes;DROP%20TABLE%20articles", "ERROR: invalid sort query", domain.ParamSort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDeps()
			d.articles.listFn = func(_ context.Context, _ repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
				return summaries(13), nil
			}
			srv := newTestHTTPServer(d)

			rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles"+tc.query, nil))
			expectError(t, rr, http.StatusBadRequest, tc.msg)

			if got := testutil.ToFloat64(d.metrics.QueryRejections.WithLabelValues(tc.param)); got != 1 {
				t.Errorf("expected one rejection recorded for %s, got %v", tc.param, got)
			}
		})
	}
}

func TestListArticles_TopicFilter(t *testing.T) {
	t.Run("existing topic without articles", func(t *testing.T) {
		d := newTestDeps()
		d.articles.listFn = func(_ context.Context, f repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
			if f.Topic == nil || *f.Topic != "paper" {
				t.Errorf("expected topic filter paper, got %v", f.Topic)
			}
			return nil, nil
		}
		srv := newTestHTTPServer(d)

		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles?topic=paper", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), `"articles":[]`) {
			t.Errorf("expected an empty articles array, got %s", rr.Body.String())
		}
		var resp articlesResponse
		decodeJSON(t, rr, &resp)
		if resp.TotalCount != 0 {
			t.Errorf("expected total_count 0, got %d", resp.TotalCount)
		}
	})

	t.Run("unknown topic", func(t *testing.T) {
		d := newTestDeps()
		d.articles.listFn = func(_ context.Context, _ repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
			return nil, nil
		}
		srv := newTestHTTPServer(d)

		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles?topic=dogs", nil))
		expectError(t, rr, http.StatusNotFound, "ERROR: topic *dogs* does not exist")
	})
}

func TestListArticles_RepoError(t *testing.T) {
	d := newTestDeps()
	d.articles.listFn = func(_ context.Context, _ repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
		return nil, errors.New("connection reset by peer")
	}
	srv := newTestHTTPServer(d)

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles", nil))
	expectError(t, rr, http.StatusInternalServerError, "ERROR: internal server error")
}

// ---------------------------------------------------------------------------
// Tests: single article
// ---------------------------------------------------------------------------

func TestGetArticle(t *testing.T) {
	d := newTestDeps()
	d.articles.getFn = func(_ context.Context, id int) (*domain.Article, error) {
		if id != 1 {
			return nil, domain.NewNotFoundError(domain.EntityArticle, fmt.Sprint(id))
		}
		return &domain.Article{ArticleID: 1, Title: "Living in the shadow of a great man", Body: "I find this existence challenging", CommentCount: 11}, nil
	}
	srv := newTestHTTPServer(d)

	t.Run("found", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles/1", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp articleResponse
		decodeJSON(t, rr, &resp)
		if resp.Article.Body == "" || resp.Article.CommentCount != 11 {
			t.Errorf("expected body and comment_count 11, got %+v", resp.Article)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles/1000", nil))
		expectError(t, rr, http.StatusNotFound, "ERROR: article *1000* does not exist")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles/banana", nil))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})

	t.Run("id past int4", func(t *testing.T) {
		for _, path := range []string{"/api/articles/9999999999", "/api/articles/9999999999/comments"} {
			rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, path, nil))
			expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
		}
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/comments/9999999999", nil))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})
}

func TestPatchArticleVotes(t *testing.T) {
	const startVotes = 100

	newServer := func() (*testDeps, *Server) {
		d := newTestDeps()
		d.articles.incFn = func(_ context.Context, id, inc int) (*domain.Article, error) {
			if id != 1 {
				return nil, domain.NewNotFoundError(domain.EntityArticle, fmt.Sprint(id))
			}
			return &domain.Article{ArticleID: 1, Votes: startVotes + inc}, nil
		}
		return d, newTestHTTPServer(d)
	}

	t.Run("negative increment", func(t *testing.T) {
		d, srv := newServer()
		req := httptest.NewRequest(http.MethodPatch, "/api/articles/1", jsonBody(t, map[string]int{"inc_votes": -3}))
		req.Header.Set("X-Correlation-ID", "corr-1")
		rr := serveHTTP(srv, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp articleResponse
		decodeJSON(t, rr, &resp)
		if resp.Article.Votes != startVotes-3 {
			t.Errorf("expected votes %d, got %d", startVotes-3, resp.Article.Votes)
		}

		if len(d.publisher.events) != 1 {
			t.Fatalf("expected one event, got %d", len(d.publisher.events))
		}
		ev := d.publisher.events[0]
		if ev.EventType != domain.EventTypeArticleVotesUpdated || ev.CorrelationID != "corr-1" {
			t.Errorf("unexpected event %s correlation %q", ev.EventType, ev.CorrelationID)
		}
		if got := testutil.ToFloat64(d.metrics.VoteUpdates); got != 1 {
			t.Errorf("expected one vote update recorded, got %v", got)
		}
	})

	t.Run("zero increment is valid", func(t *testing.T) {
		_, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/articles/1", strings.NewReader(`{"inc_votes":0}`)))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	badBodies := []struct {
		name string
		body string
	}{
		{"missing inc_votes", `{}`},
		{"string inc_votes", `{"inc_votes":"cats"}`},
		{"decimal inc_votes", `{"inc_votes":1.5}`},
		{"malformed json", `{"inc_votes":`},
		{"inc_votes past int4", `{"inc_votes":99999999999}`},
		{"inc_votes below int4", `{"inc_votes":-2147483649}`},
	}
	for _, tc := range badBodies {
		t.Run(tc.name, func(t *testing.T) {
			d, srv := newServer()
			rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/articles/1", strings.NewReader(tc.body)))
			expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
			if len(d.publisher.events) != 0 {
				t.Errorf("expected no events, got %d", len(d.publisher.events))
			}
		})
	}

	t.Run("missing article", func(t *testing.T) {
		d, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/articles/999", strings.NewReader(`{"inc_votes":1}`)))
		expectError(t, rr, http.StatusNotFound, "ERROR: article *999* does not exist")
		if len(d.publisher.events) != 0 {
			t.Errorf("expected no events, got %d", len(d.publisher.events))
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		_, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/articles/one", strings.NewReader(`{"inc_votes":1}`)))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})

	t.Run("id past int4", func(t *testing.T) {
		_, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/articles/9999999999", strings.NewReader(`{"inc_votes":1}`)))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})

	t.Run("int4 extremes are accepted", func(t *testing.T) {
		_, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPatch, "/api/articles/1", strings.NewReader(`{"inc_votes":-2147483648}`)))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("votes overflow in the store", func(t *testing.T) {
		d := newTestDeps()
		d.articles.incFn = func(_ context.Context, _, _ int) (*domain.Article, error) {
			return nil, fmt.Errorf("failed to increment votes: %w", &pgconn.PgError{Code: "22003", Message: "integer out of range"})
		}
		rr := serveHTTP(newTestHTTPServer(d), httptest.NewRequest(http.MethodPatch, "/api/articles/1", strings.NewReader(`{"inc_votes":2147483647}`)))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
		if len(d.publisher.events) != 0 {
			t.Errorf("expected no events, got %d", len(d.publisher.events))
		}
	})
}

// ---------------------------------------------------------------------------
// Tests: comments
// ---------------------------------------------------------------------------

func TestListArticleComments(t *testing.T) {
	d := newTestDeps()
	d.articles.getFn = func(_ context.Context, id int) (*domain.Article, error) {
		if id > 13 {
			return nil, domain.NewNotFoundError(domain.EntityArticle, fmt.Sprint(id))
		}
		return &domain.Article{ArticleID: id}, nil
	}
	d.comments.listFn = func(_ context.Context, articleID int) ([]*domain.Comment, error) {
		if articleID == 1 {
			return []*domain.Comment{{CommentID: 5, ArticleID: 1}, {CommentID: 2, ArticleID: 1}}, nil
		}
		return nil, nil
	}
	srv := newTestHTTPServer(d)

	t.Run("with comments", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles/1/comments", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp commentsResponse
		decodeJSON(t, rr, &resp)
		if len(resp.Comments) != 2 || resp.Comments[0].CommentID != 5 {
			t.Errorf("unexpected comments %+v", resp.Comments)
		}
	})

	t.Run("article without comments", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles/2/comments", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), `"comments":[]`) {
			t.Errorf("expected an empty comments array, got %s", rr.Body.String())
		}
	})

	t.Run("missing article", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles/1000/comments", nil))
		expectError(t, rr, http.StatusNotFound, "ERROR: article *1000* does not exist")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/articles/x/comments", nil))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})
}

func TestPostArticleComment(t *testing.T) {
	newServer := func() (*testDeps, *Server) {
		d := newTestDeps()
		d.comments.createFn = func(_ context.Context, in *domain.NewComment) (*domain.Comment, error) {
			switch {
			case in.ArticleID > 13:
				return nil, fmt.Errorf("failed to create comment: %w",
					&pgconn.PgError{Code: "23503", ConstraintName: "comments_article_id_fkey"})
			case in.Author != "butter_bridge" && in.Author != "lurker":
				return nil, fmt.Errorf("failed to create comment: %w",
					&pgconn.PgError{Code: "23503", ConstraintName: "comments_author_fkey"})
			}
			return &domain.Comment{CommentID: 19, ArticleID: in.ArticleID, Author: in.Author, Body: in.Body}, nil
		}
		return d, newTestHTTPServer(d)
	}

	t.Run("created", func(t *testing.T) {
		d, srv := newServer()
		body := jsonBody(t, map[string]string{"username": "butter_bridge", "body": "This is a new comment"})
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/articles/2/comments", body))
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp commentResponse
		decodeJSON(t, rr, &resp)
		if resp.Comment.CommentID != 19 || resp.Comment.ArticleID != 2 || resp.Comment.Body != "This is a new comment" {
			t.Errorf("unexpected comment %+v", resp.Comment)
		}
		if len(d.publisher.events) != 1 || d.publisher.events[0].EventType != domain.EventTypeCommentCreated {
			t.Errorf("expected a comment.created event, got %v", d.publisher.events)
		}
		if got := testutil.ToFloat64(d.metrics.CommentsCreated); got != 1 {
			t.Errorf("expected one comment created, got %v", got)
		}
	})

	t.Run("extra fields are ignored", func(t *testing.T) {
		_, srv := newServer()
		body := strings.NewReader(`{"username":"lurker","body":"hi","votes":1000}`)
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/articles/2/comments", body))
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("missing body field", func(t *testing.T) {
		_, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/articles/2/comments", strings.NewReader(`{"username":"lurker"}`)))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})

	t.Run("missing article", func(t *testing.T) {
		_, srv := newServer()
		body := jsonBody(t, map[string]string{"username": "lurker", "body": "hello"})
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/articles/1000/comments", body))
		expectError(t, rr, http.StatusNotFound, "ERROR: article does not exist")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, srv := newServer()
		body := jsonBody(t, map[string]string{"username": "ghost", "body": "boo"})
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/articles/2/comments", body))
		expectError(t, rr, http.StatusNotFound, "ERROR: user does not exist")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		_, srv := newServer()
		body := jsonBody(t, map[string]string{"username": "lurker", "body": "hello"})
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/articles/abc/comments", body))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})
}

func TestDeleteComment(t *testing.T) {
	newServer := func() (*testDeps, *Server) {
		d := newTestDeps()
		d.comments.deleteFn = func(_ context.Context, id int) error {
			if id != 1 {
				return domain.NewNotFoundError(domain.EntityComment, fmt.Sprint(id))
			}
			return nil
		}
		return d, newTestHTTPServer(d)
	}

	t.Run("deleted", func(t *testing.T) {
		d, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/comments/1", nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
		}
		if rr.Body.Len() != 0 {
			t.Errorf("expected empty body, got %q", rr.Body.String())
		}
		if len(d.publisher.events) != 1 || d.publisher.events[0].EventType != domain.EventTypeCommentDeleted {
			t.Errorf("expected a comment.deleted event, got %v", d.publisher.events)
		}
	})

	t.Run("missing comment", func(t *testing.T) {
		_, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/comments/9999", nil))
		expectError(t, rr, http.StatusNotFound, "ERROR: comment *9999* does not exist")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		_, srv := newServer()
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodDelete, "/api/comments/first", nil))
		expectError(t, rr, http.StatusBadRequest, "ERROR: bad request")
	})
}

// ---------------------------------------------------------------------------
// Tests: topics, users, meta routes
// ---------------------------------------------------------------------------

func TestListTopics(t *testing.T) {
	srv := newTestHTTPServer(newTestDeps())

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/topics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp topicsResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Topics) != 3 {
		t.Errorf("expected 3 topics, got %d", len(resp.Topics))
	}
}

func TestUsers(t *testing.T) {
	srv := newTestHTTPServer(newTestDeps())

	t.Run("list", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp usersResponse
		decodeJSON(t, rr, &resp)
		if len(resp.Users) != 2 {
			t.Errorf("expected 2 users, got %d", len(resp.Users))
		}
	})

	t.Run("by username", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/users/lurker", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp userResponse
		decodeJSON(t, rr, &resp)
		if resp.User.Username != "lurker" {
			t.Errorf("expected lurker, got %s", resp.User.Username)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/users/nobody", nil))
		expectError(t, rr, http.StatusNotFound, "ERROR: user *nobody* does not exist")
	})
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestHTTPServer(newTestDeps())

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/not-a-route", nil))
	expectError(t, rr, http.StatusNotFound, "ERROR: route not found")
}

func TestListEndpoints(t *testing.T) {
	srv := newTestHTTPServer(newTestDeps())

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var doc map[string]json.RawMessage
	decodeJSON(t, rr, &doc)
	if _, ok := doc["endpoints"]; !ok {
		t.Fatalf("expected an endpoints document, got %v", doc)
	}
	for _, route := range []string{"/articles/{article_id}/comments", "/comments/{comment_id}", "/users/{username}"} {
		if !strings.Contains(string(doc["endpoints"]), route) {
			t.Errorf("expected route %s in endpoint document", route)
		}
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestHTTPServer(newTestDeps())
		for _, path := range []string{"/healthz", "/readyz"} {
			rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, path, nil))
			if rr.Code != http.StatusOK {
				t.Errorf("%s: expected 200, got %d", path, rr.Code)
			}
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		d := newTestDeps()
		d.health = fakeHealth{status: database.HealthStatus{Status: "unhealthy", Error: "ping timeout"}}
		srv := newTestHTTPServer(d)
		for _, path := range []string{"/healthz", "/readyz"} {
			rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, path, nil))
			if rr.Code != http.StatusServiceUnavailable {
				t.Errorf("%s: expected 503, got %d", path, rr.Code)
			}
		}
	})
}

func TestListArticles_ConcurrentRequests(t *testing.T) {
	d := newTestDeps()
	d.articles.listFn = func(_ context.Context, _ repository.ArticleFilter) ([]*domain.ArticleSummary, error) {
		return summaries(13), nil
	}
	srv := newTestHTTPServer(d)

	var wg sync.WaitGroup
	errs := make(chan string, 20)
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			path := fmt.Sprintf("/api/articles?sort_by=article_id&order=asc&limit=1&p=%d", page)
			rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, path, nil))
			want := http.StatusOK
			if page > 13 {
				want = http.StatusBadRequest
			}
			if rr.Code != want {
				errs <- fmt.Sprintf("page %d: expected %d, got %d", page, want, rr.Code)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
