// Package httpserver provides the HTTP REST API server for the newsboard service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/helixir/newsboard-service/internal/apierror"
	"github.com/helixir/newsboard-service/internal/articlequery"
	"github.com/helixir/newsboard-service/internal/database"
	"github.com/helixir/newsboard-service/internal/events"
	"github.com/helixir/newsboard-service/internal/observability"
	"github.com/helixir/newsboard-service/internal/repository"
)

// HealthChecker reports the state of the backing store.
type HealthChecker interface {
	Health(ctx context.Context) database.HealthStatus
}

// Dependencies are the collaborators the HTTP handlers call into.
type Dependencies struct {
	Engine   *articlequery.Engine
	Articles repository.ArticleRepository
	Comments repository.CommentRepository
	Topics   repository.TopicRepository
	Users    repository.UserRepository
	Health   HealthChecker
	Emitter  *events.Emitter
	Metrics  *observability.Metrics
}

// Server is the HTTP REST API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	engine     *articlequery.Engine
	articles   repository.ArticleRepository
	comments   repository.CommentRepository
	topics     repository.TopicRepository
	users      repository.UserRepository
	health     HealthChecker
	emitter    *events.Emitter
	metrics    *observability.Metrics
	limiter    *rate.Limiter
	validate   *validator.Validate
	routesDoc  string
	logger     zerolog.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// RateLimitRPS is the sustained request rate across the API. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(cfg Config, deps Dependencies, logger zerolog.Logger) *Server {
	logger = observability.WithComponent(logger, "http-server")

	emitter := deps.Emitter
	if emitter == nil {
		emitter = events.NewEmitter(nil, deps.Metrics, logger)
	}

	s := &Server{
		engine:   deps.Engine,
		articles: deps.Articles,
		comments: deps.Comments,
		topics:   deps.Topics,
		users:    deps.Users,
		health:   deps.Health,
		emitter:  emitter,
		metrics:  deps.Metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
	if cfg.RateLimitRPS > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(s.requestLoggerMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(jsonContentTypeMiddleware)

	r.NotFound(s.routeNotFound)
	r.MethodNotAllowed(s.routeNotFound)

	// Health endpoints (not rate limited)
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimitMiddleware)
		}

		r.Get("/", s.listEndpoints)
		r.Get("/topics", s.listTopics)

		r.Get("/articles", s.listArticles)
		r.Get("/articles/{article_id}", s.getArticle)
		r.Patch("/articles/{article_id}", s.patchArticleVotes)
		r.Get("/articles/{article_id}/comments", s.listArticleComments)
		r.Post("/articles/{article_id}/comments", s.postArticleComment)

		r.Delete("/comments/{comment_id}", s.deleteComment)

		r.Get("/users", s.listUsers)
		r.Get("/users/{username}", s.getUser)
	})

	s.routesDoc = docgen.JSONRoutesDoc(r)

	return r
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth(r.Context())
	if health.Healthy() {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status including connection pool usage.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.checkHealth(r.Context())
	if !health.Healthy() {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":         "ready",
		"database":       "healthy",
		"total_conns":    health.TotalConns,
		"acquired_conns": health.AcquiredConns,
		"idle_conns":     health.IdleConns,
		"max_conns":      health.MaxConns,
	})
}

func (s *Server) checkHealth(ctx context.Context) database.HealthStatus {
	if s.health == nil {
		return database.HealthStatus{Status: "unhealthy", Error: "database not configured"}
	}
	return s.health.Health(ctx)
}

// listEndpoints serves the generated description of every route.
func (s *Server) listEndpoints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]json.RawMessage{
		"endpoints": json.RawMessage(s.routesDoc),
	})
}

func (s *Server) routeNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, apierror.MsgRouteNotFound)
}
