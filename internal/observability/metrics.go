package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics for the newsboard service,
// grouped by HTTP traffic, the article collection query, board writes and
// event publishing. A nil *Metrics records nothing.
type Metrics struct {
	// HTTPRequestsTotal counts responses, labeled by route pattern, method and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes handler latency in seconds, labeled by route and method.
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRateLimited counts requests refused by the rate limiter.
	HTTPRateLimited prometheus.Counter

	// ArticleQueries counts article collection queries that produced a page.
	ArticleQueries prometheus.Counter

	// ArticlesPerPage observes the number of articles returned per page.
	ArticlesPerPage prometheus.Histogram

	// QueryRejections counts rejected collection queries, labeled by parameter.
	QueryRejections *prometheus.CounterVec

	// VoteUpdates counts applied article vote changes.
	VoteUpdates prometheus.Counter

	// CommentsCreated counts inserted comments.
	CommentsCreated prometheus.Counter

	// CommentsDeleted counts deleted comments.
	CommentsDeleted prometheus.Counter

	// EventsPublished counts board events handed to the broker, labeled by event type.
	EventsPublished *prometheus.CounterVec

	// EventsFailed counts board events that could not be published, labeled by event type.
	EventsFailed *prometheus.CounterVec
}

// NewMetrics registers all metrics with the default Prometheus registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers all metrics with reg.
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method"}),
		HTTPRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}),

		// Article collection
		ArticleQueries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_queries_total",
			Help:      "Total number of article collection queries served",
		}),
		ArticlesPerPage: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "articles_per_page",
			Help:      "Distribution of the number of articles returned per page",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		QueryRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_rejections_total",
			Help:      "Total number of rejected collection queries by parameter",
		}, []string{"param"}),

		// Writes
		VoteUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_updates_total",
			Help:      "Total number of article vote changes applied",
		}),
		CommentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_created_total",
			Help:      "Total number of comments created",
		}),
		CommentsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_deleted_total",
			Help:      "Total number of comments deleted",
		}),

		// Events
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of board events published by type",
		}, []string{"event_type"}),
		EventsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Total number of board events that failed to publish by type",
		}, []string{"event_type"}),
	}
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(route, method string, status int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(durationSeconds)
}

// RecordRateLimited records a request refused by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.HTTPRateLimited.Inc()
}

// RecordArticleQuery records a served article page of the given size.
func (m *Metrics) RecordArticleQuery(returned int) {
	if m == nil {
		return
	}
	m.ArticleQueries.Inc()
	m.ArticlesPerPage.Observe(float64(returned))
}

// RecordQueryRejected records a rejected collection query parameter.
func (m *Metrics) RecordQueryRejected(param string) {
	if m == nil {
		return
	}
	m.QueryRejections.WithLabelValues(param).Inc()
}

// RecordVoteUpdate records an applied vote change.
func (m *Metrics) RecordVoteUpdate() {
	if m == nil {
		return
	}
	m.VoteUpdates.Inc()
}

// RecordCommentCreated records an inserted comment.
func (m *Metrics) RecordCommentCreated() {
	if m == nil {
		return
	}
	m.CommentsCreated.Inc()
}

// RecordCommentDeleted records a deleted comment.
func (m *Metrics) RecordCommentDeleted() {
	if m == nil {
		return
	}
	m.CommentsDeleted.Inc()
}

// RecordEventPublished records a published event.
func (m *Metrics) RecordEventPublished(eventType string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// RecordEventFailed records an event that could not be published.
func (m *Metrics) RecordEventFailed(eventType string) {
	if m == nil {
		return
	}
	m.EventsFailed.WithLabelValues(eventType).Inc()
}
