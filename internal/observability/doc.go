// Package observability provides structured logging, Prometheus metrics and
// request-scoped context helpers for the newsboard service.
//
// # Logging
//
//	logger := observability.NewLogger(observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//	logger = observability.WithRequestContext(logger, requestID, correlationID)
//
// # Metrics
//
//	metrics := observability.NewMetrics("newsboard")
//	metrics.RecordArticleQuery(len(page))
//	metrics.RecordQueryRejected("sort")
//
// Tests should use NewMetricsWithRegistry with a fresh prometheus.Registry
// to avoid duplicate registration in the default registry.
//
// # Standard Fields
//
//   - request_id: chi request identifier
//   - correlation_id: caller-supplied or generated correlation identifier
//   - component: emitting package (http, articlequery, events, seed)
//   - route: matched chi route pattern
package observability
