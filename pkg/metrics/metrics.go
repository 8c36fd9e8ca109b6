// Package metrics provides the centralized Prometheus metrics registry for
// the aggregation engine. All metrics are defined in their respective
// packages (lodestone, cache, ratelimit, aggregate) to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the engine.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/lodestone):
//   - lodestone_requests_total{endpoint, status} (Counter): Total upstream requests by endpoint and HTTP status
//   - lodestone_request_duration_seconds{endpoint} (Histogram): Upstream request duration by endpoint
//   - lodestone_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/lodestone):
//   - lodestone_retries_total{error_class} (Counter): Retry attempts by error class
//   - lodestone_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - lodestone_cache_hits_total (Counter): Cache hits
//   - lodestone_cache_misses_total (Counter): Cache misses, including store errors degraded to misses
//   - lodestone_cache_errors_total{operation} (Counter): Cache operation errors by operation (get, set)
//
// Pacer Metrics (pkg/ratelimit):
//   - lodestone_pacer_tokens (Gauge): Tokens currently available in the batch pacer bucket
//   - lodestone_pacer_waits_total (Counter): Batch items that had to wait for a token
//
// Aggregation Metrics (pkg/aggregate):
//   - lodestone_aggregation_duration_seconds (Histogram): End-to-end duration of one character aggregation
//   - lodestone_sections_total{section, outcome} (Counter): Section resolutions by outcome (cached, public, private, error)
//   - lodestone_batch_characters_total{result} (Counter): Batch items by result (ok, error)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(lodestone_cache_hits_total[5m])) /
//   (sum(rate(lodestone_cache_hits_total[5m])) + sum(rate(lodestone_cache_misses_total[5m])))
//
//   # Section Privacy Rate
//   sum(rate(lodestone_sections_total{outcome="private"}[5m])) by (section)
//
//   # Request Error Rate
//   rate(lodestone_errors_total[5m])
//
//   # P95 Aggregation Latency
//   histogram_quantile(0.95, rate(lodestone_aggregation_duration_seconds_bucket[5m]))
