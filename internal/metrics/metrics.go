// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package metrics holds the Prometheus collectors for the storefront:
// inbound HTTP, backend API calls, the circuit breaker, the catalog cache,
// the edge proxy, cart mutations, and the live order WebSocket feed.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inbound HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_requests_total",
			Help: "Total number of storefront HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_request_duration_seconds",
			Help:    "Storefront HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_requests",
			Help: "Current number of in-flight storefront requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Backend API calls
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of calls to the marketplace backend",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, api_error, transport_error, rejected
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of calls to the marketplace backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Catalog cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheRevalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_tag_revalidations_total",
			Help: "Total number of tag revalidations",
		},
		[]string{"tag"},
	)

	CatalogRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_runs_total",
			Help: "Total number of scheduled catalog warmups",
		},
		[]string{"result"},
	)

	// Edge proxy
	ProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_requests_total",
			Help: "Total number of requests forwarded by the edge proxy",
		},
		[]string{"route", "method", "status_code"},
	)

	ProxyCookiesRewritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_set_cookie_rewrites_total",
			Help: "Total number of Set-Cookie headers rewritten by the edge proxy",
		},
		[]string{"route"},
	)

	// Cart mirror
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Total number of optimistic cart mutations",
		},
		[]string{"operation", "result"}, // result: success, rolled_back
	)

	CartRefetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_refetches_total",
			Help: "Total number of cart reconciliation refetches",
		},
		[]string{"result"}, // applied, stale, failed
	)

	CartSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_sessions",
			Help: "Current number of cart mirrors held in memory",
		},
	)

	// Route guard
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "route_guard_decisions_total",
			Help: "Total number of route guard decisions",
		},
		[]string{"decision"}, // allow, login, home
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)
)

// RecordAPIRequest records an inbound request
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight inbound requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBackendRequest records one backend call. endpoint should be a route
// template ("/api/meals/{id}"), never a concrete path, to bound cardinality.
func RecordBackendRequest(endpoint, outcome string, duration time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordProxyRequest records one request forwarded by the edge proxy
func RecordProxyRequest(route, method string, status int) {
	ProxyRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// RecordCartMutation records the outcome of an optimistic cart mutation
func RecordCartMutation(operation string, success bool) {
	result := "success"
	if !success {
		result = "rolled_back"
	}
	CartMutations.WithLabelValues(operation, result).Inc()
}
