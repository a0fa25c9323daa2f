// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

/*
Package middleware provides the storefront's infrastructure HTTP middleware.

Key Components:

  - RequestID: UUID request IDs wired into the logging context
  - PrometheusMetrics: request counts and latency labelled by chi route pattern
  - Compression: pooled gzip for page and JSON responses
  - AccessLog: one log line per request, raised to WARN for slow requests

Every component has the chi signature func(http.Handler) http.Handler so it
can be passed straight to Router.Use.

Middleware Stack:

	r.Use(middleware.RequestID)          // first, so every log line carries it
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(time.Second))

Compression is mounted per route group: the edge proxy and the websocket
endpoint must see the raw ResponseWriter.
*/
package middleware
