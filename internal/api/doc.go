// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

/*
Package api wires the storefront's HTTP surface onto a chi router.

Key Components:

  - NewRouter: the route tree and middleware stack
  - Handler: the storefront's own JSON endpoints (health checks, cart state)
  - ChiMiddleware: CORS and per-route httprate limiters
  - ResponseWriter: the standard JSON envelope for storefront responses

Middleware Stack:

Every request passes request ID, real IP, panic recovery, access logging and
CORS. Route groups then add their own layers:

  - health checks: permissive rate limit and API security headers
  - /api/*: Prometheus metrics and the auth or general rate limit, then the
    reverse proxy
  - pages: Prometheus metrics, gzip, page security headers (CSP), session
    resolution and the role route guard
  - form posts additionally pass the write or checkout rate limit

Response Format:

Storefront JSON endpoints answer with

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}

or on failure

	{"success": false, "error": {"code": "...", "message": "...", "request_id": "..."}}

Proxied backend responses and /cart/state pass through without the envelope.
*/
package api
