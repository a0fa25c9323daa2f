// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package api

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/forkline/internal/cart"
)

// BreakerReporter exposes the circuit breaker state of the backend client.
type BreakerReporter interface {
	BreakerState() gobreaker.State
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CartReader reloads the cart mirror of a session key.
type CartReader interface {
	Refresh(ctx context.Context, key string) cart.State
}

// Handler serves the storefront's own JSON endpoints: health checks and the
// cart mirror.
type Handler struct {
	backend   BreakerReporter
	cache     Pinger
	carts     CartReader
	version   string
	startTime time.Time
}

// NewHandler creates the JSON handlers. cache may be nil when caching is
// disabled.
func NewHandler(backend BreakerReporter, cache Pinger, carts CartReader, version string) *Handler {
	return &Handler{
		backend:   backend,
		cache:     cache,
		carts:     carts,
		version:   version,
		startTime: time.Now(),
	}
}
