// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package api

import (
	"context"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/forkline/internal/logging"
)

// readyTimeout bounds the dependency checks of one readiness check.
const readyTimeout = 2 * time.Second

// LiveStatus is the liveness check payload.
type LiveStatus struct {
	Alive   bool    `json:"alive"`
	Version string  `json:"version"`
	Uptime  float64 `json:"uptime_seconds"`
}

// ReadyStatus is the readiness check payload.
type ReadyStatus struct {
	Ready        bool    `json:"ready"`
	BreakerState string  `json:"backend_breaker"`
	CacheOK      bool    `json:"cache_ok"`
	Uptime       float64 `json:"uptime_seconds"`
}

// HealthLive handles liveness check requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, LiveStatus{
		Alive:   true,
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness check requests (Kubernetes-style).
// Returns 200 only while the backend circuit is not open and the cache
// store answers; otherwise 503 with the same body.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadyStatus{
		BreakerState: gobreaker.StateClosed.String(),
		CacheOK:      true,
		Uptime:       time.Since(h.startTime).Seconds(),
	}

	breakerOK := true
	if h.backend != nil {
		state := h.backend.BreakerState()
		status.BreakerState = state.String()
		breakerOK = state != gobreaker.StateOpen
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness: cache store unreachable")
			status.CacheOK = false
		}
	}

	status.Ready = breakerOK && status.CacheOK
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	NewResponseWriter(w, r).SuccessWithStatus(code, status)
}
