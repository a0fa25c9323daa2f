// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/metrics"
)

// warmupTimeout bounds a single scheduled warmup.
const warmupTimeout = 30 * time.Second

// Refresher runs Warmup on a cron schedule. It implements suture.Service.
type Refresher struct {
	svc      *Service
	schedule string
	warmNow  bool
	name     string
}

// NewRefresher creates a refresher for schedule, a standard cron expression
// or descriptor such as "@every 5m". When warmNow is set the cache is warmed
// once at start.
func NewRefresher(svc *Service, schedule string, warmNow bool) *Refresher {
	return &Refresher{svc: svc, schedule: schedule, warmNow: warmNow, name: "catalog-refresher"}
}

// Serve runs until ctx is canceled.
func (r *Refresher) Serve(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(r.schedule, func() { r.run(ctx) }); err != nil {
		return fmt.Errorf("invalid catalog refresh schedule %q: %w", r.schedule, err)
	}

	if r.warmNow {
		r.run(ctx)
	}

	c.Start()
	logging.Info().Str("schedule", r.schedule).Msg("Catalog refresher started")

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func (r *Refresher) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	start := time.Now()
	if err := r.svc.Warmup(wctx); err != nil {
		metrics.CatalogRefreshes.WithLabelValues("failure").Inc()
		logging.Warn().Err(err).Msg("Catalog warmup failed")
		return
	}
	metrics.CatalogRefreshes.WithLabelValues("success").Inc()
	logging.Debug().Dur("duration", time.Since(start)).Msg("Catalog warmed")
}

func (r *Refresher) String() string {
	return r.name
}
