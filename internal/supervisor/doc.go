// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

/*
Package supervisor provides process supervision for Forkline using suture v4.

# Overview

Long-running work is organized into two layers for failure isolation:

	RootSupervisor ("forkline")
	├── CacheSupervisor ("cache-layer")
	│   ├── catalog.Refresher        (cron warmup of catalog lists)
	│   ├── OrderHubService          (live order status polling)
	│   └── CartSweeperService       (drops idle cart mirrors)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing background job is restarted with backoff by its own layer and
never takes the HTTP server down with it.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddCacheService(refresher)
	tree.AddCacheService(services.NewOrderHubService(hub))
	tree.AddCacheService(services.NewCartSweeperService(carts, 5*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

# Logging

Supervisor events (service panics, terminations, backoff) go through
sutureslog into the zerolog-backed slog handler from internal/logging.

# Shutdown

On context cancellation every service gets ShutdownTimeout to return.
Services still running afterwards are listed by UnstoppedServiceReport.
*/
package supervisor
