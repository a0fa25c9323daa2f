// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package main

import (
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forkline/internal/api"
	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/cache"
	"github.com/tomtom215/forkline/internal/cart"
	"github.com/tomtom215/forkline/internal/catalog"
	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/proxy"
	"github.com/tomtom215/forkline/internal/web"
	ws "github.com/tomtom215/forkline/internal/websocket"
)

const (
	cartIdleTTL       = time.Hour
	cartSweepInterval = 5 * time.Minute
	orderPollInterval = 10 * time.Second
)

// app is the wired storefront, ready to be served.
type app struct {
	cfg       *config.Config
	client    *backend.Client
	store     cache.Store
	refresher *catalog.Refresher
	carts     *cart.Manager
	hub       *ws.Hub
	router    chi.Router
}

// build wires every component around store. Nothing here talks to the
// backend; the first request or the catalog warmup does.
func build(cfg *config.Config, store cache.Store) (*app, error) {
	client := backend.New(&cfg.Backend)
	svc := backend.NewServices(client, time.Now)

	catalogSvc := catalog.New(svc.Catalog, store, catalog.Options{Revalidate: cfg.Cache.Revalidate})
	refresher := catalog.NewRefresher(catalogSvc, cfg.Catalog.RefreshSchedule, cfg.Catalog.Warmup)
	carts := cart.NewManager(svc.Cart, svc.Orders, cartIdleTTL, cart.WithFreshness(cfg.Cache.Revalidate))

	apiProxy, err := proxy.NewAPI(cfg.APIProxyURL())
	if err != nil {
		return nil, fmt.Errorf("failed to build api proxy: %w", err)
	}
	authProxy, err := proxy.NewAuth(cfg.AuthBackendURL(), cfg.App.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth proxy: %w", err)
	}

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build route policy: %w", err)
	}
	guard := authz.NewGuard(enforcer)

	pages, err := web.New(web.Deps{
		Config:   cfg,
		Services: svc,
		Catalog:  catalogSvc,
		Carts:    carts,
		Guard:    guard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build pages: %w", err)
	}

	hub := ws.NewHub(svc.Orders, orderPollInterval)
	origins := append([]string{cfg.App.URL}, cfg.Security.CORSOrigins...)

	router, err := api.NewRouter(api.RouterDeps{
		Config:    cfg,
		API:       api.NewHandler(client, store, carts, version),
		Pages:     pages,
		APIProxy:  apiProxy,
		AuthProxy: authProxy,
		WebSocket: ws.NewHandler(hub, origins),
		Sessions:  svc.Auth,
		Guard:     guard,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		client:    client,
		store:     store,
		refresher: refresher,
		carts:     carts,
		hub:       hub,
		router:    router,
	}, nil
}
