// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/middleware"
	"github.com/tomtom215/forkline/internal/proxy"
	"github.com/tomtom215/forkline/internal/web"
)

// slowRequest is the access log threshold for WARN.
const slowRequest = 2 * time.Second

// RouterDeps are the handlers and middleware the router wires together.
type RouterDeps struct {
	Config    *config.Config
	API       *Handler
	Pages     *web.Handler
	APIProxy  http.Handler
	AuthProxy http.Handler
	WebSocket http.Handler
	Sessions  authz.SessionResolver
	Guard     *authz.Guard
}

func (d RouterDeps) validate() error {
	switch {
	case d.Config == nil:
		return errors.New("router: config is required")
	case d.API == nil || d.Pages == nil:
		return errors.New("router: handlers are required")
	case d.APIProxy == nil || d.AuthProxy == nil:
		return errors.New("router: proxies are required")
	case d.Sessions == nil || d.Guard == nil:
		return errors.New("router: session resolver and guard are required")
	}
	return nil
}

// NewRouter builds the storefront's route tree.
//
// Route layout:
//
//	/healthz, /readyz       health checks (JSON envelope)
//	/metrics                Prometheus
//	/api/auth/*             auth proxy
//	/api/*                  backend API proxy
//	/static/*               embedded assets
//	/cart/state             cart mirror JSON
//	/ws/orders              live order status
//	everything else         server-rendered pages behind the route guard
func NewRouter(d RouterDeps) (chi.Router, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	mw := NewChiMiddleware(NewChiMiddlewareConfig(d.Config.Security))
	sessions := authz.SessionMiddleware(d.Sessions)

	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(slowRequest))
	r.Use(mw.CORS()) // must be global to answer OPTIONS preflight

	// ========================
	// Health and Metrics
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/healthz", d.API.HealthLive)
		r.Get("/readyz", d.API.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Backend Proxies
	// ========================
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		auth := r.With(mw.RateLimitAuth())
		api := r.With(mw.RateLimit())
		for _, m := range proxy.Methods {
			auth.Method(m, "/auth/*", d.AuthProxy)
			api.Method(m, "/*", d.APIProxy)
		}
	})

	// ========================
	// Static Assets
	// ========================
	r.With(middleware.Compression).Get("/static/*", d.Pages.Static)

	// ========================
	// Session JSON and Realtime
	// ========================
	// These resolve the session but answer signed-out callers themselves
	// rather than redirecting to the login page.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(sessions)

		r.With(mw.RateLimit(), APISecurityHeaders()).Get("/cart/state", d.API.CartState)
		if d.WebSocket != nil {
			r.With(mw.RateLimitWebSocket()).Get("/ws/orders", d.WebSocket.ServeHTTP)
		}
	})

	// ========================
	// Pages
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)
		r.Use(PageSecurityHeaders())
		r.Use(sessions)
		r.Use(d.Guard.Middleware)

		p := d.Pages

		// Catalog
		r.Get("/", p.Home)
		r.Get("/restaurants", p.Restaurants)
		r.Get("/restaurants/{id}", p.Restaurant)
		r.Get("/meals", p.Meals)
		r.Get("/meals/{id}", p.Meal)
		r.Get("/login", p.Login)

		// Customer
		r.Get("/cart", p.Cart)
		r.Get("/orders", p.Orders)
		r.Get("/profile", p.Profile)

		// Provider
		r.Get("/provider-profile/create", p.ProviderProfileForm)
		r.Get("/provider/meals", p.ProviderMeals)
		r.Get("/provider/orders", p.ProviderOrders)

		// Admin
		r.Get("/admin/users", p.AdminUsers)
		r.Get("/admin/orders", p.AdminOrders)
		r.Get("/admin/categories", p.AdminCategories)

		// Form posts
		r.With(mw.RateLimitCheckout()).Post("/cart/checkout", p.Checkout)
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimitWrite())

			r.Post("/cart/items", p.AddToCart)
			r.Post("/cart/items/update", p.UpdateCartItem)
			r.Post("/cart/items/{itemID}/remove", p.RemoveCartItem)
			r.Post("/cart/{cartID}/remove", p.RemoveCart)
			r.Post("/orders/{id}/reviews", p.SubmitReview)
			r.Post("/profile", p.UpdateProfile)
			r.Post("/provider-profile/create", p.CreateProviderProfile)

			r.Post("/provider/meals", p.CreateMeal)
			r.Post("/provider/meals/{id}", p.UpdateMeal)
			r.Post("/provider/meals/{id}/delete", p.DeleteMeal)
			r.Post("/provider/orders/{id}/status", p.UpdateOrderStatus)

			r.Post("/admin/users/{id}/status", p.UpdateUserStatus)
			r.Post("/admin/categories", p.CreateCategory)
			r.Post("/admin/categories/{id}", p.UpdateCategory)
			r.Post("/admin/categories/{id}/toggle", p.ToggleCategory)
		})
	})

	notFound := PageSecurityHeaders()(sessions(http.HandlerFunc(d.Pages.NotFound)))
	r.NotFound(notFound.ServeHTTP)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).MethodNotAllowed()
	})

	return r, nil
}
