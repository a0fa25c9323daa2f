// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/cache"
	"github.com/tomtom215/forkline/internal/cart"
	"github.com/tomtom215/forkline/internal/catalog"
	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/proxy"
	"github.com/tomtom215/forkline/internal/web"
)

// marketplace is a minimal backend: sessions by cookie plus a meals list.
func marketplace(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/auth/get-session":
		cookie := r.Header.Get("Cookie")
		switch {
		case strings.Contains(cookie, "session=admin"):
			_, _ = io.WriteString(w, `{"session":{"id":"s-admin","userId":"u-admin"},"user":{"id":"u-admin","name":"Ada","role":"ADMIN"}}`)
		case strings.Contains(cookie, "session=customer"):
			_, _ = io.WriteString(w, `{"session":{"id":"s-cust","userId":"u-cust"},"user":{"id":"u-cust","name":"Cam","role":"CUSTOMER"}}`)
		default:
			_, _ = io.WriteString(w, `null`)
		}
	case "/api/meals":
		_, _ = io.WriteString(w, `{"success":true,"data":[],"meta":{"total":0,"page":1,"limit":9,"totalPages":0}}`)
	case "/api/carts":
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	case "/api/carts/count":
		_, _ = io.WriteString(w, `{"success":true,"data":{"count":0}}`)
	case "/api/admin/users":
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"Not found"}`)
	}
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(marketplace))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Backend: config.BackendConfig{
			APIURL:  srv.URL,
			Timeout: 5 * time.Second,
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureRatio: 0.9, MinRequests: 100,
			},
		},
		App:      config.AppConfig{URL: "https://forkline.test"},
		Security: config.SecurityConfig{RateLimitDisabled: true},
	}

	client := backend.New(&cfg.Backend)
	svc := backend.NewServices(client, nil)
	mem := cache.New(time.Minute, 100)
	t.Cleanup(mem.Close)
	store := cache.NewMemoryStore(mem)

	enforcer, err := authz.NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	guard := authz.NewGuard(enforcer)
	carts := cart.NewManager(svc.Cart, svc.Orders, time.Hour)

	pages, err := web.New(web.Deps{
		Config:   cfg,
		Services: svc,
		Catalog:  catalog.New(svc.Catalog, store, catalog.Options{}),
		Carts:    carts,
		Guard:    guard,
	})
	if err != nil {
		t.Fatalf("web.New() error = %v", err)
	}
	apiProxy, err := proxy.NewAPI(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	authProxy, err := proxy.NewAuth(srv.URL, cfg.App.URL)
	if err != nil {
		t.Fatal(err)
	}

	r, err := NewRouter(RouterDeps{
		Config:    cfg,
		API:       NewHandler(client, store, carts, "test"),
		Pages:     pages,
		APIProxy:  apiProxy,
		AuthProxy: authProxy,
		Sessions:  svc.Auth,
		Guard:     guard,
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	return r
}

func TestNewRouter_RequiresDeps(t *testing.T) {
	t.Parallel()

	if _, err := NewRouter(RouterDeps{}); err == nil {
		t.Fatal("NewRouter() with no deps succeeded")
	}
}

func TestRouter_Requests(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	tests := []struct {
		name         string
		method       string
		path         string
		cookie       string
		wantCode     int
		wantLocation string
		wantBody     string
	}{
		{"liveness", http.MethodGet, "/healthz", "", http.StatusOK, "", `"alive":true`},
		{"readiness", http.MethodGet, "/readyz", "", http.StatusOK, "", `"ready":true`},
		{"proxied api", http.MethodGet, "/api/meals?page=1", "", http.StatusOK, "", `"totalPages":0`},
		{"proxied auth", http.MethodGet, "/api/auth/get-session", "session=customer", http.StatusOK, "", `"u-cust"`},
		{"guest on auth page", http.MethodGet, "/orders", "", http.StatusFound, "/login?callbackUrl=%2Forders", ""},
		{"customer on admin page", http.MethodGet, "/admin/users", "session=customer", http.StatusFound, "/", ""},
		{"customer on provider page", http.MethodGet, "/provider/meals", "session=customer", http.StatusFound, "/", ""},
		{"admin on admin page", http.MethodGet, "/admin/users", "session=admin", http.StatusOK, "", "Users"},
		{"guest cart state", http.MethodGet, "/cart/state", "", http.StatusOK, "", `{"count":0,"carts":[]}`},
		{"static asset", http.MethodGet, "/static/favicon.svg", "", http.StatusOK, "", "<svg"},
		{"unknown page", http.MethodGet, "/nowhere", "", http.StatusNotFound, "", "<html"},
		{"wrong method", http.MethodDelete, "/healthz", "", http.StatusMethodNotAllowed, "", ErrCodeMethodNotAllowed},
		{"guest form post", http.MethodPost, "/cart/checkout", "", http.StatusFound, "/login?callbackUrl=%2Fcart%2Fcheckout", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", tt.cookie)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("%s %s status = %d, want %d (body %s)", tt.method, tt.path, rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
				}
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body missing %q: %s", tt.wantBody, rec.Body.String())
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("X-Request-ID not set")
			}
		})
	}
}

func TestRouter_PageRoutesRegistered(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	got := map[string]bool{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}

	for _, want := range []string{
		"GET /",
		"GET /meals/{id}",
		"GET /provider-profile/create",
		"POST /cart/items",
		"POST /cart/{cartID}/remove",
		"POST /orders/{id}/reviews",
		"POST /provider/orders/{id}/status",
		"POST /admin/categories/{id}/toggle",
		"GET /cart/state",
		"PATCH /api/*",
		"DELETE /api/auth/*",
	} {
		if !got[want] {
			t.Errorf("route %q not registered", want)
		}
	}
}
