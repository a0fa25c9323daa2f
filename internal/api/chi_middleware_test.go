// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// =====================================================
// ChiMiddleware Configuration Tests
// =====================================================

func TestNewChiMiddleware_DefaultConfig(t *testing.T) {
	m := NewChiMiddleware(nil)

	if m == nil {
		t.Fatal("NewChiMiddleware returned nil")
	}
	// Default should be empty (secure by default - requires explicit configuration)
	if len(m.config.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want []", m.config.CORSAllowedOrigins)
	}
	if m.config.CORSMaxAge != 86400 {
		t.Errorf("CORSMaxAge = %d, want 86400", m.config.CORSMaxAge)
	}
}

func TestNewChiMiddlewareConfig_FromSecurity(t *testing.T) {
	cfg := NewChiMiddlewareConfig(config.SecurityConfig{
		CORSOrigins:     []string{"https://forkline.test"},
		RateLimitReqs:   200,
		RateLimitWindow: 2 * time.Minute,
	})

	if !cfg.CORSAllowCredentials {
		t.Error("credentials should be allowed when origins are listed")
	}
	if cfg.RateLimitRequests != 200 {
		t.Errorf("RateLimitRequests = %d, want 200", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != 2*time.Minute {
		t.Errorf("RateLimitWindow = %v, want 2m", cfg.RateLimitWindow)
	}

	empty := NewChiMiddlewareConfig(config.SecurityConfig{})
	if empty.CORSAllowCredentials {
		t.Error("credentials allowed without origins")
	}
	if empty.RateLimitRequests != 100 {
		t.Errorf("default RateLimitRequests = %d, want 100", empty.RateLimitRequests)
	}
}

// =====================================================
// CORS Middleware Tests
// =====================================================

func TestCORS_Preflight(t *testing.T) {
	m := NewChiMiddleware(NewChiMiddlewareConfig(config.SecurityConfig{
		CORSOrigins: []string{"https://forkline.test"},
	}))
	handler := m.CORS()(http.HandlerFunc(okHandler))

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{"allowed origin", "https://forkline.test", "https://forkline.test"},
		{"foreign origin", "https://evil.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/carts", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

// =====================================================
// Rate Limit Tests
// =====================================================

func TestRateLimitCustom_Rejects(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 100, RateLimitWindow: time.Minute})

	r := chi.NewRouter()
	r.With(m.RateLimitCustom(RateLimitConfig{Requests: 2, Window: time.Minute})).Post("/cart/checkout", okHandler)

	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/cart/checkout"))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/cart/checkout", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			if !strings.Contains(rec.Body.String(), ErrCodeTooManyRequests) {
				t.Errorf("429 body = %s", rec.Body.String())
			}
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
	if got := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/cart/checkout")) - before; got != 1 {
		t.Errorf("rate limit hits = %v, want 1", got)
	}
}

func TestRateLimitCustom_Disabled(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	handler := m.RateLimitCustom(RateLimitConfig{Requests: 1, Window: time.Minute})(http.HandlerFunc(okHandler))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

// =====================================================
// Security Header Tests
// =====================================================

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mw      func(http.Handler) http.Handler
		tls     bool
		want    map[string]string
		missing []string
	}{
		{
			name: "api",
			mw:   APISecurityHeaders(),
			want: map[string]string{
				"X-Content-Type-Options": "nosniff",
				"X-Frame-Options":        "DENY",
				"Cache-Control":          "no-store",
			},
			missing: []string{"Content-Security-Policy", "Strict-Transport-Security"},
		},
		{
			name: "page over https",
			mw:   PageSecurityHeaders(),
			tls:  true,
			want: map[string]string{
				"Content-Security-Policy":   pageCSP,
				"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.tls {
				req.Header.Set("X-Forwarded-Proto", "https")
			}
			rec := httptest.NewRecorder()
			tt.mw(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

			for k, v := range tt.want {
				if got := rec.Header().Get(k); got != v {
					t.Errorf("%s = %q, want %q", k, got, v)
				}
			}
			for _, k := range tt.missing {
				if got := rec.Header().Get(k); got != "" {
					t.Errorf("%s = %q, want unset", k, got)
				}
			}
		})
	}
}
