// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/cart"
	"github.com/tomtom215/forkline/internal/models"
)

type fakeBreaker struct{ state gobreaker.State }

func (f fakeBreaker) BreakerState() gobreaker.State { return f.state }

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// fakeCarts records the key it was asked for.
type fakeCarts struct {
	gotKey string
	state  cart.State
}

func (f *fakeCarts) Refresh(_ context.Context, key string) cart.State {
	f.gotKey = key
	if key == "" {
		return cart.Empty()
	}
	return f.state
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil, nil, nil, "v1.2.3")
	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var live LiveStatus
	if err := json.Unmarshal(env.Data, &live); err != nil {
		t.Fatal(err)
	}
	if !env.Success || !live.Alive || live.Version != "v1.2.3" {
		t.Errorf("live = %+v, success = %v", live, env.Success)
	}
	if env.Meta == nil || env.Meta.Timestamp.IsZero() {
		t.Error("meta timestamp missing")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		breaker     gobreaker.State
		cacheErr    error
		wantCode    int
		wantBreaker string
		wantCacheOK bool
	}{
		{"closed breaker and cache up", gobreaker.StateClosed, nil, http.StatusOK, "closed", true},
		{"half-open still serves", gobreaker.StateHalfOpen, nil, http.StatusOK, "half-open", true},
		{"open breaker", gobreaker.StateOpen, nil, http.StatusServiceUnavailable, "open", true},
		{"cache down", gobreaker.StateClosed, errors.New("dial tcp: refused"), http.StatusServiceUnavailable, "closed", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(fakeBreaker{tt.breaker}, fakePinger{tt.cacheErr}, nil, "test")
			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			env := decodeEnvelope(t, rec)
			var ready ReadyStatus
			if err := json.Unmarshal(env.Data, &ready); err != nil {
				t.Fatal(err)
			}
			if ready.BreakerState != tt.wantBreaker || ready.CacheOK != tt.wantCacheOK {
				t.Errorf("ready = %+v", ready)
			}
			if ready.Ready != (tt.wantCode == http.StatusOK) || env.Success != ready.Ready {
				t.Errorf("ready = %v, success = %v", ready.Ready, env.Success)
			}
		})
	}
}

func TestHealthReady_NoCache(t *testing.T) {
	t.Parallel()

	h := NewHandler(fakeBreaker{gobreaker.StateClosed}, nil, nil, "test")
	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCartState(t *testing.T) {
	t.Parallel()

	carts := &fakeCarts{state: cart.State{
		Count: 3,
		Carts: []models.Cart{{ID: "c1", ProviderID: "p1", CartItems: []models.CartItem{{ID: "i1", MealID: "m1", Quantity: 3}}}},
	}}
	h := NewHandler(nil, nil, carts, "test")

	t.Run("signed in", func(t *testing.T) {
		sess := &models.Session{Session: models.SessionInfo{ID: "sess-9"}, User: models.AuthUser{ID: "u1"}}
		req := httptest.NewRequest(http.MethodGet, "/cart/state", nil)
		req = req.WithContext(authz.WithSession(req.Context(), sess))
		rec := httptest.NewRecorder()
		h.CartState(rec, req)

		if carts.gotKey != "s:sess-9" {
			t.Errorf("key = %q, want s:sess-9", carts.gotKey)
		}
		var got cart.State
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Count != 3 || len(got.Carts) != 1 || got.Carts[0].ID != "c1" {
			t.Errorf("state = %+v", got)
		}
		if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
			t.Errorf("Cache-Control = %q", cc)
		}
	})

	t.Run("signed out", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CartState(rec, httptest.NewRequest(http.MethodGet, "/cart/state", nil))
		if body := rec.Body.String(); body != "{\"count\":0,\"carts\":[]}\n" {
			t.Errorf("body = %q", body)
		}
	})
}

func TestBackendError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"unavailable", &backend.APIError{Status: http.StatusServiceUnavailable, Endpoint: "/api/meals"}, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"client error keeps status", &backend.APIError{Status: http.StatusConflict, Message: "Meal already in cart", Endpoint: "/api/carts"}, http.StatusConflict, ErrCodeConflict},
		{"transport error", errors.New("connection reset"), http.StatusBadGateway, ErrCodeExternalServiceFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)).BackendError(tt.err)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			env := decodeEnvelope(t, rec)
			if env.Success || env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}
