// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package backend is the typed client for the marketplace REST API.
//
// Every backend response is wrapped in the envelope
//
//	{"success": true, "data": ..., "meta": {...}}
//
// and a call fails when the HTTP status is not 2xx or success is false. The
// error message is taken from "error" (a string or {"message": ...}), then
// "message", then the caller's fallback, then the HTTP status text.
//
// The caller's session cookie travels in the context (WithCookies) and is
// forwarded on every call, so the backend sees the same session the browser
// holds. All calls pass through an outbound rate limiter and a circuit breaker.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/metrics"
)

// maxResponseBytes bounds how much of a backend response is read.
const maxResponseBytes = 8 << 20

type cookiesKey struct{}

// WithCookies returns a context that forwards the given Cookie header value
// on every backend call made with it.
func WithCookies(ctx context.Context, cookieHeader string) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookieHeader)
}

// CookiesFrom returns the Cookie header carried by ctx, or "".
func CookiesFrom(ctx context.Context) string {
	if v, ok := ctx.Value(cookiesKey{}).(string); ok {
		return v
	}
	return ""
}

// envelope is the decoded backend response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`

	// raw holds the whole body for endpoints that are not enveloped.
	raw []byte
}

// Client calls the marketplace backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[*envelope]
	limiter    *rate.Limiter
	name       string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the backend base URL from config.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// New creates a backend client from config.
func New(cfg *config.BackendConfig, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxIdleConns,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, burst),
		name:    "backend-api",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cb = newBreaker(c.name, cfg.CircuitBreaker)
	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

// call describes one backend request.
type call struct {
	method   string
	path     string // concrete path, e.g. /api/meals/42
	endpoint string // route template used as the metrics label, e.g. /api/meals/{id}
	query    url.Values
	body     any
	fallback string
	raw      bool // body is not enveloped
}

// execute sends a call through the limiter and the circuit breaker.
func (c *Client) execute(ctx context.Context, cl call) (*envelope, error) {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordBackendRequest(cl.endpoint, "rejected", time.Since(start))
		return nil, fmt.Errorf("backend rate limiter: %w", err)
	}

	env, err := c.cb.Execute(func() (*envelope, error) {
		return c.roundTrip(ctx, cl)
	})

	outcome := "ok"
	var apiErr *APIError
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("endpoint", cl.endpoint).Msg("[CIRCUIT BREAKER] Request rejected")
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	case errors.As(err, &apiErr):
		outcome = "api_error"
		result := "success"
		if !apiErr.IsClientError() {
			result = "failure"
		}
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, result).Inc()
	default:
		outcome = "transport_error"
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
	}
	metrics.RecordBackendRequest(cl.endpoint, outcome, time.Since(start))

	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, cl call) (*envelope, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader = http.NoBody
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s body: %w", cl.endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookies := CookiesFrom(ctx); cookies != "" {
		req.Header.Set("Cookie", cookies)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s %s failed: %w", cl.method, cl.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", cl.endpoint, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if cl.raw {
		if !ok {
			return nil, c.apiError(cl, resp, data)
		}
		return &envelope{Success: true, raw: data}, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if !ok {
			return nil, c.apiError(cl, resp, data)
		}
		return nil, fmt.Errorf("failed to decode %s response: %w", cl.endpoint, err)
	}
	if !ok || !env.Success {
		return nil, c.apiError(cl, resp, data)
	}
	return &env, nil
}

// apiError builds the error for a rejected call. A 2xx status with
// success=false is reported as 400 so it reads as the caller's fault.
func (c *Client) apiError(cl call, resp *http.Response, body []byte) *APIError {
	status := resp.StatusCode
	if status >= 200 && status < 300 {
		status = http.StatusBadRequest
	}
	msg := extractMessage(body)
	if msg == "" {
		msg = cl.fallback
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: status, Message: msg, Endpoint: cl.endpoint}
}

// extractMessage pulls a human-readable error out of an arbitrary backend body.
func extractMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	e := gjson.GetBytes(body, "error")
	switch {
	case e.Type == gjson.String && e.Str != "":
		return e.Str
	case e.IsObject():
		if m := e.Get("message"); m.Type == gjson.String && m.Str != "" {
			return m.Str
		}
	}
	if m := gjson.GetBytes(body, "message"); m.Type == gjson.String {
		return m.Str
	}
	return ""
}

// get performs an enveloped GET.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, fallback string) (*envelope, error) {
	return c.execute(ctx, call{method: http.MethodGet, path: path, endpoint: endpoint, query: query, fallback: fallback})
}

// send performs an enveloped mutation with an optional JSON body.
func (c *Client) send(ctx context.Context, method, endpoint, path string, body any, fallback string) (*envelope, error) {
	return c.execute(ctx, call{method: method, path: path, endpoint: endpoint, body: body, fallback: fallback})
}

// decodeData unmarshals the envelope's data field into T. A missing or null
// data field yields T's zero value.
func decodeData[T any](env *envelope, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("failed to decode response data: %w", err)
	}
	return out, nil
}

// decodeMeta unmarshals the envelope's meta field into T.
func decodeMeta[T any](env *envelope) T {
	var out T
	if len(env.Meta) == 0 {
		return out
	}
	if err := json.Unmarshal(env.Meta, &out); err != nil {
		logging.Debug().Err(err).Msg("ignoring malformed response meta")
	}
	return out
}

// pageQuery builds the page/limit query used by every paginated endpoint.
func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page < 1 {
		page = 1
	}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	return q
}

// seg escapes a caller-supplied ID for use as a single path segment.
func seg(id string) string {
	return url.PathEscape(id)
}
