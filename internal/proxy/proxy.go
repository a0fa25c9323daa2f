// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package proxy forwards browser calls on /api/* and /api/auth/* to the
// backend so session cookies end up on the storefront's own domain.
//
// Only an allowlist of request headers travels upstream and only
// Content-Type, Location and Set-Cookie travel back. Set-Cookie values lose
// their Domain attribute and have SameSite forced to Lax. Redirects are
// passed through untouched so OAuth 302s and their cookies reach the browser.
package proxy

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/metrics"
)

// Route names, used as metric labels.
const (
	RouteAPI  = "api"
	RouteAuth = "auth"
)

var (
	domainAttr   = regexp.MustCompile(`(?i);\s*Domain=[^;]*`)
	sameSiteAttr = regexp.MustCompile(`(?i);\s*SameSite=[^;]*`)
)

// RewriteSetCookie strips the Domain attribute from a Set-Cookie value and
// forces SameSite=Lax when a SameSite attribute is present.
func RewriteSetCookie(v string) string {
	v = domainAttr.ReplaceAllString(v, "")
	return sameSiteAttr.ReplaceAllString(v, "; SameSite=Lax")
}

// Config describes one proxied route.
type Config struct {
	// Route is RouteAPI or RouteAuth.
	Route string

	// Target is the backend base URL. Trailing slashes are ignored.
	Target string

	// SendOrigin adds an Origin header upstream. The auth provider rejects
	// requests without one.
	SendOrigin bool

	// Origin is sent when the browser supplied none. Empty means the
	// origin of the incoming request.
	Origin string

	// ErrorMessage is the JSON error returned on transport failure.
	ErrorMessage string

	// Transport overrides the upstream round tripper, mainly for tests.
	Transport http.RoundTripper

	// Timeout bounds the upstream response header wait. Zero means 30s.
	Timeout time.Duration
}

// Proxy is an http.Handler forwarding one route family to the backend.
type Proxy struct {
	cfg    Config
	target *url.URL
	rp     *httputil.ReverseProxy
}

// New builds a proxy for cfg.
func New(cfg Config) (*Proxy, error) {
	target, err := url.Parse(strings.TrimRight(cfg.Target, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse proxy target: %w", err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("proxy target %q must be http or https", cfg.Target)
	}
	if cfg.Route == "" {
		cfg.Route = RouteAPI
	}
	if cfg.ErrorMessage == "" {
		cfg.ErrorMessage = "API proxy failed"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = cfg.Timeout
		transport = t
	}

	p := &Proxy{cfg: cfg, target: target}
	p.rp = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		Transport:      transport,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.handleError,
	}
	return p, nil
}

// NewAPI builds the general /api/* proxy.
func NewAPI(target string) (*Proxy, error) {
	return New(Config{Route: RouteAPI, Target: target, ErrorMessage: "API proxy failed"})
}

// NewAuth builds the /api/auth/* proxy. origin is the storefront's public
// origin, sent when the browser omits Origin.
func NewAuth(target, origin string) (*Proxy, error) {
	return New(Config{
		Route:        RouteAuth,
		Target:       target,
		SendOrigin:   true,
		Origin:       origin,
		ErrorMessage: "Auth proxy failed",
	})
}

// Methods lists the HTTP methods the proxy accepts.
var Methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.rp.ServeHTTP(w, r)
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	in, out := pr.In, pr.Out

	out.URL.Scheme = p.target.Scheme
	out.URL.Host = p.target.Host
	out.URL.Path = p.target.Path + in.URL.Path
	out.URL.RawPath = ""
	out.URL.RawQuery = in.URL.RawQuery
	out.Host = p.target.Host

	h := make(http.Header, 4)
	if cookies := in.Header.Values("Cookie"); len(cookies) > 0 {
		h.Set("Cookie", strings.Join(cookies, "; "))
	}
	if ct := in.Header.Get("Content-Type"); ct != "" {
		h.Set("Content-Type", ct)
	}
	accept := in.Header.Get("Accept")
	if accept == "" {
		accept = "application/json"
	}
	h.Set("Accept", accept)
	if p.cfg.SendOrigin {
		origin := in.Header.Get("Origin")
		if origin == "" {
			origin = p.originFor(in)
		}
		h.Set("Origin", origin)
	}
	out.Header = h

	if in.Method == http.MethodGet || in.Method == http.MethodHead {
		out.Body = http.NoBody
		out.ContentLength = 0
	}
}

// originFor returns the configured origin or the origin of r.
func (p *Proxy) originFor(r *http.Request) string {
	if p.cfg.Origin != "" {
		if u, err := url.Parse(p.cfg.Origin); err == nil && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	h := make(http.Header, 3)
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		h.Set("Content-Type", ct)
	}
	if loc := resp.Header.Get("Location"); loc != "" {
		h.Set("Location", loc)
	}
	cookies := resp.Header.Values("Set-Cookie")
	for _, c := range cookies {
		h.Add("Set-Cookie", RewriteSetCookie(c))
	}
	if len(cookies) > 0 {
		metrics.ProxyCookiesRewritten.WithLabelValues(p.cfg.Route).Add(float64(len(cookies)))
	}
	resp.Header = h

	metrics.RecordProxyRequest(p.cfg.Route, resp.Request.Method, resp.StatusCode)
	return nil
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// client went away
		logging.Ctx(r.Context()).Debug().Err(err).Str("route", p.cfg.Route).Msg("Proxy request canceled")
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).
		Str("route", p.cfg.Route).
		Str("path", r.URL.Path).
		Msg("Proxy upstream failed")
	metrics.RecordProxyRequest(p.cfg.Route, r.Method, http.StatusBadGateway)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": p.cfg.ErrorMessage}); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write proxy error")
	}
}
