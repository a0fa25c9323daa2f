// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package config loads Forkline configuration from defaults, an optional YAML
// file, and environment variables (in that order of precedence, lowest first).
//
// The environment variable names follow the ones the storefront has always
// been deployed with (BACKEND_API, NEXT_PUBLIC_BACKEND_API, NEXT_PUBLIC_APP_URL
// and friends), so existing deployment manifests keep working.
//
// Config is immutable after LoadWithKoanf returns and safe for concurrent reads.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Environment names accepted in app.environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all application configuration.
type Config struct {
	Backend  BackendConfig  `koanf:"backend"`
	App      AppConfig      `koanf:"app"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Images   ImagesConfig   `koanf:"images"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// BackendConfig describes the marketplace REST API the storefront sits on.
type BackendConfig struct {
	// APIURL is the server-side backend base URL (BACKEND_API).
	APIURL string `koanf:"api_url"`

	// PublicAPIURL is the publicly reachable backend URL (NEXT_PUBLIC_BACKEND_API).
	// The /api proxy always prefers it; the auth proxy prefers it in production.
	PublicAPIURL string `koanf:"public_api_url"`

	Timeout        time.Duration        `koanf:"timeout"`
	MaxIdleConns   int                  `koanf:"max_idle_conns"`
	RateLimitRPS   float64              `koanf:"rate_limit_rps"`
	RateLimitBurst int                  `koanf:"rate_limit_burst"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// CircuitBreakerConfig tunes the gobreaker instance in front of the backend.
type CircuitBreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	FailureRatio float64       `koanf:"failure_ratio"`
	MinRequests  uint32        `koanf:"min_requests"`
}

// AppConfig holds storefront-level URLs and the deployment environment.
type AppConfig struct {
	// URL is the public storefront origin (NEXT_PUBLIC_APP_URL).
	URL string `koanf:"url"`

	// FrontendURL is the storefront URL as known to the backend (FRONTEND_API).
	FrontendURL string `koanf:"frontend_url"`

	// APIURL is the storefront's own API base (API_URL / NEXT_PUBLIC_API_URL).
	APIURL string `koanf:"api_url"`

	Environment string `koanf:"environment"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds CORS and inbound rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// CacheConfig selects and tunes the catalog cache store.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string `koanf:"backend"`

	// Revalidate is how long a catalog response stays fresh.
	Revalidate time.Duration `koanf:"revalidate"`

	MaxEntries    int    `koanf:"max_entries"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`
}

// CatalogConfig controls the scheduled catalog warmup.
type CatalogConfig struct {
	RefreshSchedule string `koanf:"refresh_schedule"`
	Warmup          bool   `koanf:"warmup"`
}

// ImagesConfig lists hosts allowed for remote dish and restaurant images.
type ImagesConfig struct {
	RemoteHosts []string `koanf:"remote_hosts"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthBackendURL returns the backend base URL used by the auth proxy.
// Production deployments prefer the public backend URL; everything else uses
// the server-side one. Either falls back to the other when unset.
func (c *Config) AuthBackendURL() string {
	primary, fallback := c.Backend.APIURL, c.Backend.PublicAPIURL
	if c.IsProduction() {
		primary, fallback = fallback, primary
	}
	if primary != "" {
		return primary
	}
	return fallback
}

// APIProxyURL returns the backend base URL for the general /api proxy: the
// public backend URL when set, else the server-side one.
func (c *Config) APIProxyURL() string {
	if c.Backend.PublicAPIURL != "" {
		return c.Backend.PublicAPIURL
	}
	return c.Backend.APIURL
}

// IsProduction reports whether app.environment is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.App.Environment)
	return env == EnvProduction || env == "prod"
}

// IsDevelopment reports whether app.environment is development.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.App.Environment)
	return env == "" || env == EnvDevelopment || env == "dev"
}
