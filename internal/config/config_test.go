// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Backend.APIURL = "http://localhost:5000"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with backend", func(*Config) {}, ""},
		{"public backend only", func(c *Config) {
			c.Backend.APIURL = ""
			c.Backend.PublicAPIURL = "https://api.example.com"
		}, ""},
		{"bad backend scheme", func(c *Config) { c.Backend.APIURL = "ftp://x" }, "scheme must be http or https"},
		{"backend with query", func(c *Config) { c.Backend.APIURL = "http://x/?a=1" }, "query parameters"},
		{"backend with path prefix", func(c *Config) { c.Backend.APIURL = "http://x/v1" }, ""},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "APP_ENV"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, "REDIS_ADDR"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"bad cron", func(c *Config) { c.Catalog.RefreshSchedule = "whenever" }, "CATALOG_REFRESH_SCHEDULE"},
		{"rate limit off skips bounds", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"rate limit too low", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"bad breaker ratio", func(c *Config) { c.Backend.CircuitBreaker.FailureRatio = 1.5 }, "FAILURE_RATIO"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAuthBackendURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		env         string
		private     string
		public      string
		wantBackend string
	}{
		{"development uses private", EnvDevelopment, "http://private", "https://public", "http://private"},
		{"production uses public", EnvProduction, "http://private", "https://public", "https://public"},
		{"production falls back to private", EnvProduction, "http://private", "", "http://private"},
		{"development falls back to public", EnvDevelopment, "", "https://public", "https://public"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			cfg.App.Environment = tt.env
			cfg.Backend.APIURL = tt.private
			cfg.Backend.PublicAPIURL = tt.public
			if got := cfg.AuthBackendURL(); got != tt.wantBackend {
				t.Errorf("AuthBackendURL() = %q, want %q", got, tt.wantBackend)
			}
		})
	}
}

func TestAPIProxyURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     string
		private string
		public  string
		want    string
	}{
		{"public preferred", EnvDevelopment, "http://private", "https://public", "https://public"},
		{"public preferred in production", EnvProduction, "http://private", "https://public", "https://public"},
		{"private fallback", EnvDevelopment, "http://private", "", "http://private"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			cfg.App.Environment = tt.env
			cfg.Backend.APIURL = tt.private
			cfg.Backend.PublicAPIURL = tt.public
			if got := cfg.APIProxyURL(); got != tt.want {
				t.Errorf("APIProxyURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()
	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	if got := s.Addr(); got != "127.0.0.1:3000" {
		t.Errorf("Addr() = %q", got)
	}
}
