// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/forkline/config.yaml",
	"/etc/forkline/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultRemoteImageHosts are the image CDNs dish and restaurant artwork is served from.
var DefaultRemoteImageHosts = []string{
	"images.unsplash.com",
	"images.deliveryhero.io",
	"hips.hearstapps.com",
	"static.vecteezy.com",
	"sultansdinebd.com",
	"avatars.githubusercontent.com",
}

func defaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			APIURL:         "",
			PublicAPIURL:   "",
			Timeout:        15 * time.Second,
			MaxIdleConns:   100,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
			CircuitBreaker: CircuitBreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				FailureRatio: 0.6,
				MinRequests:  10,
			},
		},
		App: AppConfig{
			URL:         "http://localhost:3000",
			Environment: EnvDevelopment,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Cache: CacheConfig{
			Backend:     "memory",
			Revalidate:  10 * time.Second,
			MaxEntries:  2000,
			RedisPrefix: "forkline:",
		},
		Catalog: CatalogConfig{
			RefreshSchedule: "@every 5m",
			Warmup:          true,
		},
		Images: ImagesConfig{
			RemoteHosts: append([]string(nil), DefaultRemoteImageHosts...),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// BACKEND_API -> backend.api_url, NEXT_PUBLIC_APP_URL -> app.url, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// normalize trims trailing slashes from URLs so callers can join paths directly.
func (c *Config) normalize() {
	c.Backend.APIURL = strings.TrimRight(c.Backend.APIURL, "/")
	c.Backend.PublicAPIURL = strings.TrimRight(c.Backend.PublicAPIURL, "/")
	c.App.URL = strings.TrimRight(c.App.URL, "/")
	c.App.FrontendURL = strings.TrimRight(c.App.FrontendURL, "/")
	c.App.APIURL = strings.TrimRight(c.App.APIURL, "/")
	c.App.Environment = strings.ToLower(c.App.Environment)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
	"images.remote_hosts",
}

// processSliceFields converts comma-separated env values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Backend
	"backend_api":                   "backend.api_url",
	"next_public_backend_api":       "backend.public_api_url",
	"backend_timeout":               "backend.timeout",
	"backend_max_idle_conns":        "backend.max_idle_conns",
	"backend_rate_limit_rps":        "backend.rate_limit_rps",
	"backend_rate_limit_burst":      "backend.rate_limit_burst",
	"backend_breaker_max_requests":  "backend.circuit_breaker.max_requests",
	"backend_breaker_interval":      "backend.circuit_breaker.interval",
	"backend_breaker_timeout":       "backend.circuit_breaker.timeout",
	"backend_breaker_failure_ratio": "backend.circuit_breaker.failure_ratio",
	"backend_breaker_min_requests":  "backend.circuit_breaker.min_requests",

	// App
	"next_public_app_url": "app.url",
	"frontend_api":        "app.frontend_url",
	"api_url":             "app.api_url",
	"next_public_api_url": "app.api_url",
	"app_env":             "app.environment",
	"environment":         "app.environment",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"port":                  "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Cache
	"cache_backend":     "cache.backend",
	"cache_revalidate":  "cache.revalidate",
	"cache_max_entries": "cache.max_entries",
	"redis_addr":        "cache.redis_addr",
	"redis_password":    "cache.redis_password",
	"redis_db":          "cache.redis_db",
	"redis_prefix":      "cache.redis_prefix",

	// Catalog
	"catalog_refresh_schedule": "catalog.refresh_schedule",
	"catalog_warmup":           "catalog.warmup",

	// Images
	"image_remote_hosts": "images.remote_hosts",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
