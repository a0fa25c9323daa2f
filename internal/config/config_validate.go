// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateBackend,
		c.validateApp,
		c.validateServer,
		c.validateRateLimits,
		c.validateCache,
		c.validateCatalog,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateBackend() error {
	if c.Backend.APIURL == "" && c.Backend.PublicAPIURL == "" {
		return fmt.Errorf("BACKEND_API is required")
	}
	if err := validateOptionalHTTPURL(c.Backend.APIURL, "BACKEND_API"); err != nil {
		return err
	}
	if err := validateOptionalHTTPURL(c.Backend.PublicAPIURL, "NEXT_PUBLIC_BACKEND_API"); err != nil {
		return err
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if c.Backend.RateLimitRPS < 0 {
		return fmt.Errorf("BACKEND_RATE_LIMIT_RPS must not be negative")
	}
	cb := c.Backend.CircuitBreaker
	if cb.FailureRatio <= 0 || cb.FailureRatio > 1 {
		return fmt.Errorf("BACKEND_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", cb.FailureRatio)
	}
	return nil
}

var validEnvironments = map[string]bool{
	EnvDevelopment: true,
	EnvProduction:  true,
	EnvTest:        true,
}

func (c *Config) validateApp() error {
	if !validEnvironments[c.App.Environment] {
		return fmt.Errorf("APP_ENV must be one of: development, production, test")
	}
	if err := validateHTTPURL(c.App.URL, "NEXT_PUBLIC_APP_URL"); err != nil {
		return err
	}
	if err := validateOptionalHTTPURL(c.App.FrontendURL, "FRONTEND_API"); err != nil {
		return err
	}
	return validateOptionalHTTPURL(c.App.APIURL, "API_URL")
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}
	if c.Cache.Revalidate < 0 {
		return fmt.Errorf("CACHE_REVALIDATE must not be negative")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.RefreshSchedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(c.Catalog.RefreshSchedule); err != nil {
		return fmt.Errorf("CATALOG_REFRESH_SCHEDULE is invalid: %w", err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
