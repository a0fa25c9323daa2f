// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

//go:build !integration

package cache

import (
	"os"
	"testing"
)

// redisTestAddr returns REDIS_ADDR, or skips. Build with -tags integration
// to start a Redis container instead.
func redisTestAddr(t *testing.T) string {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; run with -tags integration to use a container")
	}
	return addr
}
