// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/tomtom215/forkline/internal/testinfra"
)

// redisTestAddr returns REDIS_ADDR when set, otherwise the address of a
// fresh Redis container that lives for the rest of the test.
//
// Usage:
//
//	go test -tags integration -run TestRedisStore ./internal/cache/...
func redisTestAddr(t *testing.T) string {
	t.Helper()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redis, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	t.Cleanup(func() {
		testinfra.CleanupContainer(t, context.Background(), redis.Container)
	})
	return redis.Addr
}
