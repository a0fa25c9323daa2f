// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package testinfra starts throwaway containers for integration tests.
//
// Everything here sits behind the integration build tag and uses
// testcontainers-go, so plain `go test ./...` never needs Docker.
//
// # Redis Container
//
// RedisContainer runs the server behind the shared catalog cache:
//
//	func TestRedisStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, redis.Container) })
//
//	    store, err := cache.NewRedisStore(&config.CacheConfig{RedisAddr: redis.Addr})
//	    // ...
//	}
//
// Run them with:
//
//	go test -tags integration ./internal/cache/...
//
// Tests are skipped when Docker is unavailable. The first run pulls the
// image; later runs use the local copy.
package testinfra
