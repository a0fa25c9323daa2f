// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/metrics"
)

// Store is a byte-oriented tagged cache. Values are encoded JSON so that the
// same callers work against memory and Redis.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl and indexes it under tags.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error

	// InvalidateTags drops every entry carrying any of tags.
	InvalidateTags(ctx context.Context, tags ...string) error

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Backend names accepted by NewStore.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewStore builds the Store selected by cfg.Backend.
func NewStore(cfg *config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(New(cfg.Revalidate, cfg.MaxEntries)), nil
	case BackendRedis:
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// MemoryStore adapts Cache to Store.
type MemoryStore struct {
	c *Cache
}

// NewMemoryStore wraps c.
func NewMemoryStore(c *Cache) *MemoryStore {
	return &MemoryStore{c: c}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		metrics.CacheMisses.WithLabelValues(BackendMemory).Inc()
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		m.c.Delete(key)
		metrics.CacheMisses.WithLabelValues(BackendMemory).Inc()
		return nil, false, nil
	}
	metrics.CacheHits.WithLabelValues(BackendMemory).Inc()
	return b, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	m.c.SetWithTTL(key, value, ttl, tags...)
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(float64(m.c.Len()))
	return nil
}

func (m *MemoryStore) InvalidateTags(_ context.Context, tags ...string) error {
	m.c.InvalidateTags(tags...)
	for _, tag := range tags {
		metrics.CacheRevalidations.WithLabelValues(tag).Inc()
	}
	metrics.CacheSize.WithLabelValues(BackendMemory).Set(float64(m.c.Len()))
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error {
	m.c.Close()
	return nil
}

// Stats exposes the underlying cache statistics.
func (m *MemoryStore) Stats() Stats {
	return m.c.GetStats()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
