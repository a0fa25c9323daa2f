// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/forkline/internal/config"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/metrics"
)

// RedisStore keeps catalog entries in Redis so several storefront replicas
// share one revalidation window. Each tag is a Redis set of the keys that
// carry it.
type RedisStore struct {
	client     *redis.Client
	ownsClient bool
	prefix     string
}

// NewRedisStore connects to the Redis server in cfg and verifies it answers.
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client, ownsClient: true, prefix: cfg.RedisPrefix}, nil
}

// NewRedisStoreWithClient uses an existing client, which the store will not close.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(k string) string    { return r.prefix + "cache:" + k }
func (r *RedisStore) tagKey(t string) string { return r.prefix + "tag:" + t }

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheMisses.WithLabelValues(BackendRedis).Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	metrics.CacheHits.WithLabelValues(BackendRedis).Inc()
	return data, true, nil
}

// Set writes the value and adds its key to each tag set in one pipeline. A
// tag set expires with its longest-lived member, so expired entries do not
// leave tag sets behind forever; stale members are harmless on invalidation.
// ExpireNX and ExpireGT need Redis 7.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	full := r.key(key)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, full, value, ttl)
		for _, tag := range tags {
			tk := r.tagKey(tag)
			p.SAdd(ctx, tk, full)
			if ttl > 0 {
				p.ExpireNX(ctx, tk, ttl)
				p.ExpireGT(ctx, tk, ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

// InvalidateTags deletes every member of each tag set, then the set itself.
func (r *RedisStore) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tk := r.tagKey(tag)
		members, err := r.client.SMembers(ctx, tk).Result()
		if err != nil {
			return fmt.Errorf("failed to read tag %s: %w", tag, err)
		}
		keys := append(members, tk)
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
		}
		metrics.CacheRevalidations.WithLabelValues(tag).Inc()
		logging.Debug().Str("tag", tag).Int("keys", len(members)).Msg("Invalidated cache tag")
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	if !r.ownsClient {
		return nil
	}
	return r.client.Close()
}
