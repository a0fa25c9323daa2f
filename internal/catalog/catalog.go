// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package catalog serves restaurants, dishes and cuisines from a shared
// cache in front of the backend.
//
// Responses stay fresh for the revalidation window and are tagged by
// resource. Provider menu edits call RevalidateDishesAndRestaurants and admin
// category edits call RevalidateCuisines so the next read goes to the
// backend. In development nothing is cached.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/cache"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/models"
)

// Cache tags. "cousines" is the backend's own spelling and is kept so tags
// match across services sharing a Redis cache.
const (
	TagDishes      = "dishes"
	TagRestaurants = "restaurants"
	TagCuisines    = "cousines"
)

// Source is the uncached catalog, normally *backend.CatalogService.
type Source interface {
	ListRestaurants(ctx context.Context, page, limit int) (models.Page[models.Restaurant], error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListDishes(ctx context.Context, page, limit int, q backend.DishQuery) (models.Page[models.Dish], error)
	GetDish(ctx context.Context, id string) (*models.Dish, error)
	ListRestaurantDishes(ctx context.Context, restaurantID string, page, limit int) (models.Page[models.Dish], error)
	GetRestaurantDish(ctx context.Context, restaurantID, dishID string) (*models.Dish, error)
	ListCuisines(ctx context.Context) ([]models.Cuisine, error)
}

// Options configures a Service.
type Options struct {
	// Revalidate is how long a response stays fresh. Default 10s.
	Revalidate time.Duration

	// NoStore disables caching entirely.
	NoStore bool
}

// Service is the cached catalog.
type Service struct {
	src     Source
	store   cache.Store
	ttl     time.Duration
	noStore bool
}

// New creates a cached catalog over src.
func New(src Source, store cache.Store, opts Options) *Service {
	if opts.Revalidate <= 0 {
		opts.Revalidate = 10 * time.Second
	}
	return &Service{src: src, store: store, ttl: opts.Revalidate, noStore: opts.NoStore || store == nil}
}

// cached serves key from the store or fills it from fetch. Store failures are
// logged and bypassed; only successful fetches are stored. Responses are
// shared across visitors, so fetch never carries the visitor's cookies.
func cached[T any](ctx context.Context, s *Service, key, tag string, fetch func(context.Context) (T, error)) (T, error) {
	if s.noStore {
		return fetch(anonymous(ctx))
	}

	if data, ok, err := s.store.Get(ctx, key); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Catalog cache read failed")
	} else if ok {
		var out T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		logging.Ctx(ctx).Debug().Str("key", key).Msg("Discarding undecodable catalog entry")
	}

	out, err := fetch(anonymous(ctx))
	if err != nil {
		return out, err
	}
	s.put(ctx, key, tag, out)
	return out, nil
}

// anonymous strips the visitor's cookies from ctx.
func anonymous(ctx context.Context) context.Context {
	if backend.CookiesFrom(ctx) == "" {
		return ctx
	}
	return backend.WithCookies(ctx, "")
}

func (s *Service) put(ctx context.Context, key, tag string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Failed to encode catalog entry")
		return
	}
	if err := s.store.Set(ctx, key, data, s.ttl, tag); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
	}
}

func restaurantListKey(page, limit int) string {
	return fmt.Sprintf("restaurants:list:%d:%d", page, limit)
}

func dishListKey(page, limit int, q backend.DishQuery) string {
	return cache.GenerateKey("dishes:list", struct {
		Page  int    `json:"p"`
		Limit int    `json:"l"`
		Query string `json:"q"`
	}{page, limit, q.Key()})
}

func (s *Service) ListRestaurants(ctx context.Context, page, limit int) (models.Page[models.Restaurant], error) {
	return cached(ctx, s, restaurantListKey(page, limit), TagRestaurants, func(ctx context.Context) (models.Page[models.Restaurant], error) {
		return s.src.ListRestaurants(ctx, page, limit)
	})
}

func (s *Service) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	return cached(ctx, s, "restaurants:id:"+id, TagRestaurants, func(ctx context.Context) (*models.Restaurant, error) {
		return s.src.GetRestaurant(ctx, id)
	})
}

func (s *Service) ListDishes(ctx context.Context, page, limit int, q backend.DishQuery) (models.Page[models.Dish], error) {
	return cached(ctx, s, dishListKey(page, limit, q), TagDishes, func(ctx context.Context) (models.Page[models.Dish], error) {
		return s.src.ListDishes(ctx, page, limit, q)
	})
}

func (s *Service) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	return cached(ctx, s, "dishes:id:"+id, TagDishes, func(ctx context.Context) (*models.Dish, error) {
		return s.src.GetDish(ctx, id)
	})
}

func (s *Service) ListRestaurantDishes(ctx context.Context, restaurantID string, page, limit int) (models.Page[models.Dish], error) {
	key := fmt.Sprintf("dishes:restaurant:%s:%d:%d", restaurantID, page, limit)
	return cached(ctx, s, key, TagDishes, func(ctx context.Context) (models.Page[models.Dish], error) {
		return s.src.ListRestaurantDishes(ctx, restaurantID, page, limit)
	})
}

func (s *Service) GetRestaurantDish(ctx context.Context, restaurantID, dishID string) (*models.Dish, error) {
	key := "dishes:restaurant:" + restaurantID + ":id:" + dishID
	return cached(ctx, s, key, TagDishes, func(ctx context.Context) (*models.Dish, error) {
		return s.src.GetRestaurantDish(ctx, restaurantID, dishID)
	})
}

func (s *Service) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	return cached(ctx, s, "cousines:all", TagCuisines, func(ctx context.Context) ([]models.Cuisine, error) {
		return s.src.ListCuisines(ctx)
	})
}

// Revalidate drops every cached response carrying any of tags.
func (s *Service) Revalidate(ctx context.Context, tags ...string) error {
	if s.noStore {
		return nil
	}
	if err := s.store.InvalidateTags(ctx, tags...); err != nil {
		return fmt.Errorf("failed to revalidate %v: %w", tags, err)
	}
	logging.Ctx(ctx).Debug().Strs("tags", tags).Msg("Catalog revalidated")
	return nil
}

// RevalidateDishesAndRestaurants is called after a provider changes a meal.
func (s *Service) RevalidateDishesAndRestaurants(ctx context.Context) error {
	return s.Revalidate(ctx, TagDishes, TagRestaurants)
}

// RevalidateCuisines is called after an admin changes a category.
func (s *Service) RevalidateCuisines(ctx context.Context) error {
	return s.Revalidate(ctx, TagCuisines)
}

// Warmup refetches the first page of restaurants and dishes and the cuisine
// list, replacing whatever is cached.
func (s *Service) Warmup(ctx context.Context) error {
	if s.noStore {
		return nil
	}

	restaurants, err := s.src.ListRestaurants(ctx, 1, backend.DefaultRestaurantLimit)
	if err != nil {
		return fmt.Errorf("warm restaurants: %w", err)
	}
	s.put(ctx, restaurantListKey(1, backend.DefaultRestaurantLimit), TagRestaurants, restaurants)

	dishes, err := s.src.ListDishes(ctx, 1, backend.DefaultDishLimit, backend.DishQuery{})
	if err != nil {
		return fmt.Errorf("warm dishes: %w", err)
	}
	s.put(ctx, dishListKey(1, backend.DefaultDishLimit, backend.DishQuery{}), TagDishes, dishes)

	cuisines, err := s.src.ListCuisines(ctx)
	if err != nil {
		return fmt.Errorf("warm cuisines: %w", err)
	}
	s.put(ctx, "cousines:all", TagCuisines, cuisines)

	return nil
}
