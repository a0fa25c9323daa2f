// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package backend

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/forkline/internal/models"
)

// Default page sizes used by the storefront lists.
const (
	DefaultRestaurantLimit     = 12
	DefaultDishLimit           = 9
	DefaultRestaurantDishLimit = 10
)

// Price filter bounds. A bound at its extreme is not sent.
const (
	PriceFilterMin = 0
	PriceFilterMax = 1000
)

// SortPreset is a named sortBy/sortOrder pair offered on the dish list.
type SortPreset struct {
	ID        string
	Label     string
	SortBy    string
	SortOrder string
}

// SortPresets are the dish sort options in display order.
var SortPresets = []SortPreset{
	{ID: "relevance", Label: "Relevance", SortBy: "created_at", SortOrder: "desc"},
	{ID: "low-to-high", Label: "Price: Low to High", SortBy: "price", SortOrder: "asc"},
	{ID: "high-to-low", Label: "Price: High to Low", SortBy: "price", SortOrder: "desc"},
	{ID: "top-rated", Label: "Top Rated", SortBy: "rating_avg", SortOrder: "desc"},
}

// FindSortPreset returns the preset matching sortBy/sortOrder, or relevance.
func FindSortPreset(sortBy, sortOrder string) SortPreset {
	for _, p := range SortPresets {
		if p.SortBy == sortBy && p.SortOrder == sortOrder {
			return p
		}
	}
	return SortPresets[0]
}

// DishQuery filters the dish list. Zero values are not sent.
type DishQuery struct {
	Search    string
	Cuisines  []string // category slugs, sent comma-joined
	Dietary   models.DietaryType
	MinPrice  float64
	MaxPrice  float64
	SortBy    string
	SortOrder string
}

func (q DishQuery) apply(v url.Values) {
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if len(q.Cuisines) > 0 {
		v.Set("cuisine", strings.Join(q.Cuisines, ","))
	}
	if q.Dietary.Valid() {
		v.Set("dietaryType", string(q.Dietary))
	}
	if q.MinPrice > PriceFilterMin {
		v.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice > 0 && q.MaxPrice < PriceFilterMax {
		v.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", q.SortOrder)
	}
}

// Key renders the query canonically for use in cache keys.
func (q DishQuery) Key() string {
	v := url.Values{}
	q.apply(v)
	return v.Encode()
}

// CatalogService reads restaurants, dishes and cuisines. These endpoints are
// public and need no session.
type CatalogService struct {
	c   *Client
	now func() time.Time
}

// ListRestaurants returns one page of restaurants.
func (s *CatalogService) ListRestaurants(ctx context.Context, page, limit int) (models.Page[models.Restaurant], error) {
	if limit <= 0 {
		limit = DefaultRestaurantLimit
	}
	env, err := s.c.get(ctx, "/api/providers", "/api/providers", pageQuery(page, limit), "")
	items, err := decodeData[[]models.Restaurant](env, err)
	if err != nil {
		return models.Page[models.Restaurant]{}, err
	}
	return models.Page[models.Restaurant]{Items: items, Meta: decodeMeta[models.PaginatedMeta](env)}, nil
}

// GetRestaurant returns one restaurant.
func (s *CatalogService) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	env, err := s.c.get(ctx, "/api/providers/{id}", "/api/providers/"+seg(id), nil, "")
	return decodeData[*models.Restaurant](env, err)
}

// ListDishes returns one page of dishes matching q.
func (s *CatalogService) ListDishes(ctx context.Context, page, limit int, q DishQuery) (models.Page[models.Dish], error) {
	if limit <= 0 {
		limit = DefaultDishLimit
	}
	v := pageQuery(page, limit)
	q.apply(v)
	env, err := s.c.get(ctx, "/api/meals", "/api/meals", v, "")
	return s.dishPage(env, err)
}

// GetDish returns one dish.
func (s *CatalogService) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	env, err := s.c.get(ctx, "/api/meals/{id}", "/api/meals/"+seg(id), nil, "")
	d, err := decodeData[*models.Dish](env, err)
	if err == nil && d != nil {
		d.MarkNew(s.now())
	}
	return d, err
}

// ListRestaurantDishes returns one page of a restaurant's dishes. The
// restaurant is addressed by its owner's user ID.
func (s *CatalogService) ListRestaurantDishes(ctx context.Context, restaurantID string, page, limit int) (models.Page[models.Dish], error) {
	if limit <= 0 {
		limit = DefaultRestaurantDishLimit
	}
	env, err := s.c.get(ctx, "/api/providers/{id}/meals", "/api/providers/"+seg(restaurantID)+"/meals", pageQuery(page, limit), "")
	return s.dishPage(env, err)
}

// GetRestaurantDish returns one dish of a restaurant.
func (s *CatalogService) GetRestaurantDish(ctx context.Context, restaurantID, dishID string) (*models.Dish, error) {
	path := "/api/providers/" + seg(restaurantID) + "/meals/" + seg(dishID)
	env, err := s.c.get(ctx, "/api/providers/{id}/meals/{mealId}", path, nil, "")
	d, err := decodeData[*models.Dish](env, err)
	if err == nil && d != nil {
		d.MarkNew(s.now())
	}
	return d, err
}

// ListCuisines returns every category. Categories and cuisines are the same
// backend resource.
func (s *CatalogService) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	env, err := s.c.get(ctx, "/api/categories", "/api/categories", nil, "")
	return decodeData[[]models.Cuisine](env, err)
}

func (s *CatalogService) dishPage(env *envelope, err error) (models.Page[models.Dish], error) {
	items, err := decodeData[[]models.Dish](env, err)
	if err != nil {
		return models.Page[models.Dish]{}, err
	}
	now := s.now()
	for i := range items {
		items[i].MarkNew(now)
	}
	return models.Page[models.Dish]{Items: items, Meta: decodeMeta[models.PaginatedMeta](env)}, nil
}
