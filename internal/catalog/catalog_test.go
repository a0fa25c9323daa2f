// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/cache"
	"github.com/tomtom215/forkline/internal/models"
)

// fakeSource counts backend calls per operation and records the cookies
// each call carried.
type fakeSource struct {
	mu      sync.Mutex
	calls   map[string]int
	cookies []string
	fail    bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: make(map[string]int)}
}

func (f *fakeSource) hit(ctx context.Context, op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	f.cookies = append(f.cookies, backend.CookiesFrom(ctx))
	if f.fail {
		return errors.New("backend down")
	}
	return nil
}

func (f *fakeSource) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeSource) ListRestaurants(ctx context.Context, page, limit int) (models.Page[models.Restaurant], error) {
	if err := f.hit(ctx, "restaurants"); err != nil {
		return models.Page[models.Restaurant]{}, err
	}
	return models.Page[models.Restaurant]{
		Items: []models.Restaurant{{ID: "r1", RestaurantName: "Kacchi Bhai"}},
		Meta:  models.PaginatedMeta{Total: 1, Page: page, Limit: limit, TotalPages: 1},
	}, nil
}

func (f *fakeSource) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	if err := f.hit(ctx, "restaurant"); err != nil {
		return nil, err
	}
	return &models.Restaurant{ID: id}, nil
}

func (f *fakeSource) ListDishes(ctx context.Context, page, limit int, _ backend.DishQuery) (models.Page[models.Dish], error) {
	if err := f.hit(ctx, "dishes"); err != nil {
		return models.Page[models.Dish]{}, err
	}
	return models.Page[models.Dish]{
		Items: []models.Dish{{ID: "d1", Name: "Biryani", Price: 250}},
		Meta:  models.PaginatedMeta{Total: 1, Page: page, Limit: limit, TotalPages: 1},
	}, nil
}

func (f *fakeSource) GetDish(ctx context.Context, id string) (*models.Dish, error) {
	if err := f.hit(ctx, "dish"); err != nil {
		return nil, err
	}
	return &models.Dish{ID: id}, nil
}

func (f *fakeSource) ListRestaurantDishes(ctx context.Context, _ string, _, _ int) (models.Page[models.Dish], error) {
	if err := f.hit(ctx, "restaurantDishes"); err != nil {
		return models.Page[models.Dish]{}, err
	}
	return models.Page[models.Dish]{}, nil
}

func (f *fakeSource) GetRestaurantDish(ctx context.Context, _, id string) (*models.Dish, error) {
	if err := f.hit(ctx, "restaurantDish"); err != nil {
		return nil, err
	}
	return &models.Dish{ID: id}, nil
}

func (f *fakeSource) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	if err := f.hit(ctx, "cuisines"); err != nil {
		return nil, err
	}
	return []models.Cuisine{{ID: "c1", Name: "Bangla", Slug: "bangla", IsActive: true}}, nil
}

func newTestService(t *testing.T, opts Options) (*Service, *fakeSource) {
	t.Helper()
	c := cache.New(time.Minute, 0)
	t.Cleanup(c.Close)
	src := newFakeSource()
	return New(src, cache.NewMemoryStore(c), opts), src
}

func TestServiceCachesResponses(t *testing.T) {
	t.Parallel()
	svc, src := newTestService(t, Options{})
	ctx := context.Background()

	for range 3 {
		page, err := svc.ListRestaurants(ctx, 1, 12)
		if err != nil {
			t.Fatalf("ListRestaurants: %v", err)
		}
		if len(page.Items) != 1 || page.Items[0].RestaurantName != "Kacchi Bhai" {
			t.Fatalf("unexpected page %+v", page)
		}
	}
	if n := src.count("restaurants"); n != 1 {
		t.Errorf("backend calls = %d, want 1", n)
	}

	if _, err := svc.ListRestaurants(ctx, 2, 12); err != nil {
		t.Fatal(err)
	}
	if n := src.count("restaurants"); n != 2 {
		t.Errorf("backend calls after new page = %d, want 2", n)
	}
}

func TestServiceDishQueriesKeyedSeparately(t *testing.T) {
	t.Parallel()
	svc, src := newTestService(t, Options{})
	ctx := context.Background()

	_, _ = svc.ListDishes(ctx, 1, 9, backend.DishQuery{Search: "rice"})
	_, _ = svc.ListDishes(ctx, 1, 9, backend.DishQuery{Search: "rice"})
	_, _ = svc.ListDishes(ctx, 1, 9, backend.DishQuery{Search: "kebab"})

	if n := src.count("dishes"); n != 2 {
		t.Errorf("backend calls = %d, want 2", n)
	}
}

func TestServiceRevalidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		revalidate func(*Service, context.Context) error
		wantCalls  map[string]int
	}{
		{
			name:       "dishes and restaurants",
			revalidate: (*Service).RevalidateDishesAndRestaurants,
			wantCalls:  map[string]int{"dishes": 2, "restaurants": 2, "cuisines": 1},
		},
		{
			name:       "cuisines",
			revalidate: (*Service).RevalidateCuisines,
			wantCalls:  map[string]int{"dishes": 1, "restaurants": 1, "cuisines": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, src := newTestService(t, Options{})
			ctx := context.Background()

			read := func() {
				_, _ = svc.ListDishes(ctx, 1, 9, backend.DishQuery{})
				_, _ = svc.ListRestaurants(ctx, 1, 12)
				_, _ = svc.ListCuisines(ctx)
			}
			read()
			if err := tt.revalidate(svc, ctx); err != nil {
				t.Fatalf("revalidate: %v", err)
			}
			read()

			for op, want := range tt.wantCalls {
				if got := src.count(op); got != want {
					t.Errorf("%s calls = %d, want %d", op, got, want)
				}
			}
		})
	}
}

func TestServiceNoStore(t *testing.T) {
	t.Parallel()
	svc, src := newTestService(t, Options{NoStore: true})
	ctx := context.Background()

	_, _ = svc.GetDish(ctx, "d1")
	_, _ = svc.GetDish(ctx, "d1")
	if n := src.count("dish"); n != 2 {
		t.Errorf("backend calls = %d, want 2 with no-store", n)
	}
	if err := svc.RevalidateCuisines(ctx); err != nil {
		t.Errorf("Revalidate with no-store: %v", err)
	}
}

func TestServiceStripsVisitorCookies(t *testing.T) {
	t.Parallel()

	for _, opts := range []Options{{}, {NoStore: true}} {
		svc, src := newTestService(t, opts)
		ctx := backend.WithCookies(context.Background(), "session=visitor-1")

		if _, err := svc.ListCuisines(ctx); err != nil {
			t.Fatalf("ListCuisines() error = %v", err)
		}
		if _, err := svc.GetDish(ctx, "d1"); err != nil {
			t.Fatalf("GetDish() error = %v", err)
		}

		src.mu.Lock()
		seen := append([]string(nil), src.cookies...)
		src.mu.Unlock()
		if len(seen) != 2 {
			t.Fatalf("NoStore=%v: backend calls = %d, want 2", opts.NoStore, len(seen))
		}
		for _, c := range seen {
			if c != "" {
				t.Errorf("NoStore=%v: catalog fetch carried cookies %q", opts.NoStore, c)
			}
		}
	}
}

func TestServiceDoesNotCacheErrors(t *testing.T) {
	t.Parallel()
	svc, src := newTestService(t, Options{})
	ctx := context.Background()

	src.fail = true
	if _, err := svc.ListCuisines(ctx); err == nil {
		t.Fatal("expected error")
	}
	src.mu.Lock()
	src.fail = false
	src.mu.Unlock()

	cuisines, err := svc.ListCuisines(ctx)
	if err != nil || len(cuisines) != 1 {
		t.Fatalf("ListCuisines = %v, %v", cuisines, err)
	}
	if n := src.count("cuisines"); n != 2 {
		t.Errorf("backend calls = %d, want 2", n)
	}
}

func TestWarmupFillsFirstPages(t *testing.T) {
	t.Parallel()
	svc, src := newTestService(t, Options{})
	ctx := context.Background()

	if err := svc.Warmup(ctx); err != nil {
		t.Fatalf("Warmup: %v", err)
	}
	_, _ = svc.ListRestaurants(ctx, 1, backend.DefaultRestaurantLimit)
	_, _ = svc.ListDishes(ctx, 1, backend.DefaultDishLimit, backend.DishQuery{})
	_, _ = svc.ListCuisines(ctx)

	for _, op := range []string{"restaurants", "dishes", "cuisines"} {
		if n := src.count(op); n != 1 {
			t.Errorf("%s calls = %d, want 1 (served from warm cache)", op, n)
		}
	}
}

func TestRefresherRejectsBadSchedule(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t, Options{})
	r := NewRefresher(svc, "not a schedule", false)

	if err := r.Serve(context.Background()); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestRefresherWarmsAtStart(t *testing.T) {
	t.Parallel()
	svc, src := newTestService(t, Options{})
	r := NewRefresher(svc, "@every 1h", true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for src.count("cuisines") == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
	if src.count("cuisines") != 1 {
		t.Errorf("expected one warmup at start")
	}
	if r.String() != "catalog-refresher" {
		t.Errorf("String() = %q", r.String())
	}
}
