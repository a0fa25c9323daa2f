// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/models"
)

// Pager links the previous and next pages of a list.
type Pager struct {
	Page       int
	TotalPages int
	Total      int
	PrevURL    string
	NextURL    string
}

func newPager(r *http.Request, meta models.PaginatedMeta) Pager {
	p := Pager{Page: meta.Page, TotalPages: meta.TotalPages, Total: meta.Total}
	if meta.HasPrev() {
		p.PrevURL = pageURL(r.URL, meta.Page-1)
	}
	if meta.HasNext() {
		p.NextURL = pageURL(r.URL, meta.Page+1)
	}
	return p
}

func pageURL(u *url.URL, page int) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	return u.Path + "?" + q.Encode()
}

type homePage struct {
	Cuisines    []models.Cuisine
	Restaurants []models.Restaurant
	Dishes      []models.Dish
	HasMore     bool
}

// Home shows featured cuisines, restaurants and dishes.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cuisines, err := h.catalog.ListCuisines(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	restaurants, err := h.catalog.ListRestaurants(ctx, 1, backend.DefaultRestaurantLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	dishes, err := h.catalog.ListDishes(ctx, 1, backend.DefaultDishLimit, backend.DishQuery{})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.render.Render(w, http.StatusOK, "home", h.view(w, r, "Order food you love", homePage{
		Cuisines:    activeCuisines(cuisines),
		Restaurants: restaurants.Items,
		Dishes:      dishes.Items,
		HasMore:     dishes.Meta.HasNext(),
	}))
}

// activeCuisines keeps the categories worth showing as browse tiles.
func activeCuisines(all []models.Cuisine) []models.Cuisine {
	out := make([]models.Cuisine, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

type restaurantsPage struct {
	Restaurants []models.Restaurant
	Pager       Pager
}

// Restaurants lists restaurants page by page.
func (h *Handler) Restaurants(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.ListRestaurants(r.Context(), queryInt(r, "page", 1), backend.DefaultRestaurantLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "restaurants", h.view(w, r, "Restaurants", restaurantsPage{
		Restaurants: page.Items,
		Pager:       newPager(r, page.Meta),
	}))
}

type restaurantPage struct {
	Restaurant *models.Restaurant
	Dishes     []models.Dish
	Pager      Pager
}

// Restaurant shows one restaurant and a page of its dishes.
func (h *Handler) Restaurant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rest, err := h.catalog.GetRestaurant(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rest == nil {
		h.NotFound(w, r)
		return
	}

	// Dishes reference the owner's user ID, not the profile ID.
	dishes, err := h.catalog.ListRestaurantDishes(ctx, rest.UserID, queryInt(r, "page", 1), backend.DefaultRestaurantDishLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for i := range dishes.Items {
		if dishes.Items[i].RestaurantName == nil {
			dishes.Items[i].RestaurantName = &rest.RestaurantName
		}
	}

	h.render.Render(w, http.StatusOK, "restaurant", h.view(w, r, rest.RestaurantName, restaurantPage{
		Restaurant: rest,
		Dishes:     dishes.Items,
		Pager:      newPager(r, dishes.Meta),
	}))
}

// DishFilter is the dish list filter as submitted by the filter form.
type DishFilter struct {
	Search   string
	Cuisines []string
	Dietary  string
	Sort     string
	MinPrice string
	MaxPrice string
}

// parseDishFilter reads the filter from the query string. Unknown sort
// presets fall back to relevance and unknown dietary types are ignored.
func parseDishFilter(q url.Values) (DishFilter, backend.DishQuery) {
	f := DishFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Dietary:  q.Get("dietary"),
		Sort:     q.Get("sort"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
	}
	for _, v := range q["cuisine"] {
		for _, slug := range strings.Split(v, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				f.Cuisines = append(f.Cuisines, slug)
			}
		}
	}

	dq := backend.DishQuery{Search: f.Search, Cuisines: f.Cuisines}
	if d := models.DietaryType(f.Dietary); d.Valid() {
		dq.Dietary = d
	} else {
		f.Dietary = ""
	}

	preset := backend.SortPresets[0]
	for _, p := range backend.SortPresets {
		if p.ID == f.Sort {
			preset = p
		}
	}
	f.Sort = preset.ID
	dq.SortBy, dq.SortOrder = preset.SortBy, preset.SortOrder

	if v, err := strconv.ParseFloat(f.MinPrice, 64); err == nil && v >= 0 {
		dq.MinPrice = v
	}
	if v, err := strconv.ParseFloat(f.MaxPrice, 64); err == nil && v > 0 {
		dq.MaxPrice = v
	}
	return f, dq
}

type mealsPage struct {
	Dishes   []models.Dish
	Cuisines []models.Cuisine
	Presets  []backend.SortPreset
	Dietary  []models.DietaryType
	Filter   DishFilter
	Pager    Pager
}

// Meals lists dishes with search, cuisine, dietary, price and sort filters.
func (h *Handler) Meals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, query := parseDishFilter(r.URL.Query())

	dishes, err := h.catalog.ListDishes(ctx, queryInt(r, "page", 1), backend.DefaultDishLimit, query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cuisines, err := h.catalog.ListCuisines(ctx)
	if err != nil {
		// The list is still usable without the cuisine filter.
		logging.Ctx(ctx).Warn().Err(err).Msg("Cuisine filter unavailable")
	}

	h.render.Render(w, http.StatusOK, "meals", h.view(w, r, "Meals", mealsPage{
		Dishes:   dishes.Items,
		Cuisines: activeCuisines(cuisines),
		Presets:  backend.SortPresets,
		Dietary:  []models.DietaryType{models.DietaryVeg, models.DietaryVegan, models.DietaryHalal, models.DietaryMix},
		Filter:   filter,
		Pager:    newPager(r, dishes.Meta),
	}))
}

type mealPage struct {
	Dish    *models.Dish
	Reviews []models.Review
}

// Meal shows one dish with its reviews and the add-to-cart form.
func (h *Handler) Meal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	dish, err := h.catalog.GetDish(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if dish == nil {
		h.NotFound(w, r)
		return
	}

	reviews, err := h.svc.Reviews.ListMealReviews(ctx, id)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("meal_id", id).Msg("Meal reviews unavailable")
		reviews = nil
	}

	h.render.Render(w, http.StatusOK, "meal", h.view(w, r, dish.Name, mealPage{
		Dish:    dish,
		Reviews: reviews,
	}))
}
