// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/models"
	"github.com/tomtom215/forkline/internal/validation"
)

const providerMealsPath = "/provider/meals"

// providerID is the signed-in provider. Provider resources are keyed by the
// owner's user ID.
func providerID(r *http.Request) string {
	if sess := authz.SessionFrom(r.Context()); sess != nil {
		return sess.User.ID
	}
	return ""
}

type providerMealsPage struct {
	Meals      []models.Meal
	Categories []models.Cuisine
	Editing    *models.Meal
}

// ProviderMeals lists the provider's meals with create and edit forms.
// ?edit=<id> loads a meal into the form.
func (h *Handler) ProviderMeals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meals, err := h.svc.Provider.ListMeals(ctx, providerID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	categories, err := h.catalog.ListCuisines(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Categories unavailable for meal form")
	}

	data := providerMealsPage{Meals: meals.Items, Categories: activeCuisines(categories)}
	form := map[string]string{"is_available": "on"}
	if id := r.URL.Query().Get("edit"); id != "" {
		for i := range meals.Items {
			if meals.Items[i].ID == id {
				data.Editing = &meals.Items[i]
				form = mealFormValues(&meals.Items[i])
			}
		}
	}

	v := h.view(w, r, "Menu", data)
	v.Form = form
	h.render.Render(w, http.StatusOK, "provider_meals", v)
}

func mealFormValues(m *models.Meal) map[string]string {
	form := map[string]string{
		"name":  m.Name,
		"price": strconv.FormatFloat(m.Price, 'f', -1, 64),
	}
	if m.Description != nil {
		form["description"] = *m.Description
	}
	if m.DiscountPrice != nil {
		form["discount_price"] = strconv.FormatFloat(*m.DiscountPrice, 'f', -1, 64)
	}
	if m.ImageURL != nil {
		form["image_url"] = *m.ImageURL
	}
	if m.IsAvailable {
		form["is_available"] = "on"
	}
	if m.CategoryID != nil {
		form["category_id"] = *m.CategoryID
	}
	return form
}

// parseMealForm reads the meal form. The returned message is shown when the
// form is unusable.
func parseMealForm(r *http.Request) (models.MealInput, string) {
	in := models.MealInput{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		ImageURL:    strings.TrimSpace(r.PostFormValue("image_url")),
		IsAvailable: r.PostFormValue("is_available") != "",
		CategoryID:  strings.TrimSpace(r.PostFormValue("category_id")),
	}
	if in.Name == "" {
		return in, "Meal name is required"
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("price")), 64)
	if err != nil || price <= 0 {
		return in, "Valid price is required"
	}
	in.Price = price

	if raw := strings.TrimSpace(r.PostFormValue("discount_price")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d <= 0 || d >= price {
			return in, "Discount price must be below the price"
		}
		in.DiscountPrice = &d
	}

	if verr := validation.ValidateStruct(in); verr != nil {
		return in, verr.First()
	}
	return in, ""
}

// revalidateCatalog drops cached dish and restaurant lists after a menu
// change. The change itself already succeeded, so failures are only logged.
func (h *Handler) revalidateCatalog(ctx context.Context) {
	if err := h.catalog.RevalidateDishesAndRestaurants(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Catalog revalidation failed")
	}
}

// CreateMeal adds a meal to the provider's menu.
func (h *Handler) CreateMeal(w http.ResponseWriter, r *http.Request) {
	in, msg := parseMealForm(r)
	if msg != "" {
		done(w, r, providerMealsPath, FlashError, msg)
		return
	}
	if _, err := h.svc.Provider.CreateMeal(r.Context(), providerID(r), in); err != nil {
		done(w, r, providerMealsPath, FlashError, backend.UserMessage(err, "Operation failed"))
		return
	}
	h.revalidateCatalog(r.Context())
	done(w, r, providerMealsPath, FlashSuccess, "Meal created successfully!")
}

// UpdateMeal edits one of the provider's meals.
func (h *Handler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	mealID := chi.URLParam(r, "id")
	in, msg := parseMealForm(r)
	if msg != "" {
		done(w, r, providerMealsPath+"?edit="+url.QueryEscape(mealID), FlashError, msg)
		return
	}
	if _, err := h.svc.Provider.UpdateMeal(r.Context(), providerID(r), mealID, in); err != nil {
		done(w, r, providerMealsPath+"?edit="+url.QueryEscape(mealID), FlashError, backend.UserMessage(err, "Operation failed"))
		return
	}
	h.revalidateCatalog(r.Context())
	done(w, r, providerMealsPath, FlashSuccess, "Meal updated successfully!")
}

// DeleteMeal removes one of the provider's meals.
func (h *Handler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Provider.DeleteMeal(r.Context(), providerID(r), chi.URLParam(r, "id")); err != nil {
		done(w, r, providerMealsPath, FlashError, backend.UserMessage(err, "Failed to delete meal"))
		return
	}
	h.revalidateCatalog(r.Context())
	done(w, r, providerMealsPath, FlashSuccess, "Meal deleted successfully!")
}

type providerOrdersPage struct {
	Orders []models.ProviderOrder
}

// ProviderOrders lists incoming orders with their next-status buttons.
func (h *Handler) ProviderOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders.ListProviderOrders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "provider_orders", h.view(w, r, "Incoming Orders", providerOrdersPage{Orders: orders}))
}

// UpdateOrderStatus moves an order to the next status. Transitions the
// status buttons do not offer are refused before reaching the backend.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	const to = "/provider/orders"
	current := models.OrderStatus(r.PostFormValue("current"))
	next := models.OrderStatus(r.PostFormValue("status"))
	if !next.Valid() || !models.CanTransition(current, next) {
		done(w, r, to, FlashError, "That status change is not allowed")
		return
	}

	if _, err := h.svc.Orders.UpdateProviderOrderStatus(r.Context(), chi.URLParam(r, "id"), next); err != nil {
		done(w, r, to, FlashError, backend.UserMessage(err, "Failed to update status"))
		return
	}
	done(w, r, to, FlashSuccess, "Order status updated to "+next.Label())
}
