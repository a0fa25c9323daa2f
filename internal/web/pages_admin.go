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
	"github.com/tomtom215/forkline/internal/validation"
)

const adminCategoriesPath = "/admin/categories"

type adminUsersPage struct {
	Users    []models.AdminUser
	Statuses []models.UserStatus
}

// AdminUsers lists every account with status controls.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Admin.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "admin_users", h.view(w, r, "Users", adminUsersPage{
		Users:    users,
		Statuses: models.AdminSettableStatuses,
	}))
}

// UpdateUserStatus activates or suspends an account.
func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	const to = "/admin/users"
	status := models.UserStatus(r.PostFormValue("status"))
	if !status.Valid() {
		done(w, r, to, FlashError, "Unknown user status")
		return
	}
	if _, err := h.svc.Admin.UpdateUserStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		done(w, r, to, FlashError, backend.UserMessage(err, "Failed to update user"))
		return
	}

	verb := "suspended"
	if status == models.UserActive {
		verb = "activated"
	}
	done(w, r, to, FlashSuccess, "User "+verb)
}

type adminOrdersPage struct {
	Orders []models.AdminOrder
}

// AdminOrders lists every order on the marketplace.
func (h *Handler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Admin.ListOrders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render.Render(w, http.StatusOK, "admin_orders", h.view(w, r, "All Orders", adminOrdersPage{Orders: orders}))
}

type adminCategoriesPage struct {
	Categories []models.AdminCategory
	Editing    *models.AdminCategory
}

// AdminCategories lists categories with create and edit forms.
func (h *Handler) AdminCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Admin.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := adminCategoriesPage{Categories: categories}
	form := map[string]string{}
	if id := r.URL.Query().Get("edit"); id != "" {
		for i := range categories {
			if c := &categories[i]; c.ID == id {
				data.Editing = c
				form["name"], form["slug"] = c.Name, c.Slug
				if c.IconURL != nil {
					form["icon_url"] = *c.IconURL
				}
			}
		}
	}

	v := h.view(w, r, "Categories", data)
	v.Form = form
	h.render.Render(w, http.StatusOK, "admin_categories", v)
}

// parseCategoryForm reads name, slug and icon. A new category without a
// slug gets one derived from its name.
func parseCategoryForm(r *http.Request, derive bool) (models.CategoryInput, string) {
	in := models.CategoryInput{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Slug:    strings.TrimSpace(r.PostFormValue("slug")),
		IconURL: strings.TrimSpace(r.PostFormValue("icon_url")),
	}
	if in.Name == "" {
		return in, "Category name is required"
	}
	if in.Slug == "" && derive {
		in.Slug = models.Slugify(in.Name)
	}
	if in.Slug == "" {
		return in, "Slug is required"
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		return in, verr.First()
	}
	return in, ""
}

// revalidateCuisines drops cached cuisine lists after a category change.
func (h *Handler) revalidateCuisines(r *http.Request) {
	if err := h.catalog.RevalidateCuisines(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Cuisine revalidation failed")
	}
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	in, msg := parseCategoryForm(r, true)
	if msg != "" {
		done(w, r, adminCategoriesPath, FlashError, msg)
		return
	}
	if _, err := h.svc.Admin.CreateCategory(r.Context(), in); err != nil {
		done(w, r, adminCategoriesPath, FlashError, backend.UserMessage(err, "Operation failed"))
		return
	}
	h.revalidateCuisines(r)
	done(w, r, adminCategoriesPath, FlashSuccess, "Category created!")
}

// UpdateCategory renames a category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, msg := parseCategoryForm(r, false)
	if msg != "" {
		done(w, r, adminCategoriesPath+"?edit="+url.QueryEscape(id), FlashError, msg)
		return
	}
	if _, err := h.svc.Admin.UpdateCategory(r.Context(), id, in); err != nil {
		done(w, r, adminCategoriesPath+"?edit="+url.QueryEscape(id), FlashError, backend.UserMessage(err, "Operation failed"))
		return
	}
	h.revalidateCuisines(r)
	done(w, r, adminCategoriesPath, FlashSuccess, "Category updated!")
}

// ToggleCategory activates or deactivates a category. The form carries the
// state to switch to.
func (h *Handler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	active, err := strconv.ParseBool(r.PostFormValue("is_active"))
	if err != nil {
		done(w, r, adminCategoriesPath, FlashError, "Failed to update category")
		return
	}
	in := models.CategoryInput{IsActive: &active}
	if _, err := h.svc.Admin.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		done(w, r, adminCategoriesPath, FlashError, backend.UserMessage(err, "Failed to update category"))
		return
	}
	h.revalidateCuisines(r)

	verb := "deactivated"
	if active {
		verb = "activated"
	}
	done(w, r, adminCategoriesPath, FlashSuccess, "Category "+verb)
}
