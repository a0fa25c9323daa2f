// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/models"
	"github.com/tomtom215/forkline/internal/validation"
)

type ordersPage struct {
	Orders      []models.Order
	ActiveCount int
}

// Orders lists the customer's orders with a tracking stepper for each. The
// page subscribes to /ws/orders for live status changes.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Orders.ListOrders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	active := 0
	for _, o := range orders {
		if o.Status.IsActive() {
			active++
		}
	}
	h.render.Render(w, http.StatusOK, "orders", h.view(w, r, "My Orders", ordersPage{
		Orders:      orders,
		ActiveCount: active,
	}))
}

// SubmitReview reviews one delivered meal of an order.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in := backend.ReviewInput{
		OrderID: chi.URLParam(r, "id"),
		MealID:  strings.TrimSpace(r.PostFormValue("meal_id")),
		Comment: strings.TrimSpace(r.PostFormValue("comment")),
	}
	if rating, ok := formInt(r, "rating"); ok {
		in.Rating = rating
	}
	if in.Rating == 0 {
		done(w, r, "/orders", FlashError, "Please select a rating")
		return
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		done(w, r, "/orders", FlashError, verr.First())
		return
	}

	order, err := h.svc.Orders.GetOrder(ctx, in.OrderID)
	if err != nil {
		done(w, r, "/orders", FlashError, backend.UserMessage(err, "Failed to submit review"))
		return
	}
	if order == nil || !order.CanReview(in.MealID) {
		done(w, r, "/orders", FlashError, "Only delivered items that you have not reviewed yet can be reviewed")
		return
	}

	if _, err := h.svc.Reviews.CreateReview(ctx, in); err != nil {
		done(w, r, "/orders", FlashError, backend.UserMessage(err, "Failed to submit review"))
		return
	}
	done(w, r, "/orders", FlashSuccess, "Review submitted successfully!")
}
