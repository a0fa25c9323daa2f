// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forkline/internal/cart"
	"github.com/tomtom215/forkline/internal/logging"
	"github.com/tomtom215/forkline/internal/models"
	"github.com/tomtom215/forkline/internal/validation"
)

type cartGroup struct {
	Cart  models.Cart
	Lines []cart.Line
}

type cartPage struct {
	Groups  []cartGroup
	Totals  cart.Totals
	Address string
	Empty   bool
}

// Cart shows the session's carts grouped by restaurant, with totals and the
// checkout form.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := h.carts.Refresh(ctx, cartKey(r))

	lines := cart.Lines(state.Carts)
	byCart := make(map[string][]cart.Line, len(state.Carts))
	for _, l := range lines {
		byCart[l.CartID] = append(byCart[l.CartID], l)
	}
	groups := make([]cartGroup, 0, len(state.Carts))
	for _, c := range state.Carts {
		groups = append(groups, cartGroup{Cart: c, Lines: byCart[c.ID]})
	}

	var address string
	if me, err := h.svc.Users.GetMe(ctx); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Profile unavailable for checkout address")
	} else if me != nil && me.Address != nil {
		address = *me.Address
	}

	h.render.Render(w, http.StatusOK, "cart", h.view(w, r, "Your Cart", cartPage{
		Groups:  groups,
		Totals:  cart.CalculateTotals(lines),
		Address: address,
		Empty:   len(lines) == 0,
	}))
}

type cartItemForm struct {
	MealID   string `form:"meal_id" validate:"required"`
	Quantity int    `form:"quantity" validate:"min=1,max=99"`
}

// AddToCart adds a meal to the cart and returns to the page it came from.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	in := cartItemForm{MealID: strings.TrimSpace(r.PostFormValue("meal_id")), Quantity: 1}
	if q, ok := formInt(r, "quantity"); ok {
		in.Quantity = q
	}
	to := back(r, "/cart")
	if verr := validation.ValidateStruct(in); verr != nil {
		done(w, r, to, FlashError, verr.First())
		return
	}

	res := h.carts.Add(r.Context(), cartKey(r), in.MealID, in.Quantity)
	if !res.Success {
		done(w, r, to, FlashError, res.Message)
		return
	}
	msg := "Added to cart"
	if name := strings.TrimSpace(r.PostFormValue("meal_name")); name != "" {
		msg = fmt.Sprintf("Added %d× %s to cart", in.Quantity, name)
	}
	done(w, r, to, FlashSuccess, msg)
}

// UpdateCartItem sets the quantity of a meal. Zero removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	mealID := strings.TrimSpace(r.PostFormValue("meal_id"))
	qty, ok := formInt(r, "quantity")
	if mealID == "" || !ok || qty < 0 {
		done(w, r, "/cart", FlashError, cart.MsgUpdateFailed)
		return
	}

	res := h.carts.Update(r.Context(), cartKey(r), mealID, qty)
	if !res.Success {
		done(w, r, "/cart", FlashError, res.Message)
		return
	}
	done(w, r, "/cart", FlashSuccess, "Cart updated")
}

// RemoveCartItem removes one item.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	res := h.carts.RemoveItem(r.Context(), cartKey(r), chi.URLParam(r, "itemID"))
	if !res.Success {
		done(w, r, "/cart", FlashError, res.Message)
		return
	}
	done(w, r, "/cart", FlashSuccess, "Item removed")
}

// RemoveCart removes a whole restaurant cart.
func (h *Handler) RemoveCart(w http.ResponseWriter, r *http.Request) {
	res := h.carts.RemoveCart(r.Context(), cartKey(r), chi.URLParam(r, "cartID"))
	if !res.Success {
		done(w, r, "/cart", FlashError, res.Message)
		return
	}
	done(w, r, "/cart", FlashSuccess, "Cart removed")
}

// Checkout places one order per restaurant and moves on to the orders page.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	res := h.carts.Checkout(r.Context(), cartKey(r), r.PostFormValue("address"))
	if !res.Success {
		done(w, r, "/cart", FlashError, res.Message)
		return
	}

	msg := "Order placed successfully!"
	if n := len(res.Orders); n > 1 {
		msg = fmt.Sprintf("%d orders placed successfully!", n)
	}
	done(w, r, "/orders", FlashSuccess, msg)
}
