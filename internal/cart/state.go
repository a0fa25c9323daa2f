// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tomtom215/forkline/internal/models"
)

// State is the mirrored cart of one session.
type State struct {
	Count int           `json:"count"`
	Carts []models.Cart `json:"carts"`
}

// Empty is the state shown to signed-out visitors and after a failed fetch.
func Empty() State {
	return State{Count: 0, Carts: []models.Cart{}}
}

// Clone returns a deep copy safe to mutate.
func (s State) Clone() State {
	out := State{Count: s.Count, Carts: make([]models.Cart, len(s.Carts))}
	for i, c := range s.Carts {
		out.Carts[i] = c.Clone()
	}
	return out
}

// location of an item inside State.Carts.
type location struct {
	cart, item int
}

func (s State) findByMeal(mealID string) (location, bool) {
	for ci := range s.Carts {
		for ii := range s.Carts[ci].CartItems {
			if s.Carts[ci].CartItems[ii].MatchesMeal(mealID) {
				return location{ci, ii}, true
			}
		}
	}
	return location{}, false
}

func (s State) findByItemID(itemID string) (location, bool) {
	for ci := range s.Carts {
		for ii := range s.Carts[ci].CartItems {
			if s.Carts[ci].CartItems[ii].ID == itemID {
				return location{ci, ii}, true
			}
		}
	}
	return location{}, false
}

func mul(price decimal.Decimal, qty int) float64 {
	return price.Mul(decimal.NewFromInt(int64(qty))).InexactFloat64()
}

// adjust returns total with oldSub replaced by newSub.
func adjust(total, newSub, oldSub float64) float64 {
	return decimal.NewFromFloat(total).
		Add(decimal.NewFromFloat(newSub)).
		Sub(decimal.NewFromFloat(oldSub)).
		InexactFloat64()
}

func subClamped(a, b float64) float64 {
	return decimal.Max(decimal.Zero, decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b))).InexactFloat64()
}

// dropEmpty removes carts without items.
func dropEmpty(carts []models.Cart) []models.Cart {
	out := carts[:0]
	for _, c := range carts {
		if len(c.CartItems) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// removeItem deletes the item at loc and lowers the cart total by its
// subtotal, never below zero.
func removeItem(carts []models.Cart, loc location) {
	c := &carts[loc.cart]
	old := c.CartItems[loc.item]
	c.CartItems = append(c.CartItems[:loc.item], c.CartItems[loc.item+1:]...)
	c.TotalPrice = subClamped(c.TotalPrice, old.SubTotalAmount)
}

// applyAdd is the speculative effect of adding qty of a meal. The count
// always grows. The item's quantity only grows when the meal is already in
// a cart; a brand-new item shows up on the next refetch.
func applyAdd(s State, mealID string, qty int) State {
	next := s.Clone()
	next.Count += qty

	loc, ok := next.findByMeal(mealID)
	if !ok {
		return next
	}
	c := &next.Carts[loc.cart]
	it := &c.CartItems[loc.item]
	oldSub := it.SubTotalAmount
	it.Quantity += qty
	it.SubTotalAmount = mul(ItemPrice(*it), it.Quantity)
	c.TotalPrice = adjust(c.TotalPrice, it.SubTotalAmount, oldSub)
	return next
}

// applyUpdate is the speculative effect of setting a meal's quantity. A
// quantity of zero or less removes the item. Nothing changes when the meal
// is not in any cart.
func applyUpdate(s State, mealID string, qty int) State {
	loc, ok := s.findByMeal(mealID)
	if !ok {
		return s.Clone()
	}

	next := s.Clone()
	c := &next.Carts[loc.cart]
	it := &c.CartItems[loc.item]
	next.Count += qty - it.Quantity

	if qty <= 0 {
		removeItem(next.Carts, loc)
	} else {
		newSub := mul(ItemPrice(*it), qty)
		c.TotalPrice = adjust(c.TotalPrice, newSub, it.SubTotalAmount)
		it.Quantity = qty
		it.SubTotalAmount = newSub
	}
	next.Carts = dropEmpty(next.Carts)
	return next
}

// applyRemoveItem is the speculative effect of deleting one cart item.
func applyRemoveItem(s State, itemID string) State {
	loc, ok := s.findByItemID(itemID)
	if !ok {
		return s.Clone()
	}

	next := s.Clone()
	next.Count -= next.Carts[loc.cart].CartItems[loc.item].Quantity
	removeItem(next.Carts, loc)
	next.Carts = dropEmpty(next.Carts)
	return next
}

// applyRemoveCart is the speculative effect of deleting a whole cart.
func applyRemoveCart(s State, cartID string) State {
	next := State{Count: s.Count, Carts: make([]models.Cart, 0, len(s.Carts))}
	for _, c := range s.Carts {
		if c.ID == cartID {
			for _, it := range c.CartItems {
				next.Count -= it.Quantity
			}
			continue
		}
		next.Carts = append(next.Carts, c.Clone())
	}
	return next
}
