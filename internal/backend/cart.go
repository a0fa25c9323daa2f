// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package backend

import (
	"context"
	"net/http"

	"github.com/tomtom215/forkline/internal/models"
)

type cartItemRequest struct {
	MealID   string `json:"meal_id"`
	Quantity int    `json:"quantity"`
}

// CartService manages the signed-in user's carts. The backend keeps one cart
// per provider.
type CartService struct {
	c *Client
}

// GetCarts returns every cart of the current user.
func (s *CartService) GetCarts(ctx context.Context) ([]models.Cart, error) {
	env, err := s.c.get(ctx, "/api/carts", "/api/carts", nil, "Failed to fetch cart")
	carts, err := decodeData[[]models.Cart](env, err)
	if carts == nil && err == nil {
		carts = []models.Cart{}
	}
	return carts, err
}

// GetCount returns the total item quantity across all carts.
func (s *CartService) GetCount(ctx context.Context) (int, error) {
	env, err := s.c.get(ctx, "/api/carts/count", "/api/carts/count", nil, "Failed to fetch cart count")
	cc, err := decodeData[models.CartCount](env, err)
	return cc.Count, err
}

// AddItem adds qty of a meal, creating the provider's cart when needed.
func (s *CartService) AddItem(ctx context.Context, mealID string, qty int) error {
	_, err := s.c.send(ctx, http.MethodPost, "/api/carts", "/api/carts",
		cartItemRequest{MealID: mealID, Quantity: qty}, "Failed to add to cart")
	return err
}

// UpdateItem sets the quantity of a meal already in a cart.
func (s *CartService) UpdateItem(ctx context.Context, mealID string, qty int) error {
	_, err := s.c.send(ctx, http.MethodPatch, "/api/carts", "/api/carts",
		cartItemRequest{MealID: mealID, Quantity: qty}, "Failed to update cart")
	return err
}

// RemoveItem deletes one cart item.
func (s *CartService) RemoveItem(ctx context.Context, itemID string) error {
	_, err := s.c.send(ctx, http.MethodDelete, "/api/carts/items/{id}", "/api/carts/items/"+seg(itemID), nil, "Failed to remove item")
	return err
}

// RemoveCart deletes a whole cart.
func (s *CartService) RemoveCart(ctx context.Context, cartID string) error {
	_, err := s.c.send(ctx, http.MethodDelete, "/api/carts/{id}", "/api/carts/"+seg(cartID), nil, "Failed to remove cart")
	return err
}
