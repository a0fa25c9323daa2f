// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package models

import "time"

// ProviderRef is the provider summary embedded in carts and orders.
type ProviderRef struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	ProviderProfile *ProviderProfileName `json:"providerProfile"`
}

// ProviderProfileName carries only the restaurant name of a provider profile.
type ProviderProfileName struct {
	RestaurantName string `json:"restaurant_name"`
}

// DisplayName prefers the restaurant name over the account name.
func (p ProviderRef) DisplayName() string {
	if p.ProviderProfile != nil && p.ProviderProfile.RestaurantName != "" {
		return p.ProviderProfile.RestaurantName
	}
	return p.Name
}

// Cart groups the items a customer holds from a single provider.
type Cart struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	ProviderID string      `json:"provider_id"`
	Provider   ProviderRef `json:"provider"`
	Status     string      `json:"status"`
	TotalPrice float64     `json:"total_price"`
	CartItems  []CartItem  `json:"cartItems"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CartItem is one meal line in a cart.
type CartItem struct {
	ID             string       `json:"id"`
	CartID         string       `json:"cart_id"`
	MealID         string       `json:"meal_id"`
	Meal           CartItemMeal `json:"meal"`
	Quantity       int          `json:"quantity"`
	UnitPrice      *float64     `json:"unit_price,omitempty"`
	SubTotalAmount float64      `json:"sub_total_amount"`
}

// CartItemMeal is the meal summary embedded in a cart item.
type CartItemMeal struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	ImageURL           string   `json:"image_url"`
	Price              float64  `json:"price"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	DiscountPrice      *float64 `json:"discount_price,omitempty"`
}

// MatchesMeal reports whether the item holds the given meal. Some backend
// responses omit meal_id and only embed the meal.
func (ci *CartItem) MatchesMeal(mealID string) bool {
	return ci.MealID == mealID || ci.Meal.ID == mealID
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	out := c
	if c.Provider.ProviderProfile != nil {
		p := *c.Provider.ProviderProfile
		out.Provider.ProviderProfile = &p
	}
	if c.CartItems != nil {
		out.CartItems = make([]CartItem, len(c.CartItems))
		copy(out.CartItems, c.CartItems)
	}
	return out
}

// CartCount is the body of GET /api/carts/count.
type CartCount struct {
	Count int `json:"count"`
}
