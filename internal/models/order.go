// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package models

import "time"

// OrderItemMeal is the meal summary embedded in an order item.
type OrderItemMeal struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url,omitempty"`
}

// OrderItem is one meal line in an order.
type OrderItem struct {
	ID             string        `json:"id"`
	OrderID        string        `json:"order_id,omitempty"`
	MealID         string        `json:"meal_id"`
	Quantity       int           `json:"quantity"`
	UnitPrice      float64       `json:"unit_price"`
	SubTotalAmount float64       `json:"sub_total_amount"`
	Meal           OrderItemMeal `json:"meal"`
}

// OrderReview is the review summary attached to a customer order.
type OrderReview struct {
	ID      string  `json:"id"`
	MealID  string  `json:"meal_id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// Order is a customer's order as returned by GET /api/orders.
type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	ProviderID      string        `json:"provider_id"`
	TotalAmount     float64       `json:"total_amount"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	DeliveryAddress string        `json:"delivery_address"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Provider        *ProviderRef  `json:"provider,omitempty"`
	OrderItems      []OrderItem   `json:"orderItems"`
	Reviews         []OrderReview `json:"reviews,omitempty"`
}

// Reviewed reports whether the order already carries a review for mealID.
func (o Order) Reviewed(mealID string) bool {
	for _, r := range o.Reviews {
		if r.MealID == mealID {
			return true
		}
	}
	return false
}

// CanReview reports whether the customer may still review mealID on this order.
func (o Order) CanReview(mealID string) bool {
	return o.Status == OrderDelivered && !o.Reviewed(mealID)
}

// OrderCustomer is the customer summary embedded in provider and admin orders.
type OrderCustomer struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// ProviderOrder is an incoming order as seen by a provider.
type ProviderOrder struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	ProviderID      string        `json:"provider_id"`
	TotalAmount     float64       `json:"total_amount"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	DeliveryAddress string        `json:"delivery_address"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	User            OrderCustomer `json:"user"`
	OrderItems      []OrderItem   `json:"orderItems"`
}

// ReviewAuthor is the author summary embedded in a review.
type ReviewAuthor struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// ReviewMeal is the meal summary embedded in a review.
type ReviewMeal struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// Review is a customer's rating of a meal from a delivered order.
type Review struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	MealID    string        `json:"meal_id"`
	OrderID   string        `json:"order_id"`
	Rating    int           `json:"rating"`
	Comment   *string       `json:"comment"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	User      *ReviewAuthor `json:"user,omitempty"`
	Meal      *ReviewMeal   `json:"meal,omitempty"`
}
