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

// ReviewInput is a customer's review of one meal from a delivered order.
type ReviewInput struct {
	MealID  string `json:"meal_id" validate:"required"`
	OrderID string `json:"order_id" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"max=1000"`
}

// ReviewsService creates and lists meal reviews.
type ReviewsService struct {
	c *Client
}

// CreateReview submits a review.
func (s *ReviewsService) CreateReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	env, err := s.c.send(ctx, http.MethodPost, "/api/reviews", "/api/reviews", in, "Failed to submit review")
	return decodeData[*models.Review](env, err)
}

// ListOrderReviews returns the reviews left on one order.
func (s *ReviewsService) ListOrderReviews(ctx context.Context, orderID string) ([]models.Review, error) {
	env, err := s.c.get(ctx, "/api/reviews/order/{id}", "/api/reviews/order/"+seg(orderID), nil, "Failed to fetch reviews")
	return decodeData[[]models.Review](env, err)
}

// ListMealReviews returns the public reviews of a meal.
func (s *ReviewsService) ListMealReviews(ctx context.Context, mealID string) ([]models.Review, error) {
	env, err := s.c.get(ctx, "/api/reviews/meal/{id}", "/api/reviews/meal/"+seg(mealID), nil, "Failed to fetch reviews")
	return decodeData[[]models.Review](env, err)
}
