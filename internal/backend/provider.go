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

// ProviderService covers a provider's own restaurant profile and menu.
type ProviderService struct {
	c *Client
}

// CreateProfile registers the restaurant profile of the current user.
func (s *ProviderService) CreateProfile(ctx context.Context, p models.ProviderProfile) (*models.Restaurant, error) {
	env, err := s.c.send(ctx, http.MethodPost, "/api/providers/provider-profile", "/api/providers/provider-profile",
		p, "Failed to create provider profile")
	return decodeData[*models.Restaurant](env, err)
}

// ListMeals returns the provider's meals.
func (s *ProviderService) ListMeals(ctx context.Context, providerID string) (models.Page[models.Meal], error) {
	env, err := s.c.get(ctx, "/api/providers/{id}/meals", "/api/providers/"+seg(providerID)+"/meals", nil, "Failed to fetch meals")
	items, err := decodeData[[]models.Meal](env, err)
	if err != nil {
		return models.Page[models.Meal]{}, err
	}
	return models.Page[models.Meal]{Items: items, Meta: decodeMeta[models.PaginatedMeta](env)}, nil
}

func (s *ProviderService) CreateMeal(ctx context.Context, providerID string, in models.MealInput) (*models.Meal, error) {
	env, err := s.c.send(ctx, http.MethodPost, "/api/providers/{id}/meals", "/api/providers/"+seg(providerID)+"/meals",
		in, "Failed to create meal")
	return decodeData[*models.Meal](env, err)
}

func (s *ProviderService) UpdateMeal(ctx context.Context, providerID, mealID string, in models.MealInput) (*models.Meal, error) {
	env, err := s.c.send(ctx, http.MethodPatch, "/api/providers/{id}/meals/{mealId}",
		"/api/providers/"+seg(providerID)+"/meals/"+seg(mealID), in, "Failed to update meal")
	return decodeData[*models.Meal](env, err)
}

func (s *ProviderService) DeleteMeal(ctx context.Context, providerID, mealID string) error {
	_, err := s.c.send(ctx, http.MethodDelete, "/api/providers/{id}/meals/{mealId}",
		"/api/providers/"+seg(providerID)+"/meals/"+seg(mealID), nil, "Failed to delete meal")
	return err
}
