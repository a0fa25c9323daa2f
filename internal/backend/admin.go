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

const adminFallback = "Request failed"

type userStatusRequest struct {
	Status models.UserStatus `json:"status"`
}

// AdminService covers the admin dashboard: users, all orders and categories.
type AdminService struct {
	c *Client
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	env, err := s.c.get(ctx, "/api/admin/users", "/api/admin/users", nil, adminFallback)
	return decodeData[[]models.AdminUser](env, err)
}

func (s *AdminService) UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) (*models.AdminUser, error) {
	env, err := s.c.send(ctx, http.MethodPatch, "/api/admin/users/{id}", "/api/admin/users/"+seg(id),
		userStatusRequest{Status: status}, adminFallback)
	return decodeData[*models.AdminUser](env, err)
}

func (s *AdminService) ListOrders(ctx context.Context) ([]models.AdminOrder, error) {
	env, err := s.c.get(ctx, "/api/admin/orders", "/api/admin/orders", nil, adminFallback)
	return decodeData[[]models.AdminOrder](env, err)
}

func (s *AdminService) ListCategories(ctx context.Context) ([]models.AdminCategory, error) {
	env, err := s.c.get(ctx, "/api/categories", "/api/categories", nil, adminFallback)
	return decodeData[[]models.AdminCategory](env, err)
}

func (s *AdminService) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.AdminCategory, error) {
	env, err := s.c.send(ctx, http.MethodPost, "/api/categories", "/api/categories", in, adminFallback)
	return decodeData[*models.AdminCategory](env, err)
}

// UpdateCategory patches a category. Only the fields set in in are sent.
func (s *AdminService) UpdateCategory(ctx context.Context, id string, in models.CategoryInput) (*models.AdminCategory, error) {
	env, err := s.c.send(ctx, http.MethodPatch, "/api/categories/{id}", "/api/categories/"+seg(id), in, adminFallback)
	return decodeData[*models.AdminCategory](env, err)
}
