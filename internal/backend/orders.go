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

type createOrderRequest struct {
	ProviderID      string `json:"provider_id"`
	DeliveryAddress string `json:"delivery_address"`
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// OrdersService reads and places orders.
type OrdersService struct {
	c *Client
}

// ListOrders returns the current customer's orders.
func (s *OrdersService) ListOrders(ctx context.Context) ([]models.Order, error) {
	env, err := s.c.get(ctx, "/api/orders", "/api/orders", nil, "Failed to fetch orders")
	return decodeData[[]models.Order](env, err)
}

// GetOrder returns one of the current customer's orders.
func (s *OrdersService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	env, err := s.c.get(ctx, "/api/orders/{id}", "/api/orders/"+seg(id), nil, "Failed to fetch order")
	return decodeData[*models.Order](env, err)
}

// CreateOrder places an order from the current user's cart for providerID.
func (s *OrdersService) CreateOrder(ctx context.Context, providerID, address string) (*models.Order, error) {
	env, err := s.c.send(ctx, http.MethodPost, "/api/orders", "/api/orders",
		createOrderRequest{ProviderID: providerID, DeliveryAddress: address}, "Failed to place order")
	return decodeData[*models.Order](env, err)
}

// ListProviderOrders returns the orders received by the current provider.
func (s *OrdersService) ListProviderOrders(ctx context.Context) ([]models.ProviderOrder, error) {
	env, err := s.c.get(ctx, "/api/orders/provider", "/api/orders/provider", nil, "Failed to fetch provider orders")
	return decodeData[[]models.ProviderOrder](env, err)
}

// UpdateProviderOrderStatus asks the backend to move an order to status.
// The backend decides whether the transition is legal.
func (s *OrdersService) UpdateProviderOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.ProviderOrder, error) {
	env, err := s.c.send(ctx, http.MethodPatch, "/api/providers/orders/{id}", "/api/providers/orders/"+seg(id),
		orderStatusRequest{Status: status}, "Failed to update status")
	return decodeData[*models.ProviderOrder](env, err)
}
