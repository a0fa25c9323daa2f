// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package services

import (
	"context"
)

// ContextHub is satisfied by *websocket.Hub. Declared here so this
// package does not import the websocket package.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// OrderHubService supervises the live order status hub: the loop that
// polls the backend for watched users' orders and pushes status changes
// to their sockets.
type OrderHubService struct {
	hub  ContextHub
	name string
}

// NewOrderHubService wraps hub.
func NewOrderHubService(hub ContextHub) *OrderHubService {
	return &OrderHubService{
		hub:  hub,
		name: "order-status-hub",
	}
}

// Serve implements suture.Service. The hub closes every client before
// returning ctx.Err() on shutdown.
func (o *OrderHubService) Serve(ctx context.Context) error {
	return o.hub.RunWithContext(ctx)
}

func (o *OrderHubService) String() string {
	return o.name
}
