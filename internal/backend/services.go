// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package backend

import "time"

// Services groups the per-resource services over one shared Client.
type Services struct {
	Client   *Client
	Catalog  *CatalogService
	Cart     *CartService
	Orders   *OrdersService
	Reviews  *ReviewsService
	Admin    *AdminService
	Provider *ProviderService
	Users    *UsersService
	Auth     *AuthService
}

// NewServices wires every service to c. now is the clock used to flag new
// dishes; nil means time.Now.
func NewServices(c *Client, now func() time.Time) *Services {
	if now == nil {
		now = time.Now
	}
	return &Services{
		Client:   c,
		Catalog:  &CatalogService{c: c, now: now},
		Cart:     &CartService{c: c},
		Orders:   &OrdersService{c: c},
		Reviews:  &ReviewsService{c: c},
		Admin:    &AdminService{c: c},
		Provider: &ProviderService{c: c},
		Users:    &UsersService{c: c},
		Auth:     &AuthService{c: c},
	}
}
