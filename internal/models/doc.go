// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

/*
Package models defines the data structures exchanged with the marketplace backend.

The JSON tags mirror the backend's field names exactly, including its mixed
snake_case and camelCase (providerId, isAvailable, cartItems) and the
"discount_thereshold" spelling, so responses decode without adapters.

Model Categories:

 1. Catalog: Restaurant, Dish, Cuisine, Category
 2. Cart: Cart, CartItem, CartItemMeal
 3. Orders: Order, ProviderOrder, OrderItem, OrderReview, Review
 4. Accounts: AuthUser, Session, UserProfile, ProviderProfile, Meal
 5. Admin: AdminUser, AdminOrder, AdminCategory
 6. Paging: PaginatedMeta, Page

The backend is authoritative for every status value. The helpers in status.go
only decide what the storefront shows (stepper position, labels, which status
buttons a provider sees).
*/
package models
