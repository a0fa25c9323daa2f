// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/cart"
	"github.com/tomtom215/forkline/internal/logging"
)

// CartState returns the session's cart mirror as {count, carts}. The shape
// is the client-side cart context of the storefront, so it is written
// without the response envelope. Signed-out visitors get an empty cart.
func (h *Handler) CartState(w http.ResponseWriter, r *http.Request) {
	state := cart.Empty()
	if h.carts != nil {
		state = h.carts.Refresh(r.Context(), cart.KeyFor(authz.SessionFrom(r.Context())))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode cart state")
	}
}
