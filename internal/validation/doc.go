// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

// Package validation checks storefront form input with go-playground/validator v10
// before anything is sent to the backend.
//
// The backend validates everything again; these checks only catch obvious
// mistakes early so the user sees a message next to the field instead of a
// generic failure flash.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - Field names taken from `form` then `json` tags
//   - Custom "clocktime" rule for HH:MM opening and closing times
//   - Messages written for people ("Restaurant name is required")
//
// Example usage:
//
//	type checkoutForm struct {
//	    Address string `form:"address" validate:"required,max=255"`
//	}
//
//	if verr := validation.ValidateStruct(&f); verr != nil {
//	    flash.Error(w, verr.First())
//	    http.Redirect(w, r, "/cart", http.StatusSeeOther)
//	    return
//	}
package validation
