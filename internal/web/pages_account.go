// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package web

import (
	"net/http"
	"strings"

	"github.com/tomtom215/forkline/internal/authz"
	"github.com/tomtom215/forkline/internal/backend"
	"github.com/tomtom215/forkline/internal/models"
	"github.com/tomtom215/forkline/internal/validation"
)

type profilePage struct {
	Profile *models.UserProfile
}

// Profile shows the account and its delivery address.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	me, err := h.svc.Users.GetMe(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v := h.view(w, r, "Profile", profilePage{Profile: me})
	v.Form = map[string]string{"address": ""}
	if me != nil && me.Address != nil {
		v.Form["address"] = *me.Address
	}
	h.render.Render(w, http.StatusOK, "profile", v)
}

type profileForm struct {
	Address string `form:"address" validate:"required,max=255"`
}

// UpdateProfile saves the delivery address.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	in := profileForm{Address: strings.TrimSpace(r.PostFormValue("address"))}
	if verr := validation.ValidateStruct(in); verr != nil {
		done(w, r, "/profile", FlashError, verr.First())
		return
	}
	if _, err := h.svc.Users.UpdateMe(r.Context(), in.Address); err != nil {
		done(w, r, "/profile", FlashError, backend.UserMessage(err, "Failed to update profile"))
		return
	}
	done(w, r, "/profile", FlashSuccess, "Profile updated successfully!")
}

type loginPage struct {
	CallbackURL string
	EmailAction string
	SocialURL   string
}

// Login sends visitors to the auth backend's sign-in, which returns them to
// callbackUrl. Only paths on this site are accepted as callbacks.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	callback := safeLocalPath(r.URL.Query().Get("callbackUrl"))
	if callback == "" {
		callback = "/"
	}
	if sess := authz.SessionFrom(r.Context()); sess != nil && sess.User.ID != "" {
		http.Redirect(w, r, callback, http.StatusFound)
		return
	}

	h.render.Render(w, http.StatusOK, "login", h.view(w, r, "Sign in", loginPage{
		CallbackURL: strings.TrimRight(h.cfg.App.URL, "/") + callback,
		EmailAction: "/api/auth/sign-in/email",
		SocialURL:   "/api/auth/sign-in/social",
	}))
}

var providerProfileFields = []string{
	"restaurant_name", "description", "address", "opening_time", "closing_time", "logo_url", "banner_url",
}

// ProviderProfileForm shows the restaurant profile form.
func (h *Handler) ProviderProfileForm(w http.ResponseWriter, r *http.Request) {
	v := h.view(w, r, "Create your restaurant", nil)
	v.Form = map[string]string{"opening_time": "10:00", "closing_time": "22:00"}
	h.render.Render(w, http.StatusOK, "provider_profile", v)
}

// CreateProviderProfile registers the signed-in user as a provider.
func (h *Handler) CreateProviderProfile(w http.ResponseWriter, r *http.Request) {
	form := formValues(r, providerProfileFields...)
	in := models.ProviderProfile{
		RestaurantName: strings.TrimSpace(form["restaurant_name"]),
		Description:    strings.TrimSpace(form["description"]),
		Address:        strings.TrimSpace(form["address"]),
		OpeningTime:    strings.TrimSpace(form["opening_time"]),
		ClosingTime:    strings.TrimSpace(form["closing_time"]),
		LogoURL:        strings.TrimSpace(form["logo_url"]),
		BannerURL:      strings.TrimSpace(form["banner_url"]),
	}

	if verr := validation.ValidateStruct(in); verr != nil {
		v := h.view(w, r, "Create your restaurant", nil)
		v.Form = form
		v.Errors = verr.FieldErrors()
		v.Flash = &Flash{Kind: FlashError, Message: verr.First()}
		h.render.Render(w, http.StatusUnprocessableEntity, "provider_profile", v)
		return
	}

	if _, err := h.svc.Provider.CreateProfile(r.Context(), in); err != nil {
		v := h.view(w, r, "Create your restaurant", nil)
		v.Form = form
		v.Flash = &Flash{Kind: FlashError, Message: backend.UserMessage(err, "Failed to create profile")}
		h.render.Render(w, formErrorStatus(err), "provider_profile", v)
		return
	}
	done(w, r, "/provider/meals", FlashSuccess, "Provider profile created! Your role has been upgraded to Provider.")
}
