// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forkline/internal/models"
)

type updateMeRequest struct {
	Address string `json:"address"`
}

// UsersService reads and updates the signed-in user's profile.
type UsersService struct {
	c *Client
}

func (s *UsersService) GetMe(ctx context.Context) (*models.UserProfile, error) {
	env, err := s.c.get(ctx, "/api/users/me", "/api/users/me", nil, "Failed to fetch profile")
	return decodeData[*models.UserProfile](env, err)
}

// UpdateMe saves the user's delivery address.
func (s *UsersService) UpdateMe(ctx context.Context, address string) (*models.UserProfile, error) {
	env, err := s.c.send(ctx, http.MethodPatch, "/api/users/me", "/api/users/me",
		updateMeRequest{Address: address}, "Failed to update address")
	return decodeData[*models.UserProfile](env, err)
}

// AuthService reads the auth provider's session. Results are never cached.
type AuthService struct {
	c *Client
}

// GetSession returns the session behind the context's cookies, or nil when
// there is none. The endpoint answers with a bare {session, user} object or
// null, without the usual envelope. A rejected request means no session.
func (s *AuthService) GetSession(ctx context.Context) (*models.Session, error) {
	if CookiesFrom(ctx) == "" {
		return nil, nil
	}
	env, err := s.c.execute(ctx, call{
		method:   http.MethodGet,
		path:     "/api/auth/get-session",
		endpoint: "/api/auth/get-session",
		raw:      true,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsClientError() {
			return nil, nil
		}
		return nil, err
	}
	if len(env.raw) == 0 || string(env.raw) == "null" {
		return nil, nil
	}
	var sess models.Session
	if err := json.Unmarshal(env.raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.User.ID == "" {
		return nil, nil
	}
	return &sess, nil
}
