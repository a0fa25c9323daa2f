// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package models

import (
	"regexp"
	"strings"
	"time"
)

// AuthUser is the user half of an auth session.
type AuthUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Image         *string   `json:"image,omitempty"`
	Role          string    `json:"role,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SessionInfo is the session half of an auth session.
type SessionInfo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Session is the body returned by /api/auth/get-session.
type Session struct {
	Session SessionInfo `json:"session"`
	User    AuthUser    `json:"user"`
}

// Role returns the normalized role of the session user.
func (s *Session) Role() Role {
	if s == nil {
		return ""
	}
	return ParseRole(s.User.Role)
}

// UserProfile is the body of GET/PATCH /api/users/me.
type UserProfile struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Image   *string `json:"image"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Role    string  `json:"role"`
	Status  string  `json:"status"`
}

// ProviderProfile is the payload for creating a restaurant profile.
type ProviderProfile struct {
	RestaurantName string `json:"restaurant_name" validate:"required,max=120"`
	Description    string `json:"description,omitempty" validate:"max=1000"`
	Address        string `json:"address" validate:"required,max=255"`
	OpeningTime    string `json:"opening_time" validate:"required,clocktime"`
	ClosingTime    string `json:"closing_time" validate:"required,clocktime"`
	LogoURL        string `json:"logo_url,omitempty" validate:"omitempty,url"`
	BannerURL      string `json:"banner_url,omitempty" validate:"omitempty,url"`
}

// Meal is a provider's own meal as managed from the provider dashboard.
type Meal struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	Price              float64   `json:"price"`
	DiscountPercentage *float64  `json:"discount_percentage,omitempty"`
	DiscountPrice      *float64  `json:"discount_price,omitempty"`
	ImageURL           *string   `json:"image_url,omitempty"`
	IsAvailable        bool      `json:"is_available"`
	PreparationTime    *int      `json:"preparation_time,omitempty"`
	RatingSum          float64   `json:"rating_sum"`
	RatingCount        int       `json:"rating_count"`
	CategoryID         *string   `json:"category_id,omitempty"`
	Category           *Category `json:"category,omitempty"`
}

// MealInput is the create/update payload for a provider meal. Optional
// fields are omitted rather than sent empty.
type MealInput struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   string   `json:"description,omitempty" validate:"max=1000"`
	Price         float64  `json:"price" validate:"gt=0"`
	DiscountPrice *float64 `json:"discount_price,omitempty" validate:"omitempty,gt=0"`
	ImageURL      string   `json:"image_url,omitempty" validate:"omitempty,url"`
	IsAvailable   bool     `json:"is_available"`
	CategoryID    string   `json:"category_id,omitempty"`
}

// AdminUser is a marketplace account as listed for administrators.
type AdminUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	Phone         *string   `json:"phone,omitempty"`
	Image         *string   `json:"image,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AdminOrder is an order as listed for administrators.
type AdminOrder struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	ProviderID      string        `json:"provider_id"`
	TotalAmount     float64       `json:"total_amount"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	DeliveryAddress string        `json:"delivery_address"`
	CreatedAt       time.Time     `json:"created_at"`
	User            OrderCustomer `json:"user"`
	Provider        ProviderRef   `json:"provider"`
	OrderItems      []OrderItem   `json:"orderItems"`
}

// AdminCategory is a category with its moderation fields.
type AdminCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IconURL   *string   `json:"icon_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryInput is the create/update payload for a category. IsActive is
// only sent when toggling.
type CategoryInput struct {
	Name     string `json:"name,omitempty" validate:"required_without=IsActive,max=60"`
	Slug     string `json:"slug,omitempty" validate:"required_with=Name,max=20"`
	IconURL  string `json:"icon_url,omitempty" validate:"omitempty,url"`
	IsActive *bool  `json:"is_active,omitempty"`
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// maxSlugLen bounds generated category slugs.
const maxSlugLen = 20

// Slugify derives a category slug from its name: lower-cased, runs of
// non-alphanumerics collapsed to "-", outer dashes trimmed, then cut to 20 characters.
func Slugify(name string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}
