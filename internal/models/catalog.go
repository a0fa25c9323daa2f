// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package models

import "time"

// NewDishWindow is how long after creation a dish is badged as new.
const NewDishWindow = 30 * 24 * time.Hour

// DietaryType classifies a dish for dietary filters.
type DietaryType string

const (
	DietaryVeg   DietaryType = "VEG"
	DietaryHalal DietaryType = "HALAL"
	DietaryVegan DietaryType = "VEGAN"
	DietaryMix   DietaryType = "MIX"
)

// Valid reports whether d is one of the known dietary types.
func (d DietaryType) Valid() bool {
	switch d {
	case DietaryVeg, DietaryHalal, DietaryVegan, DietaryMix:
		return true
	}
	return false
}

// Restaurant is a provider's public restaurant profile.
type Restaurant struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	RestaurantName     string    `json:"restaurant_name"`
	Description        *string   `json:"description,omitempty"`
	Address            string    `json:"address"`
	OpeningTime        string    `json:"opening_time"` // "10:00:00"
	ClosingTime        string    `json:"closing_time"`
	DiscountPercent    float64   `json:"discount_percent"`
	DiscountThreshold  float64   `json:"discount_thereshold"`
	IsOpen             bool      `json:"is_open"`
	FreeDeliveryAmount float64   `json:"freeDeliveryAmount"`
	LogoURL            *string   `json:"logo_url,omitempty"`
	BannerURL          *string   `json:"banner_url,omitempty"`
	RatingAvg          float64   `json:"rating_avg"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Dish is a meal as listed in the public catalog.
type Dish struct {
	ID                 string      `json:"id"`
	ProviderID         string      `json:"providerId"`
	CategoryID         string      `json:"categoryId"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Price              float64     `json:"price"`
	DiscountPercentage *float64    `json:"discount_percentage,omitempty"`
	DiscountPrice      *float64    `json:"discount_price,omitempty"`
	RestaurantName     *string     `json:"restaurant_name"`
	ImageURL           string      `json:"image_url"`
	PreparationTime    int         `json:"preparation_time"`
	DietaryType        DietaryType `json:"dietaryType"`
	IsAvailable        bool        `json:"isAvailable"`
	RatingSum          float64     `json:"rating_sum"`
	RatingCount        int         `json:"rating_count"`
	IsNew              bool        `json:"isNew,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// EffectivePrice is the discounted price when one is set, otherwise the list price.
func (d Dish) EffectivePrice() float64 {
	if d.DiscountPrice != nil && *d.DiscountPrice > 0 {
		return *d.DiscountPrice
	}
	return d.Price
}

// Rating returns the average rating, or 0 when the dish has no reviews.
func (d Dish) Rating() float64 {
	if d.RatingCount == 0 {
		return 0
	}
	return d.RatingSum / float64(d.RatingCount)
}

// MarkNew sets IsNew when the dish was created within NewDishWindow of now.
func (d *Dish) MarkNew(now time.Time) {
	d.IsNew = !d.CreatedAt.IsZero() && now.Sub(d.CreatedAt) <= NewDishWindow
}

// Cuisine is a browsable food category.
type Cuisine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IconURL  string `json:"icon_url"`
	IsActive bool   `json:"is_active"`
}

// Category is the minimal category shape used in meal forms.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive bool   `json:"is_active"`
}

// PaginatedMeta accompanies list responses.
type PaginatedMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// HasNext reports whether a page after the current one exists.
func (m PaginatedMeta) HasNext() bool {
	return m.Page < m.TotalPages
}

// HasPrev reports whether a page before the current one exists.
func (m PaginatedMeta) HasPrev() bool {
	return m.Page > 1
}

// Page is a list result with its pagination metadata.
type Page[T any] struct {
	Items []T           `json:"data"`
	Meta  PaginatedMeta `json:"meta"`
}
