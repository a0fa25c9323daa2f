// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package validation

import (
	"testing"

	"github.com/tomtom215/forkline/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type addressForm struct {
	Address string `form:"address" validate:"required,max=20"`
	Note    string `json:"delivery_note,omitempty" validate:"max=5"`
	Qty     int    `validate:"min=1,max=10"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     addressForm
		wantField string
		wantMsg   string
	}{
		{"valid", addressForm{Address: "Road 5", Qty: 1}, "", ""},
		{"missing address", addressForm{Qty: 1}, "address", "Address is required"},
		{"long address", addressForm{Address: "House 12, Road 5, Dhanmondi", Qty: 1}, "address", "Address must be at most 20 characters"},
		{"json name", addressForm{Address: "x", Note: "too long", Qty: 1}, "delivery_note", "Delivery note must be at most 5 characters"},
		{"struct name fallback", addressForm{Address: "x", Qty: 0}, "Qty", "Qty must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() expected error")
			}
			if got := err.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("Field() = %q, want %q", got, tt.wantField)
			}
			if got := err.First(); got != tt.wantMsg {
				t.Errorf("First() = %q, want %q", got, tt.wantMsg)
			}
			if got := err.FieldErrors()[tt.wantField]; got != tt.wantMsg {
				t.Errorf("FieldErrors()[%q] = %q", tt.wantField, got)
			}
		})
	}
}

func TestClockTime(t *testing.T) {
	base := models.ProviderProfile{
		RestaurantName: "Sultan's Dine",
		Address:        "Gulshan 2, Dhaka",
		OpeningTime:    "09:00",
		ClosingTime:    "23:30",
	}
	if err := ValidateStruct(&base); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	for _, bad := range []string{"9am", "25:00", "12:60", "noon"} {
		p := base
		p.ClosingTime = bad
		err := ValidateStruct(&p)
		if err == nil {
			t.Errorf("closing time %q accepted", bad)
			continue
		}
		if got := err.First(); got != "Closing time must be a time like 09:30" {
			t.Errorf("message = %q", got)
		}
	}
}

func TestMealInput(t *testing.T) {
	neg := -5.0
	in := models.MealInput{Name: "Kacchi Biryani", Price: 0, DiscountPrice: &neg, ImageURL: "not a url"}
	err := ValidateStruct(&in)
	if err == nil {
		t.Fatal("expected errors")
	}
	fields := err.FieldErrors()
	for _, f := range []string{"price", "discount_price", "image_url"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing error for %s: %v", f, fields)
		}
	}
	if fields["price"] != "Price must be greater than 0" {
		t.Errorf("price message = %q", fields["price"])
	}
}

func TestCategoryInput(t *testing.T) {
	active := false
	toggle := models.CategoryInput{IsActive: &active}
	if err := ValidateStruct(&toggle); err != nil {
		t.Errorf("status toggle rejected: %v", err)
	}

	missing := models.CategoryInput{}
	err := ValidateStruct(&missing)
	if err == nil || err.FieldErrors()["name"] != "Name is required" {
		t.Errorf("empty category: %v", err)
	}

	noSlug := models.CategoryInput{Name: "Thai"}
	if err := ValidateStruct(&noSlug); err == nil || err.FieldErrors()["slug"] == "" {
		t.Errorf("name without slug: %v", err)
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"restaurant_name": "Restaurant name",
		"Qty":             "Qty",
		"":                "",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
