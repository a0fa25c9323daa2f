// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDishDecodeBackendShape(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": "d1", "providerId": "p1", "categoryId": "c1",
		"name": "Kacchi", "description": "Mutton biryani",
		"price": 450, "discount_price": 399, "restaurant_name": null,
		"image_url": "https://images.unsplash.com/x.jpg", "preparation_time": 25,
		"dietaryType": "HALAL", "isAvailable": true,
		"rating_sum": 18, "rating_count": 4,
		"created_at": "2026-09-01T10:00:00Z", "updated_at": "2026-09-02T10:00:00Z"
	}`

	var d Dish
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.ProviderID != "p1" || d.DietaryType != DietaryHalal || !d.IsAvailable {
		t.Errorf("unexpected decode: %+v", d)
	}
	if d.RestaurantName != nil {
		t.Errorf("RestaurantName should be nil for JSON null")
	}
	if got := d.EffectivePrice(); got != 399 {
		t.Errorf("EffectivePrice() = %v, want 399", got)
	}
	if got := d.Rating(); got != 4.5 {
		t.Errorf("Rating() = %v, want 4.5", got)
	}
}

func TestDishMarkNew(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		created time.Time
		want    bool
	}{
		{"yesterday", now.Add(-24 * time.Hour), true},
		{"exactly 30 days", now.Add(-NewDishWindow), true},
		{"31 days", now.Add(-31 * 24 * time.Hour), false},
		{"zero time", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := Dish{CreatedAt: tt.created}
			d.MarkNew(now)
			if d.IsNew != tt.want {
				t.Errorf("IsNew = %v, want %v", d.IsNew, tt.want)
			}
		})
	}
}

func TestNextStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from OrderStatus
		want []OrderStatus
	}{
		{OrderPending, []OrderStatus{OrderPreparing, OrderCancelled}},
		{OrderPreparing, []OrderStatus{OrderOnTheWay, OrderCancelled}},
		{OrderOnTheWay, []OrderStatus{OrderDelivered}},
		{OrderDelivered, nil},
		{OrderCancelled, nil},
		{OrderStatus("BOGUS"), nil},
	}
	for _, tt := range tests {
		got := NextStatuses(tt.from)
		if len(got) != len(tt.want) {
			t.Errorf("NextStatuses(%s) = %v, want %v", tt.from, got, tt.want)
			continue
		}
		for i := range got {
			if got[i].Next != tt.want[i] {
				t.Errorf("NextStatuses(%s)[%d] = %s, want %s", tt.from, i, got[i].Next, tt.want[i])
			}
			if !CanTransition(tt.from, got[i].Next) {
				t.Errorf("CanTransition(%s, %s) = false", tt.from, got[i].Next)
			}
		}
	}

	if CanTransition(OrderPending, OrderDelivered) {
		t.Error("PENDING must not jump straight to DELIVERED")
	}
	if CanTransition(OrderOnTheWay, OrderCancelled) {
		t.Error("an order on the way cannot be cancelled")
	}
}

func TestOrderStatusPresentation(t *testing.T) {
	t.Parallel()

	if OrderOnTheWay.Label() != "Out for Delivery" {
		t.Errorf("Label() = %q", OrderOnTheWay.Label())
	}
	if OrderPending.Step() != 0 || OrderDelivered.Step() != 3 {
		t.Error("unexpected stepper indexes")
	}
	if OrderCancelled.Step() != -1 {
		t.Error("cancelled orders have no stepper position")
	}
	if !OrderPreparing.IsActive() || OrderCancelled.IsActive() || OrderDelivered.IsActive() {
		t.Error("IsActive mismatch")
	}
}

func TestOrderCanReview(t *testing.T) {
	t.Parallel()

	o := Order{
		Status:  OrderDelivered,
		Reviews: []OrderReview{{MealID: "m1", Rating: 5}},
	}
	if o.CanReview("m1") {
		t.Error("m1 already reviewed")
	}
	if !o.CanReview("m2") {
		t.Error("m2 should be reviewable")
	}
	o.Status = OrderOnTheWay
	if o.CanReview("m2") {
		t.Error("undelivered orders cannot be reviewed")
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := map[string]Role{
		"ADMIN":    RoleAdmin,
		"admin":    RoleAdmin,
		"PROVIDER": RoleProvider,
		"CUSTOMER": RoleCustomer,
		"":         RoleCustomer,
		"ROOT":     RoleCustomer,
	}
	for in, want := range tests {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}

	var s *Session
	if s.Role() != "" {
		t.Error("nil session has no role")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Fast Food":                    "fast-food",
		"  Bangladeshi & Indian!  ":    "bangladeshi-indian",
		"Très Chic":                    "tr-s-chic",
		"A very long category name xx": "a-very-long-category",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCartClone(t *testing.T) {
	t.Parallel()

	c := Cart{
		ID:        "c1",
		Provider:  ProviderRef{ProviderProfile: &ProviderProfileName{RestaurantName: "Sultan's"}},
		CartItems: []CartItem{{ID: "i1", Quantity: 1}},
	}
	cl := c.Clone()
	cl.CartItems[0].Quantity = 9
	cl.Provider.ProviderProfile.RestaurantName = "Other"

	if c.CartItems[0].Quantity != 1 {
		t.Error("clone shares cart items")
	}
	if c.Provider.DisplayName() != "Sultan's" {
		t.Error("clone shares provider profile")
	}
}
