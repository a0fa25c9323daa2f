// Forkline - Food Delivery Marketplace Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkline

package cart

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomtom215/forkline/internal/models"
)

// DeliveryFee is charged once per checkout when anything is in the cart.
var DeliveryFee = decimal.NewFromInt(60)

// CurrencyCode prefixes every formatted amount.
const CurrencyCode = "BDT"

var printer = message.NewPrinter(language.AmericanEnglish)

// Line is one cart item as displayed on the cart page.
type Line struct {
	ID       string
	CartID   string
	MealID   string
	Name     string
	Image    string
	Price    decimal.Decimal
	Quantity int
}

// Amount is the line's price times quantity.
func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ItemPrice is the unit price shown for an item: the cart's unit price,
// else the meal's discount price, else the meal's list price. A price that
// is present wins even when it is zero.
func ItemPrice(it models.CartItem) decimal.Decimal {
	switch {
	case it.UnitPrice != nil:
		return decimal.NewFromFloat(*it.UnitPrice)
	case it.Meal.DiscountPrice != nil:
		return decimal.NewFromFloat(*it.Meal.DiscountPrice)
	default:
		return decimal.NewFromFloat(it.Meal.Price)
	}
}

// Lines flattens every cart into display lines.
func Lines(carts []models.Cart) []Line {
	var out []Line
	for _, c := range carts {
		for _, it := range c.CartItems {
			mealID := it.MealID
			if mealID == "" {
				mealID = it.Meal.ID
			}
			out = append(out, Line{
				ID:       it.ID,
				CartID:   c.ID,
				MealID:   mealID,
				Name:     it.Meal.Name,
				Image:    it.Meal.ImageURL,
				Price:    ItemPrice(it),
				Quantity: it.Quantity,
			})
		}
	}
	return out
}

// Totals is the checkout summary.
type Totals struct {
	Subtotal decimal.Decimal
	Delivery decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals sums lines and adds the delivery fee when the subtotal is
// positive.
func CalculateTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
	}
	delivery := decimal.Zero
	if subtotal.IsPositive() {
		delivery = DeliveryFee
	}
	return Totals{Subtotal: subtotal, Delivery: delivery, Total: subtotal.Add(delivery)}
}

// FormatCurrency renders amount as whole taka with US digit grouping, for
// example "BDT 1,234".
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + printer.Sprintf("%s %d", CurrencyCode, rounded.IntPart())
}

// FormatFloat is FormatCurrency for plain float amounts from the backend.
func FormatFloat(amount float64) string {
	return FormatCurrency(decimal.NewFromFloat(amount))
}
