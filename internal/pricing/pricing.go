package pricing

import (
	"math"

	"storefront/internal/model"
)

// Config holds the pricing parameters for order totals. It is constructed
// explicitly and passed in; there is no package-level default rate.
type Config struct {
	// TaxRate is the flat tax rate applied to the subtotal, e.g. 0.08.
	TaxRate float64

	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold float64

	// FlatShippingFee is charged when the subtotal does not exceed the
	// free-shipping threshold.
	FlatShippingFee float64
}

// Totals is the computed money breakdown for a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Calculator computes order totals from cart lines.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator with the given pricing configuration.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate computes subtotal, tax, shipping and total for the given lines.
// Intermediate values are not rounded; use Round2 at display time only.
// An empty cart yields all-zero totals.
func (c *Calculator) Calculate(lines []model.CartLine) Totals {
	var t Totals
	if len(lines) == 0 {
		return t
	}

	for _, line := range lines {
		t.Subtotal += line.UnitPrice * float64(line.Quantity)
	}

	t.Tax = t.Subtotal * c.cfg.TaxRate

	if t.Subtotal > c.cfg.FreeShippingThreshold {
		t.Shipping = 0
	} else {
		t.Shipping = c.cfg.FlatShippingFee
	}

	t.Total = t.Subtotal + t.Tax + t.Shipping
	return t
}

// Round2 rounds a dollar amount to two decimal places for display.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
