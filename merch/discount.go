package merch

import (
	"math"

	"github.com/shopspring/decimal"
)

// Discount is the derived compare-price discount of a product or advertisement.
type Discount struct {
	HasDiscount bool    `json:"has_discount"`
	Percentage  int     `json:"discount_percentage"`
	Savings     float64 `json:"savings"`
}

var hundred = decimal.NewFromInt(100)

// ComputeDiscount compares a price against its compare-at ("was") price.
// A compare price of 0 means "not set". Percentages round half away from zero.
func ComputeDiscount(price, comparePrice float64) Discount {
	if !finite(price) || !finite(comparePrice) {
		return Discount{}
	}
	if comparePrice <= 0 || comparePrice <= price {
		return Discount{}
	}

	p := decimal.NewFromFloat(price)
	cp := decimal.NewFromFloat(comparePrice)
	savings := cp.Sub(p)

	return Discount{
		HasDiscount: true,
		Percentage:  int(savings.Div(cp).Mul(hundred).Round(0).IntPart()),
		Savings:     savings.InexactFloat64(),
	}
}

// decimal.NewFromFloat panics on NaN and infinities.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
