package merch

import "github.com/shopspring/decimal"

// ReconcileQuantity merges an added quantity into what is already in the cart,
// never exceeding the stock on hand.
func ReconcileQuantity(current, add, stock int) int {
	q := current + add
	if q > stock {
		q = stock
	}
	if q < 0 {
		q = 0
	}
	return q
}

type CartLine struct {
	Price        float64
	ComparePrice float64
	Quantity     int
}

type CartSummary struct {
	Items        int     `json:"items"`
	Subtotal     float64 `json:"subtotal"`
	CompareTotal float64 `json:"compare_total"`
	Savings      float64 `json:"savings"`
}

// SummarizeCart totals the lines. CompareTotal uses the compare price only for
// lines that actually carry a discount.
func SummarizeCart(lines []CartLine) CartSummary {
	var (
		items    int
		subtotal = decimal.Zero
		compare  = decimal.Zero
		savings  = decimal.Zero
	)

	for _, l := range lines {
		if l.Quantity <= 0 || !finite(l.Price) {
			continue
		}
		qty := decimal.NewFromInt(int64(l.Quantity))
		lineTotal := decimal.NewFromFloat(l.Price).Mul(qty)

		items += l.Quantity
		subtotal = subtotal.Add(lineTotal)

		d := ComputeDiscount(l.Price, l.ComparePrice)
		if d.HasDiscount {
			compare = compare.Add(decimal.NewFromFloat(l.ComparePrice).Mul(qty))
			savings = savings.Add(decimal.NewFromFloat(d.Savings).Mul(qty))
		} else {
			compare = compare.Add(lineTotal)
		}
	}

	return CartSummary{
		Items:        items,
		Subtotal:     subtotal.InexactFloat64(),
		CompareTotal: compare.InexactFloat64(),
		Savings:      savings.InexactFloat64(),
	}
}
