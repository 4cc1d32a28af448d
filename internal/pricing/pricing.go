// Package pricing holds the money arithmetic for derived values. All sums
// and products go through decimal so that percentage blends and sale totals
// come out exact, e.g. 60% of 2.50 plus 40% of 3.20 is 2.78, not 2.7800000001.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Component is one raw-material share of a finished feed blend.
type Component struct {
	Percentage float64
	PricePerKg float64
}

// WeightedCost computes the per-kg cost of a blend as the percentage-weighted
// sum of its component prices. An empty component list costs zero.
func WeightedCost(components []Component) float64 {
	total := decimal.Zero
	for _, c := range components {
		share := decimal.NewFromFloat(c.Percentage).Div(hundred)
		total = total.Add(share.Mul(decimal.NewFromFloat(c.PricePerKg)))
	}
	value, _ := total.Float64()
	return value
}

// LineTotal computes quantity times unit price for a sale line.
func LineTotal(quantity int, unitPrice float64) float64 {
	value, _ := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(unitPrice)).Float64()
	return value
}

// QuantityCost computes a consumed quantity in kg times a per-kg cost.
func QuantityCost(quantityKg, costPerKg float64) float64 {
	value, _ := decimal.NewFromFloat(quantityKg).Mul(decimal.NewFromFloat(costPerKg)).Float64()
	return value
}

// Sum adds a series of amounts without accumulating float drift.
func Sum(amounts []float64) float64 {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(decimal.NewFromFloat(amount))
	}
	value, _ := total.Float64()
	return value
}
