package core

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to 2 decimal places.
// All ingredient costs and HPP totals go through this.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// RoundPrice rounds a selling price to the nearest whole rupiah.
func RoundPrice(v float64) int {
	return int(decimal.NewFromFloat(v).Round(0).IntPart())
}
