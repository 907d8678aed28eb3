package strategy

import (
	"math"

	"github.com/shopspring/decimal"
)

// dustPrecision is the number of fractional digits kept before truncating.
const dustPrecision = 12

// Dustless drops every fractional digit past decimals, never rounding up,
// so a leg is never sized above what the exchange lot rules allow.
//
// The amount is first fixed at 12 fractional digits in decimal form; cutting
// the binary float directly loses a unit at the boundary (0.29 -> 0.28).
func Dustless(amount float64, decimals int) float64 {
	if math.IsNaN(amount) || amount == math.Trunc(amount) {
		return amount
	}
	if decimals < 0 {
		decimals = 0
	}
	d := decimal.NewFromFloat(amount).Round(dustPrecision).Truncate(int32(decimals))
	f, _ := d.Float64()
	return f
}
