package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDustlessKeepsIntegers(t *testing.T) {
	for _, amount := range []float64{0, 1, 5, 100, -7, 1e9} {
		for d := 0; d <= 8; d++ {
			assert.Equal(t, amount, Dustless(amount, d), "amount=%v decimals=%d", amount, d)
		}
	}
}

func TestDustlessTruncates(t *testing.T) {
	cases := []struct {
		name     string
		amount   float64
		decimals int
		want     float64
	}{
		{"plain", 1.23456789, 4, 1.2345},
		{"no rounding up", 0.999, 2, 0.99},
		{"binary artifact", 0.29, 2, 0.29},
		{"fixed at twelve digits first", 2.9999999999999996, 2, 3},
		{"toward zero", -1.999, 2, -1.99},
		{"zero decimals", 12.75, 0, 12},
		{"more decimals than value", 0.123, 8, 0.123},
		{"negative decimals", 3.5, -1, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Dustless(tc.amount, tc.decimals))
		})
	}
}

func TestDustlessNeverGrows(t *testing.T) {
	for _, x := range []float64{0.1, 0.123456789, 1.0000001, 99.99999, 12345.6789, -0.55, -3.14159} {
		for d := 0; d <= 10; d++ {
			got := Dustless(x, d)
			assert.LessOrEqual(t, math.Abs(got), math.Abs(x), "x=%v d=%d", x, d)
		}
	}
}
