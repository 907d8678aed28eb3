package strategy

import (
	"math"

	"triarb/internal/orderbook"
	"triarb/internal/prices"
)

// notViable replaces a percent that is zero or not a finite number.
const notViable = -100.0

// Depth holds the book of each leg, captured once per trade.
type Depth struct{ AB, BC, CA orderbook.L2 }

func (d Depth) Books() [3]orderbook.L2 { return [3]orderbook.L2{d.AB, d.BC, d.CA} }

// Prices holds each leg's reference quote; nil means absent.
type Prices struct{ AB, BC, CA *prices.Quote }

func (p Prices) legs() [3]*prices.Quote { return [3]*prices.Quote{p.AB, p.BC, p.CA} }

// Balance is what the cycle spent and earned of one currency.
type Balance struct {
	Spent  float64
	Earned float64
	Delta  float64
}

// Result is one evaluation of a trade at a fixed investment.
type Result struct {
	ID         string
	Trade      Trade
	Investment float64
	AB, BC, CA float64 // leg quantities
	A, B, C    Balance
	Percent    float64 // depth-based return net of fees
	Profit     float64 // reference-price estimate, informational
	Depth      Depth
}

// Calculator evaluates trades; FeePercent is charged once per leg.
type Calculator struct {
	FeePercent float64
}

func NewCalculator(feePercent float64) *Calculator { return &Calculator{FeePercent: feePercent} }

// Calculate runs investment of A around the cycle. Any leg failure aborts the
// whole evaluation.
func (c *Calculator) Calculate(investment float64, t Trade, depth Depth, px Prices) (Result, error) {
	books, quotes := depth.Books(), px.legs()
	var (
		bal   [3]Balance
		qty   [3]float64
		input = investment
		ratio = 1.0
	)
	for i, h := range t.hops() {
		out, err := evaluateLeg(h.leg, h.from, h.to, input, books[i])
		if err != nil {
			return Result{}, err
		}
		qty[i] = out.Quantity
		bal[i].Spent += out.Spent
		bal[(i+1)%3].Earned += out.Earned
		input = out.Earned
		ratio *= referenceRatio(h.leg.Method, quotes[i])
	}
	for i := range bal {
		bal[i].Delta = bal[i].Earned - bal[i].Spent
	}

	percent := bal[0].Delta/bal[0].Spent*100 - c.FeePercent*3
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent == 0 {
		percent = notViable
	}

	return Result{
		ID:         t.ID(),
		Trade:      t,
		Investment: investment,
		AB:         qty[0],
		BC:         qty[1],
		CA:         qty[2],
		A:          bal[0],
		B:          bal[1],
		C:          bal[2],
		Percent:    percent,
		Profit:     (ratio - 1) * 100,
		Depth:      depth,
	}, nil
}

// referenceRatio is the leg's multiplier at reference prices. A missing or
// unusable quote zeroes it.
func referenceRatio(m Method, q *prices.Quote) float64 {
	if q == nil {
		return 0
	}
	switch m {
	case Buy:
		return q.Buy
	case Sell:
		if q.Sell <= 0 {
			return 0
		}
		return 1 / q.Sell
	}
	return 0
}
