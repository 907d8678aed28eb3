package strategy

import (
	"fmt"

	"triarb/internal/orderbook"
)

// Direction selects which side of the book a conversion walks.
type Direction int

const (
	// Forward simulates the trade actually being placed.
	Forward Direction = iota
	// Reverse walks the opposite side, to price what had to be spent for a
	// given amount earned. The spread makes this differ from inverting Forward.
	Reverse
)

// Orientation tells whether the pair is quoted from+to (Direct) or
// to+from (Inverse).
type Orientation int

const (
	Direct Orientation = iota
	Inverse
)

func OrientationOf(ticker, from, to string) Orientation {
	if ticker == from+to {
		return Direct
	}
	return Inverse
}

// Conversion describes one walk of amount From into To through Ticker's book.
type Conversion struct {
	From, To  string
	Ticker    string
	Direction Direction
}

func (c Conversion) Orientation() Orientation { return OrientationOf(c.Ticker, c.From, c.To) }

// Walk fills amount against the book best-first and returns the amount of To
// obtained. Whole levels are consumed while they are strictly smaller than
// what remains; the first level that covers the remainder is the last fill.
func (c Conversion) Walk(amount float64, book orderbook.L2) (float64, error) {
	return walk(amount, c.Direction, c.Orientation(), book, c)
}

// Convert is Walk with an explicit orientation and no currency labels.
func Convert(amount float64, dir Direction, o Orientation, book orderbook.L2) (float64, error) {
	return walk(amount, dir, o, book, Conversion{Direction: dir})
}

func walk(amount float64, dir Direction, o Orientation, book orderbook.L2, c Conversion) (float64, error) {
	if amount == 0 {
		return 0, nil
	}
	levels, side := book.Asks, "Ask"
	if (dir == Forward) == (o == Direct) {
		levels, side = book.Bids, "Bid"
	}

	// Direct: level sizes are in From units and pay qty*price of To.
	// Inverse: a level can absorb qty*price of From and pays qty of To.
	capacity := func(l orderbook.Level) (float64, float64) { return l.Qty, l.Qty * l.Price }
	last := func(rem float64, l orderbook.Level) float64 { return rem * l.Price }
	if o == Inverse {
		capacity = func(l orderbook.Level) (float64, float64) { return l.Qty * l.Price, l.Qty }
		last = func(rem float64, l orderbook.Level) float64 { return rem / l.Price }
	}

	remaining, acc := amount, 0.0
	for _, lvl := range levels {
		in, out := capacity(lvl)
		if in < remaining {
			remaining -= in
			acc += out
			continue
		}
		return acc + last(remaining, lvl), nil
	}
	return 0, &InsufficientDepthError{
		Side:      side,
		Levels:    len(levels),
		Requested: amount,
		Remaining: remaining,
		From:      c.From,
		To:        c.To,
		Ticker:    c.Ticker,
		Reverse:   dir == Reverse,
	}
}

// DepthRequirement returns how many levels a market order of quantity base
// units would touch: bids for SELL, asks for BUY. When the side never covers
// quantity the full level count is returned.
func DepthRequirement(m Method, quantity float64, book orderbook.L2) (int, error) {
	var levels []orderbook.Level
	switch m {
	case Sell:
		levels = book.Bids
	case Buy:
		levels = book.Asks
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
	}
	exchanged := 0.0
	for i, lvl := range levels {
		exchanged += lvl.Qty
		if exchanged >= quantity {
			return i + 1, nil
		}
	}
	return len(levels), nil
}
