package orderbook

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnordered is returned when a book side is not sorted best-first.
var ErrUnordered = errors.New("order book levels not best-first")

type Level struct{ Price, Qty float64 }

// L2 is a point-in-time view of one pair's book.
type L2 struct {
	Bids []Level // sorted desc by price
	Asks []Level // sorted asc by price
}

// FromMaps builds a best-first L2 from price->qty maps, the shape most
// exchange depth payloads decode into.
func FromMaps(bids, asks map[float64]float64) L2 {
	var b L2
	for p, q := range bids {
		b.Bids = append(b.Bids, Level{Price: p, Qty: q})
	}
	for p, q := range asks {
		b.Asks = append(b.Asks, Level{Price: p, Qty: q})
	}
	sort.Slice(b.Bids, func(i, j int) bool { return b.Bids[i].Price > b.Bids[j].Price })
	sort.Slice(b.Asks, func(i, j int) bool { return b.Asks[i].Price < b.Asks[j].Price })
	return b
}

// Validate asserts the best-first invariant and positive prices/quantities.
// Depth walking assumes monotonically worsening prices and silently gives a
// wrong answer otherwise, so snapshots are checked before entering the cache.
func (b L2) Validate() error {
	if err := checkSide(b.Bids, func(prev, cur float64) bool { return cur < prev }); err != nil {
		return fmt.Errorf("bids: %w", err)
	}
	if err := checkSide(b.Asks, func(prev, cur float64) bool { return cur > prev }); err != nil {
		return fmt.Errorf("asks: %w", err)
	}
	return nil
}

func checkSide(levels []Level, worse func(prev, cur float64) bool) error {
	for i, lvl := range levels {
		if lvl.Price <= 0 || lvl.Qty <= 0 {
			return fmt.Errorf("level %d has non-positive price or qty (%g@%g)", i, lvl.Qty, lvl.Price)
		}
		if i > 0 && !worse(levels[i-1].Price, lvl.Price) {
			return fmt.Errorf("%w: level %d price %g after %g", ErrUnordered, i, lvl.Price, levels[i-1].Price)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hold it across cache updates.
func (b L2) Clone() L2 {
	out := L2{}
	if b.Bids != nil {
		out.Bids = append(make([]Level, 0, len(b.Bids)), b.Bids...)
	}
	if b.Asks != nil {
		out.Asks = append(make([]Level, 0, len(b.Asks)), b.Asks...)
	}
	return out
}

func (b L2) BestBid() (Level, bool) {
	if len(b.Bids) == 0 {
		return Level{}, false
	}
	return b.Bids[0], true
}

func (b L2) BestAsk() (Level, bool) {
	if len(b.Asks) == 0 {
		return Level{}, false
	}
	return b.Asks[0], true
}
