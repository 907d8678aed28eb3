package slippage

import "triarb/internal/orderbook"

// Bps walks qty base units through one side of the book (asks when buy) and
// returns the volume-weighted fill price relative to the best level, in basis
// points. Worse fills are positive. ok is false when the side cannot fill qty.
func Bps(book orderbook.L2, qty float64, buy bool) (bps float64, ok bool) {
	levels := book.Bids
	if buy {
		levels = book.Asks
	}
	if qty <= 0 {
		return 0, true
	}
	if len(levels) == 0 {
		return 0, false
	}
	var cost, filled float64
	for _, lvl := range levels {
		use := min(qty-filled, lvl.Qty)
		cost += use * lvl.Price
		filled += use
		if filled >= qty {
			break
		}
	}
	if filled < qty {
		return 0, false
	}
	best := levels[0].Price
	avg := cost / qty
	diff := best - avg
	if buy {
		diff = avg - best
	}
	return diff / best * 10000, true
}
