package strategy

import (
	"fmt"

	"triarb/internal/orderbook"
)

// LegOutcome is what one leg consumed and produced, after dust truncation.
type LegOutcome struct {
	Quantity float64 // order quantity of the leg
	Spent    float64 // of the leg's input currency
	Earned   float64 // of the leg's output currency
}

// evaluateLeg runs input of from through leg into to.
//
// A BUY leg truncates what it earns and then prices that truncated amount
// back through the opposite side of the book to get the real cost. A SELL
// leg truncates its input and converts it forward only.
func evaluateLeg(leg Leg, from, to string, input float64, book orderbook.L2) (LegOutcome, error) {
	switch leg.Method {
	case Buy:
		got, err := Conversion{From: from, To: to, Ticker: leg.Ticker, Direction: Forward}.Walk(input, book)
		if err != nil {
			return LegOutcome{}, err
		}
		earned := Dustless(got, leg.DustDecimals)
		spent, err := Conversion{From: to, To: from, Ticker: leg.Ticker, Direction: Reverse}.Walk(earned, book)
		if err != nil {
			return LegOutcome{}, err
		}
		return LegOutcome{Quantity: earned, Spent: spent, Earned: earned}, nil
	case Sell:
		spent := Dustless(input, leg.DustDecimals)
		earned, err := Conversion{From: from, To: to, Ticker: leg.Ticker, Direction: Forward}.Walk(spent, book)
		if err != nil {
			return LegOutcome{}, err
		}
		return LegOutcome{Quantity: spent, Spent: spent, Earned: earned}, nil
	}
	return LegOutcome{}, fmt.Errorf("%w: %v on %s", ErrUnknownMethod, leg.Method, leg.Ticker)
}

// RecalculateLeg sizes a leg from what the previous leg actually delivered:
// a BUY leg converts it and truncates the result, a SELL leg only truncates.
func RecalculateLeg(leg Leg, from, to string, quantityEarned float64, book orderbook.L2) (float64, error) {
	switch leg.Method {
	case Buy:
		got, err := Conversion{From: from, To: to, Ticker: leg.Ticker, Direction: Forward}.Walk(quantityEarned, book)
		if err != nil {
			return 0, err
		}
		return Dustless(got, leg.DustDecimals), nil
	case Sell:
		return Dustless(quantityEarned, leg.DustDecimals), nil
	}
	return 0, fmt.Errorf("%w: %v on %s", ErrUnknownMethod, leg.Method, leg.Ticker)
}
