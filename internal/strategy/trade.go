package strategy

import "fmt"

// Leg is one conversion of the cycle.
type Leg struct {
	Ticker       string
	Method       Method
	DustDecimals int
}

// Trade is a cyclic A->B->C->A conversion over three tickers.
type Trade struct {
	A, B, C    string
	AB, BC, CA Leg
}

func (t Trade) ID() string { return t.A + "-" + t.B + "-" + t.C }

func (t Trade) Tickers() [3]string { return [3]string{t.AB.Ticker, t.BC.Ticker, t.CA.Ticker} }

type hop struct {
	leg      Leg
	from, to string
}

func (t Trade) hops() [3]hop {
	return [3]hop{
		{leg: t.AB, from: t.A, to: t.B},
		{leg: t.BC, from: t.B, to: t.C},
		{leg: t.CA, from: t.C, to: t.A},
	}
}

// Validate checks that each leg's ticker and method agree with the cycle
// direction: a SELL leg is quoted from+to, a BUY leg to+from.
func (t Trade) Validate() error {
	if t.A == "" || t.B == "" || t.C == "" {
		return fmt.Errorf("%w: %s has an empty symbol", ErrInvalidTrade, t.ID())
	}
	for _, h := range t.hops() {
		var want string
		switch h.leg.Method {
		case Sell:
			want = h.from + h.to
		case Buy:
			want = h.to + h.from
		default:
			return fmt.Errorf("%w: %s leg %s: %v", ErrUnknownMethod, t.ID(), h.leg.Ticker, h.leg.Method)
		}
		if h.leg.Ticker != want {
			return fmt.Errorf("%w: %s %s %s->%s expects ticker %s, got %s",
				ErrInvalidTrade, t.ID(), h.leg.Method, h.from, h.to, want, h.leg.Ticker)
		}
		if h.leg.DustDecimals < 0 {
			return fmt.Errorf("%w: %s leg %s has negative dust decimals", ErrInvalidTrade, t.ID(), h.leg.Ticker)
		}
	}
	return nil
}
