package strategy

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientDepth = errors.New("insufficient depth")
	ErrUnknownMethod     = errors.New("unknown method")
	ErrMissingDepth      = errors.New("missing depth")
	ErrEmptyRange        = errors.New("empty investment range")
	ErrInvalidTrade      = errors.New("invalid trade")
)

// InsufficientDepthError reports a conversion the book could not fill.
// It matches ErrInsufficientDepth under errors.Is.
type InsufficientDepthError struct {
	Side      string // "Bid" or "Ask"
	Levels    int
	Requested float64
	Remaining float64
	From, To  string
	Ticker    string
	Reverse   bool
}

func (e *InsufficientDepthError) Error() string {
	verb := "convert"
	if e.Reverse {
		verb = "reverse convert"
	}
	return fmt.Sprintf("%s depth (%d) too shallow to %s %g %s to %s using %s (%g unfilled)",
		e.Side, e.Levels, verb, e.Requested, e.From, e.To, e.Ticker, e.Remaining)
}

func (e *InsufficientDepthError) Is(target error) bool { return target == ErrInsufficientDepth }
