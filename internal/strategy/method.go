package strategy

import (
	"fmt"
	"strings"
)

// Method is the side a leg trades on: BUY acquires the leg's base asset,
// SELL disposes of it.
type Method int

const (
	Buy Method = iota + 1
	Sell
)

func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

func (m Method) String() string {
	switch m {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}
