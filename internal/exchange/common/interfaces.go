package common

import (
	"context"

	"triarb/internal/orderbook"
)

type Ticker struct{ Bid, Ask float64 }

// DepthProvider returns a depth-limited L2 book, best-first on both sides.
type DepthProvider interface {
	GetDepth(ctx context.Context, symbol string, limit int) (orderbook.L2, error)
}

type TickerProvider interface {
	GetTicker(ctx context.Context, symbol string) (Ticker, error)
}

type ExchangeAdapter interface {
	Name() string
	DepthProvider
	TickerProvider
}
