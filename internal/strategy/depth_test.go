package strategy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triarb/internal/orderbook"
)

func TestWalkPartialFillOnSingleBid(t *testing.T) {
	book := orderbook.L2{Bids: []orderbook.Level{{Price: 10, Qty: 5}}}
	got, err := Conversion{From: "B", To: "A", Ticker: "BA", Direction: Forward}.Walk(3, book)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got)
}

func TestWalkTooShallow(t *testing.T) {
	book := orderbook.L2{Bids: []orderbook.Level{{Price: 10, Qty: 5}}}
	_, err := Conversion{From: "B", To: "A", Ticker: "BA", Direction: Forward}.Walk(8, book)
	require.ErrorIs(t, err, ErrInsufficientDepth)

	var depthErr *InsufficientDepthError
	require.True(t, errors.As(err, &depthErr))
	assert.Equal(t, "Bid", depthErr.Side)
	assert.Equal(t, 1, depthErr.Levels)
	assert.Equal(t, 8.0, depthErr.Requested)
	assert.Equal(t, 3.0, depthErr.Remaining)
	assert.Equal(t, "BA", depthErr.Ticker)
	assert.Contains(t, err.Error(), "B to A using BA")
}

func TestWalkExactLevelIsLastFill(t *testing.T) {
	book := orderbook.L2{Bids: []orderbook.Level{{Price: 10, Qty: 5}, {Price: 9, Qty: 5}}}
	got, err := Convert(5, Forward, Direct, book)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)

	got, err = Convert(7, Forward, Direct, book)
	require.NoError(t, err)
	assert.Equal(t, 68.0, got)

	// One level only, exactly matching: still a fill, not exhaustion.
	got, err = Convert(5, Forward, Direct, orderbook.L2{Bids: book.Bids[:1]})
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)
}

func TestWalkSides(t *testing.T) {
	book := orderbook.L2{
		Bids: []orderbook.Level{{Price: 10, Qty: 5}},
		Asks: []orderbook.Level{{Price: 10, Qty: 1}, {Price: 11, Qty: 2}},
	}
	cases := []struct {
		name string
		conv Conversion
		in   float64
		want float64
	}{
		// spend A on the asks of BA to obtain B
		{"forward inverse", Conversion{From: "A", To: "B", Ticker: "BA", Direction: Forward}, 32, 3},
		// cost in A of 3 B, walked on the asks
		{"reverse direct", Conversion{From: "B", To: "A", Ticker: "BA", Direction: Reverse}, 3, 32},
		// B obtained for 20 A, walked on the bids
		{"reverse inverse", Conversion{From: "A", To: "B", Ticker: "BA", Direction: Reverse}, 20, 2},
		{"forward direct", Conversion{From: "B", To: "A", Ticker: "BA", Direction: Forward}, 2, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.conv.Walk(tc.in, book)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestWalkZeroNeedsNoDepth(t *testing.T) {
	for _, dir := range []Direction{Forward, Reverse} {
		for _, o := range []Orientation{Direct, Inverse} {
			got, err := Convert(0, dir, o, orderbook.L2{})
			require.NoError(t, err)
			assert.Zero(t, got)
		}
	}
}

func TestWalkFailsWhenSideSumIsShort(t *testing.T) {
	book := orderbook.L2{
		Bids: []orderbook.Level{{Price: 3, Qty: 1}, {Price: 2, Qty: 1}},
		Asks: []orderbook.Level{{Price: 4, Qty: 1}, {Price: 5, Qty: 1}},
	}
	_, err := Convert(2.5, Forward, Direct, book)
	assert.ErrorIs(t, err, ErrInsufficientDepth)
	_, err = Convert(2.5, Reverse, Direct, book)
	assert.ErrorIs(t, err, ErrInsufficientDepth)
	// asks can absorb 4+5 of the quote currency
	_, err = Convert(9.5, Forward, Inverse, book)
	assert.ErrorIs(t, err, ErrInsufficientDepth)
	_, err = Convert(5.5, Reverse, Inverse, book)
	assert.ErrorIs(t, err, ErrInsufficientDepth)
}

func TestWalkDeterministic(t *testing.T) {
	book := orderbook.L2{Asks: []orderbook.Level{{Price: 0.0513, Qty: 1.7}, {Price: 0.0514, Qty: 3.3}, {Price: 0.052, Qty: 10}}}
	c := Conversion{From: "BTC", To: "ETH", Ticker: "ETHBTC", Direction: Forward}
	first, err := c.Walk(0.4, book)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.Walk(0.4, book)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestOrientationOf(t *testing.T) {
	assert.Equal(t, Direct, OrientationOf("ETHBTC", "ETH", "BTC"))
	assert.Equal(t, Inverse, OrientationOf("ETHBTC", "BTC", "ETH"))
}

func TestDepthRequirement(t *testing.T) {
	book := orderbook.L2{
		Bids: []orderbook.Level{{Price: 10, Qty: 1}, {Price: 9, Qty: 2}, {Price: 8, Qty: 3}},
		Asks: []orderbook.Level{{Price: 11, Qty: 4}},
	}
	n, err := DepthRequirement(Sell, 2.5, book)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = DepthRequirement(Sell, 100, book)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = DepthRequirement(Buy, 4, book)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = DepthRequirement(Method(7), 1, book)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
