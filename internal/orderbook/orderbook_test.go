package orderbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMapsSortsBestFirst(t *testing.T) {
	b := FromMaps(
		map[float64]float64{9.8: 1, 10: 2, 9.9: 3},
		map[float64]float64{10.3: 1, 10.1: 2, 10.2: 3},
	)
	require.NoError(t, b.Validate())
	assert.Equal(t, []Level{{10, 2}, {9.9, 3}, {9.8, 1}}, b.Bids)
	assert.Equal(t, []Level{{10.1, 2}, {10.2, 3}, {10.3, 1}}, b.Asks)
}

func TestValidateRejectsMisorderedSides(t *testing.T) {
	bad := L2{Bids: []Level{{9, 1}, {10, 1}}}
	assert.ErrorIs(t, bad.Validate(), ErrUnordered)

	bad = L2{Asks: []Level{{10, 1}, {10, 1}}}
	assert.ErrorIs(t, bad.Validate(), ErrUnordered)

	bad = L2{Asks: []Level{{10, 0}}}
	assert.Error(t, bad.Validate())
}

func TestCacheReturnsClones(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Put("BTCUSDT", L2{Bids: []Level{{100, 1}}, Asks: []Level{{101, 1}}}))

	snap, ok := c.Snapshot("BTCUSDT")
	require.True(t, ok)
	snap.Bids[0].Qty = 42

	again, _ := c.Snapshot("BTCUSDT")
	assert.Equal(t, 1.0, again.Bids[0].Qty)

	frozen := c.Clone()
	require.NoError(t, c.Put("BTCUSDT", L2{Bids: []Level{{99, 5}}}))
	b, ok := frozen.Snapshot("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 100.0, b.Bids[0].Price)

	_, ok = c.Snapshot("ETHUSDT")
	assert.False(t, ok)
}

func TestCachePutRejectsUnordered(t *testing.T) {
	c := NewCache()
	err := c.Put("ETHBTC", L2{Bids: []Level{{1, 1}, {2, 1}}})
	assert.ErrorIs(t, err, ErrUnordered)
	_, ok := c.Snapshot("ETHBTC")
	assert.False(t, ok)
}

func TestCacheAge(t *testing.T) {
	c := NewCache()
	base := time.Unix(1700000000, 0)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Put("BNBBTC", L2{}))
	c.now = func() time.Time { return base.Add(3 * time.Second) }
	age, ok := c.Age("BNBBTC")
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, age)
}
