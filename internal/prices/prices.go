package prices

import "sync"

// Quote is a reference pair for a ticker, both sides expressed as base units
// per unit of quote: Buy is what one unit of quote buys, Sell is what has to
// be sold to receive one unit of quote. For a book ticker that is 1/ask and
// 1/bid.
type Quote struct {
	Buy  float64
	Sell float64
}

// Cache holds the latest reference quote per ticker.
type Cache struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

// FromBook derives a Quote from best bid and ask. A non-positive side is left
// zero, which disqualifies it.
func FromBook(bid, ask float64) Quote {
	var q Quote
	if ask > 0 {
		q.Buy = 1 / ask
	}
	if bid > 0 {
		q.Sell = 1 / bid
	}
	return q
}

func NewCache() *Cache { return &Cache{quotes: map[string]Quote{}} }

func (c *Cache) Put(ticker string, q Quote) {
	c.mu.Lock()
	c.quotes[ticker] = q
	c.mu.Unlock()
}

func (c *Cache) Get(ticker string) (Quote, bool) {
	c.mu.RLock()
	q, ok := c.quotes[ticker]
	c.mu.RUnlock()
	return q, ok
}

// Clone freezes the current quotes for one analysis round.
func (c *Cache) Clone() Frozen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(Frozen, len(c.quotes))
	for k, v := range c.quotes {
		out[k] = v
	}
	return out
}

type Frozen map[string]Quote

func (f Frozen) Get(ticker string) (Quote, bool) {
	q, ok := f[ticker]
	return q, ok
}
