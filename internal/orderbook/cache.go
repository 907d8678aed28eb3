package orderbook

import (
	"fmt"
	"sync"
	"time"
)

type entry struct {
	book    L2
	updated time.Time
}

// Cache is the live depth cache keyed by ticker. Readers always get clones;
// the calculation core never sees a book that mutates under it.
type Cache struct {
	mu    sync.RWMutex
	books map[string]entry
	now   func() time.Time
}

func NewCache() *Cache {
	return &Cache{books: map[string]entry{}, now: time.Now}
}

// Put stores a snapshot after checking its ordering.
func (c *Cache) Put(ticker string, book L2) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("%s: %w", ticker, err)
	}
	c.mu.Lock()
	c.books[ticker] = entry{book: book.Clone(), updated: c.now()}
	c.mu.Unlock()
	return nil
}

// Snapshot returns a clone of the book for ticker.
func (c *Cache) Snapshot(ticker string) (L2, bool) {
	c.mu.RLock()
	e, ok := c.books[ticker]
	c.mu.RUnlock()
	if !ok {
		return L2{}, false
	}
	return e.book.Clone(), true
}

// Clone copies the whole cache into a frozen map, for one analysis round.
func (c *Cache) Clone() Frozen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(Frozen, len(c.books))
	for k, e := range c.books {
		out[k] = e.book.Clone()
	}
	return out
}

// Age reports how long ago ticker was last refreshed.
func (c *Cache) Age(ticker string) (time.Duration, bool) {
	c.mu.RLock()
	e, ok := c.books[ticker]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.updated), true
}

// Frozen is an immutable set of books captured at one instant.
type Frozen map[string]L2

func (f Frozen) Snapshot(ticker string) (L2, bool) {
	b, ok := f[ticker]
	return b, ok
}
