package pnl

import (
	"sync"

	"triarb/internal/infra/metrics"
	"triarb/internal/strategy"
)

// Ledger accumulates the per-currency deltas of executed cycles.
type Ledger struct {
	mu     sync.Mutex
	deltas map[string]float64
	trades int
}

func NewLedger() *Ledger { return &Ledger{deltas: map[string]float64{}} }

// Record books the A, B and C deltas of r against their currencies.
func (l *Ledger) Record(r strategy.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trades++
	for cur, d := range map[string]float64{r.Trade.A: r.A.Delta, r.Trade.B: r.B.Delta, r.Trade.C: r.C.Delta} {
		l.deltas[cur] += d
		metrics.PaperDeltaTotal.WithLabelValues(cur).Set(l.deltas[cur])
	}
}

func (l *Ledger) Totals() map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]float64, len(l.deltas))
	for k, v := range l.deltas {
		out[k] = v
	}
	return out
}

func (l *Ledger) Trades() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trades
}
