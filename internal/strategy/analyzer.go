package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"triarb/internal/infra/metrics"
	"triarb/internal/orderbook"
	"triarb/internal/prices"
)

// DepthSource is a read-only view of the depth cache. Implementations must
// hand out snapshots that do not change while a trade is being evaluated.
type DepthSource interface {
	Snapshot(ticker string) (orderbook.L2, bool)
}

// PriceSource is a read-only view of reference quotes.
type PriceSource interface {
	Get(ticker string) (prices.Quote, bool)
}

// Hooks connect the analyzer to the outside world. Any of them may be nil.
type Hooks struct {
	OnError       func(msg string)
	ShouldExecute func(Result) bool
	OnExecute     func(Result)
}

// Analyzer runs the optimizer over a prioritized trade list.
type Analyzer struct {
	calc   *Calculator
	rng    Range
	retain bool
	logger zerolog.Logger
}

// NewAnalyzer returns an Analyzer. When retain is false Analyze returns an
// empty map; execution still happens.
func NewAnalyzer(calc *Calculator, rng Range, retain bool, logger zerolog.Logger) *Analyzer {
	return &Analyzer{calc: calc, rng: rng, retain: retain, logger: logger}
}

// Analyze optimizes trades in order and stops after the first one accepted by
// ShouldExecute. A failing trade is reported through OnError and skipped.
func (a *Analyzer) Analyze(trades []Trade, depth DepthSource, px PriceSource, h Hooks) map[string]Result {
	start := time.Now()
	defer func() {
		metrics.AnalysisRoundsTotal.Inc()
		metrics.AnalysisRoundLatency.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	results := make(map[string]Result)
	for _, t := range trades {
		res, err := a.evaluate(t, depth, px)
		if err != nil {
			metrics.TradeFailuresTotal.WithLabelValues(failureReason(err)).Inc()
			a.logger.Debug().Err(err).Str("trade", t.ID()).Msg("trade evaluation failed")
			if h.OnError != nil {
				h.OnError(err.Error())
			}
			continue
		}
		metrics.TradesAnalyzedTotal.Inc()
		metrics.TradeBestPercent.WithLabelValues(res.ID).Set(res.Percent)
		metrics.TradeProfitPercent.WithLabelValues(res.ID).Set(res.Profit)
		metrics.TradeNetPercent.Observe(res.Percent)

		if a.retain {
			results[res.ID] = res
		}
		if h.ShouldExecute != nil && h.ShouldExecute(res) {
			if h.OnExecute != nil {
				h.OnExecute(res)
			}
			break
		}
	}
	return results
}

func (a *Analyzer) evaluate(t Trade, depth DepthSource, px PriceSource) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{}, err
	}
	books, err := captureDepth(t, depth)
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	res, err := a.calc.Optimize(t, books, capturePrices(t, px), a.rng)
	metrics.OptimizeLatencyMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", t.ID(), err)
	}
	return res, nil
}

func captureDepth(t Trade, src DepthSource) (Depth, error) {
	var books [3]orderbook.L2
	for i, ticker := range t.Tickers() {
		b, ok := src.Snapshot(ticker)
		if !ok {
			return Depth{}, fmt.Errorf("%w: %s needs %s", ErrMissingDepth, t.ID(), ticker)
		}
		books[i] = b
	}
	return Depth{AB: books[0], BC: books[1], CA: books[2]}, nil
}

func capturePrices(t Trade, src PriceSource) Prices {
	var quotes [3]*prices.Quote
	if src == nil {
		return Prices{}
	}
	for i, ticker := range t.Tickers() {
		if q, ok := src.Get(ticker); ok {
			quotes[i] = &q
		}
	}
	return Prices{AB: quotes[0], BC: quotes[1], CA: quotes[2]}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientDepth):
		return "insufficient_depth"
	case errors.Is(err, ErrMissingDepth):
		return "missing_depth"
	case errors.Is(err, ErrUnknownMethod):
		return "unknown_method"
	case errors.Is(err, ErrInvalidTrade):
		return "invalid_trade"
	case errors.Is(err, ErrEmptyRange):
		return "empty_range"
	}
	return "other"
}
