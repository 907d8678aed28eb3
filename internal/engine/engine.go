package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"triarb/internal/config"
	"triarb/internal/exchange/common"
	"triarb/internal/execution"
	"triarb/internal/infra/health"
	"triarb/internal/infra/log"
	"triarb/internal/infra/metrics"
	"triarb/internal/orderbook"
	"triarb/internal/prices"
	"triarb/internal/report"
	"triarb/internal/strategy"
)

// Engine polls the exchange for depth and reference prices and runs the
// analyzer over the configured trades after every refresh.
type Engine struct {
	cfg      config.Config
	adapter  common.ExchangeAdapter
	trades   []strategy.Trade
	tickers  []string
	books    *orderbook.Cache
	quotes   *prices.Cache
	analyzer *strategy.Analyzer
	policy   *execution.Policy
	exec     execution.Executor
	hud      *report.HUD
	logger   log.Logger

	mu     sync.RWMutex
	latest map[string]strategy.Result
}

func New(cfg config.Config, adapter common.ExchangeAdapter, trades []strategy.Trade, policy *execution.Policy, exec execution.Executor, logger log.Logger) *Engine {
	calc := strategy.NewCalculator(cfg.Execution.Fee)
	return &Engine{
		cfg:      cfg,
		adapter:  adapter,
		trades:   trades,
		tickers:  distinctTickers(trades),
		books:    orderbook.NewCache(),
		quotes:   prices.NewCache(),
		analyzer: strategy.NewAnalyzer(calc, cfg.Range(), cfg.HUD.Enabled, logger),
		policy:   policy,
		exec:     exec,
		hud:      report.NewHUD(cfg.HUD.Rows, logger),
		logger:   logger,
		latest:   map[string]strategy.Result{},
	}
}

func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info().Int("trades", len(e.trades)).Int("tickers", len(e.tickers)).Str("exchange", e.adapter.Name()).Msg("engine started")
	interval := time.Duration(e.cfg.Depth.RefreshMs) * time.Millisecond
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if e.Refresh(ctx) == nil {
			e.Round(ctx)
		}
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("engine stopped")
			return nil
		case <-t.C:
		}
	}
}

// Refresh pulls depth and book tickers for every ticker the trades use. A
// ticker that fails keeps its previous snapshot; only cancellation is
// returned as an error.
func (e *Engine) Refresh(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, e.cfg.Depth.Concurrency))
	for _, ticker := range e.tickers {
		ticker := ticker
		g.Go(func() error {
			e.refreshTicker(gctx, ticker)
			return nil
		})
	}
	_ = g.Wait()
	for _, ticker := range e.tickers {
		if age, ok := e.books.Age(ticker); ok {
			metrics.BookStalenessMs.WithLabelValues(ticker).Set(float64(age.Milliseconds()))
		}
	}
	return ctx.Err()
}

func (e *Engine) refreshTicker(ctx context.Context, ticker string) {
	book, err := e.adapter.GetDepth(ctx, ticker, e.cfg.Depth.Limit)
	if err == nil {
		err = e.books.Put(ticker, book)
	}
	if err != nil {
		if ctx.Err() == nil {
			metrics.DepthRefreshErrorsTotal.WithLabelValues(ticker).Inc()
			e.logger.Warn().Err(err).Str("ticker", ticker).Msg("depth refresh failed")
		}
		return
	}
	metrics.DepthRefreshTotal.Inc()

	tk, err := e.adapter.GetTicker(ctx, ticker)
	if err != nil {
		if ctx.Err() == nil {
			metrics.DepthRefreshErrorsTotal.WithLabelValues(ticker).Inc()
			e.logger.Debug().Err(err).Str("ticker", ticker).Msg("book ticker refresh failed")
		}
		return
	}
	e.quotes.Put(ticker, prices.FromBook(tk.Bid, tk.Ask))
}

// Round runs one analysis over frozen copies of both caches.
func (e *Engine) Round(ctx context.Context) map[string]strategy.Result {
	depth, px := e.books.Clone(), e.quotes.Clone()
	results := e.analyzer.Analyze(e.trades, depth, px, strategy.Hooks{
		OnError: func(msg string) {
			e.logger.Warn().Str("error", msg).Msg("trade skipped")
		},
		ShouldExecute: e.policy.ShouldExecute,
		OnExecute: func(r strategy.Result) {
			if err := e.exec.Execute(ctx, r); err != nil {
				e.logger.Error().Err(err).Str("trade", r.ID).Msg("execution failed")
			}
		},
	})
	if e.cfg.HUD.Enabled {
		e.hud.Render(results)
	}
	e.mu.Lock()
	e.latest = results
	e.mu.Unlock()
	health.MarkRound(time.Now())
	return results
}

// Latest returns the results of the last round.
func (e *Engine) Latest() map[string]strategy.Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]strategy.Result, len(e.latest))
	for k, v := range e.latest {
		out[k] = v
	}
	return out
}

func distinctTickers(trades []strategy.Trade) []string {
	seen := map[string]struct{}{}
	for _, t := range trades {
		for _, ticker := range t.Tickers() {
			seen[ticker] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
