package backtest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"triarb/internal/config"
	"triarb/internal/orderbook"
	"triarb/internal/prices"
	"triarb/internal/strategy"
)

// Summary aggregates a replay.
type Summary struct {
	Rows          int
	Rounds        int
	Opportunities int
	Failures      int
	Best          strategy.Result
	BestTS        string
}

// Runner replays recorded depth through the analyzer.
//
// CSV format: ts,ticker,side,price,qty with side bid or ask. Consecutive rows
// sharing ts form one round and replace the books of the tickers they name;
// other tickers keep their last snapshot.
type Runner struct {
	trades    []strategy.Trade
	analyzer  *strategy.Analyzer
	threshold float64
	logger    zerolog.Logger
}

func New(cfg config.Config, trades []strategy.Trade, logger zerolog.Logger) *Runner {
	calc := strategy.NewCalculator(cfg.Execution.Fee)
	return &Runner{
		trades:    trades,
		analyzer:  strategy.NewAnalyzer(calc, cfg.Range(), true, logger),
		threshold: cfg.Execution.ThresholdPercent,
		logger:    logger,
	}
}

// RunFile opens path and replays it.
func (r *Runner) RunFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	return r.Run(ctx, f)
}

type sides struct{ bids, asks map[float64]float64 }

func (r *Runner) Run(ctx context.Context, in io.Reader) (Summary, error) {
	var (
		sum     Summary
		books   = orderbook.NewCache()
		quotes  = prices.NewCache()
		pending = map[string]*sides{}
		ts      string
		line    int
	)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		for ticker, s := range pending {
			book := orderbook.FromMaps(s.bids, s.asks)
			if err := books.Put(ticker, book); err != nil {
				return fmt.Errorf("ts %s: %w", ts, err)
			}
			bid, okBid := book.BestBid()
			ask, okAsk := book.BestAsk()
			if okBid && okAsk {
				quotes.Put(ticker, prices.FromBook(bid.Price, ask.Price))
			}
		}
		pending = map[string]*sides{}
		r.round(ts, books.Clone(), quotes.Clone(), &sum)
		return nil
	}

	rd := csv.NewReader(in)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "ts") {
			continue
		}
		if len(rec) < 5 {
			return sum, fmt.Errorf("line %d: want 5 fields, got %d", line, len(rec))
		}
		if rec[0] != ts {
			if err := flush(); err != nil {
				return sum, err
			}
			ts = rec[0]
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if err != nil {
			return sum, fmt.Errorf("line %d: price: %w", line, err)
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
		if err != nil {
			return sum, fmt.Errorf("line %d: qty: %w", line, err)
		}
		ticker := strings.ToUpper(strings.TrimSpace(rec[1]))
		s, ok := pending[ticker]
		if !ok {
			s = &sides{bids: map[float64]float64{}, asks: map[float64]float64{}}
			pending[ticker] = s
		}
		switch strings.ToLower(strings.TrimSpace(rec[2])) {
		case "bid":
			s.bids[price] = qty
		case "ask":
			s.asks[price] = qty
		default:
			return sum, fmt.Errorf("line %d: unknown side %q", line, rec[2])
		}
		sum.Rows++
	}
	if err := flush(); err != nil {
		return sum, err
	}
	r.logger.Info().
		Int("rows", sum.Rows).
		Int("rounds", sum.Rounds).
		Int("opportunities", sum.Opportunities).
		Int("failures", sum.Failures).
		Str("best_trade", sum.Best.ID).
		Float64("best_percent", sum.Best.Percent).
		Str("best_ts", sum.BestTS).
		Msg("backtest complete")
	return sum, nil
}

func (r *Runner) round(ts string, depth orderbook.Frozen, px prices.Frozen, sum *Summary) {
	sum.Rounds++
	results := r.analyzer.Analyze(r.trades, depth, px, strategy.Hooks{
		OnError: func(string) { sum.Failures++ },
	})
	for _, res := range results {
		if res.Percent >= r.threshold {
			sum.Opportunities++
		}
		if sum.Best.ID == "" || res.Percent > sum.Best.Percent {
			sum.Best, sum.BestTS = res, ts
		}
	}
}
