package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"triarb/internal/config"
	"triarb/internal/exchange/common"
	"triarb/internal/infra/metrics"
	"triarb/internal/infra/network"
	"triarb/internal/orderbook"
)

type Adapter struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg config.Config) *Adapter {
	rps := cfg.Exchange.Binance.RequestsPerSecond
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Adapter{
		baseURL: cfg.Exchange.Binance.BaseURL,
		http:    network.NewHTTPClient(5 * time.Second),
		limiter: rate.NewLimiter(limit, max(1, int(rps))),
	}
}

func (a *Adapter) Name() string { return "binance" }

type depthResponse struct {
	LastUpdateID int64       `json:"lastUpdateId"`
	Bids         [][2]string `json:"bids"`
	Asks         [][2]string `json:"asks"`
}

// GetDepth fetches /api/v3/depth. Binance returns both sides best-first.
func (a *Adapter) GetDepth(ctx context.Context, symbol string, limit int) (orderbook.L2, error) {
	q := url.Values{"symbol": {symbol}, "limit": {strconv.Itoa(limit)}}
	var body depthResponse
	if err := a.get(ctx, "depth", "/api/v3/depth?"+q.Encode(), &body); err != nil {
		return orderbook.L2{}, err
	}
	bids, err := parseLevels(body.Bids)
	if err != nil {
		return orderbook.L2{}, fmt.Errorf("%s bids: %w", symbol, err)
	}
	asks, err := parseLevels(body.Asks)
	if err != nil {
		return orderbook.L2{}, fmt.Errorf("%s asks: %w", symbol, err)
	}
	return orderbook.L2{Bids: bids, Asks: asks}, nil
}

func (a *Adapter) GetTicker(ctx context.Context, symbol string) (common.Ticker, error) {
	var t struct {
		BidPrice string `json:"bidPrice"`
		AskPrice string `json:"askPrice"`
	}
	if err := a.get(ctx, "bookTicker", "/api/v3/ticker/bookTicker?symbol="+url.QueryEscape(symbol), &t); err != nil {
		return common.Ticker{}, err
	}
	bid, err := strconv.ParseFloat(t.BidPrice, 64)
	if err != nil {
		return common.Ticker{}, fmt.Errorf("%s bid: %w", symbol, err)
	}
	ask, err := strconv.ParseFloat(t.AskPrice, 64)
	if err != nil {
		return common.Ticker{}, fmt.Errorf("%s ask: %w", symbol, err)
	}
	return common.Ticker{Bid: bid, Ask: ask}, nil
}

func (a *Adapter) get(ctx context.Context, endpoint, path string, out any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		metrics.APIErrorsTotal.WithLabelValues(a.Name(), endpoint).Inc()
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		metrics.APIErrorsTotal.WithLabelValues(a.Name(), endpoint).Inc()
		return fmt.Errorf("binance %s: status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.APIErrorsTotal.WithLabelValues(a.Name(), endpoint).Inc()
		return fmt.Errorf("binance %s: decode: %w", endpoint, err)
	}
	return nil
}

func parseLevels(raw [][2]string) ([]orderbook.Level, error) {
	out := make([]orderbook.Level, 0, len(raw))
	for _, r := range raw {
		price, err := strconv.ParseFloat(r[0], 64)
		if err != nil {
			return nil, err
		}
		qty, err := strconv.ParseFloat(r[1], 64)
		if err != nil {
			return nil, err
		}
		out = append(out, orderbook.Level{Price: price, Qty: qty})
	}
	return out, nil
}
