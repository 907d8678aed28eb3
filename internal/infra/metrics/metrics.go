package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	AnalysisRoundsTotal  = prometheus.NewCounter(prometheus.CounterOpts{Name: "analysis_rounds_total", Help: "Analyze calls over the trade list"})
	AnalysisRoundLatency = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "analysis_round_latency_ms", Help: "Wall time of one analyze call", Buckets: prometheus.ExponentialBuckets(0.05, 2, 16)})
	TradesAnalyzedTotal  = prometheus.NewCounter(prometheus.CounterOpts{Name: "trades_analyzed_total", Help: "Trades optimized successfully"})
	TradeFailuresTotal   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "trade_failures_total", Help: "Trade evaluations that failed, by reason"}, []string{"reason"})
	OptimizeLatencyMs    = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "optimize_latency_ms", Help: "Grid search latency per trade", Buckets: prometheus.ExponentialBuckets(0.01, 2, 16)})
	TradeBestPercent     = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "trade_best_percent", Help: "Best net percent of the last optimization"}, []string{"trade"})
	TradeProfitPercent   = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "trade_profit_percent", Help: "Reference-price profit estimate of the last optimization"}, []string{"trade"})
	TradeNetPercent      = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "trade_net_percent", Help: "Best net percent per optimized trade", Buckets: prometheus.LinearBuckets(-2, 0.1, 41)})

	ExecutionsTriggeredTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "executions_triggered_total", Help: "Results handed to the executor"})
	ExecutionsBlockedTotal   = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "executions_blocked_total", Help: "Results above threshold refused by policy, by reason"}, []string{"reason"})
	PaperDeltaTotal          = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "paper_delta_total", Help: "Accumulated paper delta by currency"}, []string{"currency"})
	PlanSlippageBps          = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "plan_slippage_bps", Help: "Planned leg fill price against top of book", Buckets: prometheus.ExponentialBuckets(0.5, 2, 12)})

	DepthRefreshTotal       = prometheus.NewCounter(prometheus.CounterOpts{Name: "depth_refresh_total", Help: "Depth snapshots stored"})
	DepthRefreshErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "depth_refresh_errors_total", Help: "Depth or price refresh failures by ticker"}, []string{"ticker"})
	BookStalenessMs         = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "book_staleness_ms", Help: "Age of the cached book by ticker"}, []string{"ticker"})
	APIErrorsTotal          = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "api_errors_total", Help: "API errors by exchange and endpoint"}, []string{"exchange", "endpoint"})
)

func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		AnalysisRoundsTotal, AnalysisRoundLatency, TradesAnalyzedTotal, TradeFailuresTotal,
		OptimizeLatencyMs, TradeBestPercent, TradeProfitPercent, TradeNetPercent,
		ExecutionsTriggeredTotal, ExecutionsBlockedTotal, PaperDeltaTotal, PlanSlippageBps,
		DepthRefreshTotal, DepthRefreshErrorsTotal, BookStalenessMs, APIErrorsTotal,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	logger.Info().Msg("Prometheus metrics initialized")
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
