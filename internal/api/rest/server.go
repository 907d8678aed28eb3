package rest

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"triarb/internal/infra/health"
	"triarb/internal/infra/http/middleware"
	"triarb/internal/infra/metrics"
	"triarb/internal/infra/version"
	"triarb/internal/report"
	"triarb/internal/strategy"
)

// ResultsSource exposes the results of the last analysis round.
type ResultsSource interface {
	Latest() map[string]strategy.Result
}

type Options struct {
	Registry    *prometheus.Registry
	AdminAllow  []*net.IPNet
	Pprof       bool
	DefaultRows int
}

type Server struct{ handler http.Handler }

// New wires probes, version, admin-gated metrics and pprof, and the results
// view behind request id and access log middleware.
func New(results ResultsSource, opts Options, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", health.Healthz)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.HandleFunc("/version", version.Handler)
	if opts.Registry != nil {
		mux.Handle("/metrics", middleware.AdminGate(opts.AdminAllow, metrics.Handler(opts.Registry)))
	}
	if opts.Pprof {
		mux.Handle("/debug/pprof/", middleware.AdminGate(opts.AdminAllow, http.HandlerFunc(pprof.Index)))
		mux.Handle("/debug/pprof/cmdline", middleware.AdminGate(opts.AdminAllow, http.HandlerFunc(pprof.Cmdline)))
		mux.Handle("/debug/pprof/profile", middleware.AdminGate(opts.AdminAllow, http.HandlerFunc(pprof.Profile)))
		mux.Handle("/debug/pprof/symbol", middleware.AdminGate(opts.AdminAllow, http.HandlerFunc(pprof.Symbol)))
		mux.Handle("/debug/pprof/trace", middleware.AdminGate(opts.AdminAllow, http.HandlerFunc(pprof.Trace)))
	}
	if results != nil {
		mux.Handle("/results", resultsHandler(results, opts.DefaultRows))
	}
	return &Server{handler: middleware.RequestID(middleware.Logger(logger)(mux))}
}

func (s *Server) Handler() http.Handler { return s.handler }

type legView struct {
	Ticker string `json:"ticker"`
	Method string `json:"method"`
}

type resultView struct {
	ID         string     `json:"id"`
	Investment float64    `json:"investment"`
	Percent    float64    `json:"percent"`
	Profit     float64    `json:"profit"`
	DeltaA     float64    `json:"delta_a"`
	DeltaB     float64    `json:"delta_b"`
	DeltaC     float64    `json:"delta_c"`
	Legs       [3]legView `json:"legs"`
}

func resultsHandler(src ResultsSource, defaultRows int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := defaultRows
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				http.Error(w, "bad limit", http.StatusBadRequest)
				return
			}
			n = parsed
		}
		top := report.Top(src.Latest(), n)
		out := make([]resultView, 0, len(top))
		for _, res := range top {
			t := res.Trade
			out = append(out, resultView{
				ID:         res.ID,
				Investment: res.Investment,
				Percent:    res.Percent,
				Profit:     res.Profit,
				DeltaA:     res.A.Delta,
				DeltaB:     res.B.Delta,
				DeltaC:     res.C.Delta,
				Legs: [3]legView{
					{Ticker: t.AB.Ticker, Method: t.AB.Method.String()},
					{Ticker: t.BC.Ticker, Method: t.BC.Method.String()},
					{Ticker: t.CA.Ticker, Method: t.CA.Method.String()},
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
}
