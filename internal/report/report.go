package report

import (
	"sort"

	"github.com/rs/zerolog"

	"triarb/internal/strategy"
)

// Top returns at most n results ordered by percent, best first. Equal
// percents are ordered by trade id so the output is stable.
func Top(results map[string]strategy.Result, n int) []strategy.Result {
	buf := make([]strategy.Result, 0, len(results))
	for _, r := range results {
		buf = append(buf, r)
	}
	sort.Slice(buf, func(i, j int) bool {
		if buf[i].Percent != buf[j].Percent {
			return buf[i].Percent > buf[j].Percent
		}
		return buf[i].ID < buf[j].ID
	})
	if n >= 0 && len(buf) > n {
		buf = buf[:n]
	}
	return buf
}

// HUD logs the best results of each analysis round.
type HUD struct {
	logger zerolog.Logger
	rows   int
}

func NewHUD(rows int, logger zerolog.Logger) *HUD {
	return &HUD{logger: logger, rows: rows}
}

func (h *HUD) Render(results map[string]strategy.Result) {
	for i, r := range Top(results, h.rows) {
		h.logger.Info().
			Int("rank", i+1).
			Str("trade", r.ID).
			Str("path", r.Trade.AB.Ticker+" "+r.Trade.AB.Method.String()+" > "+
				r.Trade.BC.Ticker+" "+r.Trade.BC.Method.String()+" > "+
				r.Trade.CA.Ticker+" "+r.Trade.CA.Method.String()).
			Float64("investment", r.Investment).
			Float64("percent", r.Percent).
			Float64("profit", r.Profit).
			Float64("delta_a", r.A.Delta).
			Float64("delta_b", r.B.Delta).
			Float64("delta_c", r.C.Delta).
			Msg("hud")
	}
}
