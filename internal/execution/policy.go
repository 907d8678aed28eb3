package execution

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"triarb/internal/config"
	"triarb/internal/infra/metrics"
	"triarb/internal/strategy"
)

// Policy decides whether an optimized result should be traded. Only the
// depth-based percent is consulted; the reference-price profit is not.
type Policy struct {
	enabled   bool
	threshold float64
	cooldown  time.Duration
	allowed   map[string]struct{}
	logger    zerolog.Logger

	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewPolicy(cfg config.Config, logger zerolog.Logger) *Policy {
	p := &Policy{
		enabled:   cfg.Execution.Enabled,
		threshold: cfg.Execution.ThresholdPercent,
		cooldown:  time.Duration(cfg.Execution.CooldownSeconds) * time.Second,
		logger:    logger,
		until:     map[string]time.Time{},
		now:       time.Now,
	}
	if len(cfg.Execution.AllowedSymbols) > 0 {
		p.allowed = make(map[string]struct{}, len(cfg.Execution.AllowedSymbols))
		for _, s := range cfg.Execution.AllowedSymbols {
			p.allowed[s] = struct{}{}
		}
	}
	return p
}

func (p *Policy) ShouldExecute(r strategy.Result) bool {
	if r.Percent < p.threshold {
		return false
	}
	switch {
	case !p.enabled:
		return p.block(r, "disabled")
	case !p.allowedForLive(r.Trade):
		return p.block(r, "symbol_not_allowed")
	case p.coolingDown(r.ID):
		return p.block(r, "cooldown")
	}
	return true
}

// StartCooldown keeps trade id from executing again for the configured period.
func (p *Policy) StartCooldown(id string) {
	if p.cooldown <= 0 {
		return
	}
	p.mu.Lock()
	p.until[id] = p.now().Add(p.cooldown)
	p.mu.Unlock()
}

func (p *Policy) coolingDown(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	until, ok := p.until[id]
	return ok && p.now().Before(until)
}

// allowedForLive checks whether all legs of the trade are permitted.
func (p *Policy) allowedForLive(t strategy.Trade) bool {
	if p.allowed == nil {
		return true
	}
	for _, ticker := range t.Tickers() {
		if _, ok := p.allowed[ticker]; !ok {
			return false
		}
	}
	return true
}

func (p *Policy) block(r strategy.Result, reason string) bool {
	metrics.ExecutionsBlockedTotal.WithLabelValues(reason).Inc()
	p.logger.Debug().Str("trade", r.ID).Float64("percent", r.Percent).Str("reason", reason).Msg("execution blocked")
	return false
}
