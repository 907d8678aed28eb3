package execution

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"triarb/internal/infra/metrics"
	"triarb/internal/pnl"
	"triarb/internal/slippage"
	"triarb/internal/strategy"
)

type Executor interface {
	Execute(ctx context.Context, r strategy.Result) error
}

// PlannedLeg is one order of an execution plan.
type PlannedLeg struct {
	Ticker   string
	Method   strategy.Method
	Quantity float64
	Levels   int // book levels the order is expected to consume

	SlippageBps float64 // fill price against top of book
}

type Plan struct {
	TradeID    string
	Investment float64
	Percent    float64
	Legs       [3]PlannedLeg
}

// BuildPlan turns a result into three orders. Legs two and three are re-sized
// from what the previous leg delivers, the way a live executor re-sizes after
// each fill.
func BuildPlan(r strategy.Result) (Plan, error) {
	t := r.Trade
	books := r.Depth.Books()
	bc, err := strategy.RecalculateLeg(t.BC, t.B, t.C, r.B.Earned, books[1])
	if err != nil {
		return Plan{}, fmt.Errorf("size %s: %w", t.BC.Ticker, err)
	}
	ca, err := strategy.RecalculateLeg(t.CA, t.C, t.A, r.C.Earned, books[2])
	if err != nil {
		return Plan{}, fmt.Errorf("size %s: %w", t.CA.Ticker, err)
	}

	plan := Plan{TradeID: r.ID, Investment: r.Investment, Percent: r.Percent}
	legs := [3]strategy.Leg{t.AB, t.BC, t.CA}
	qtys := [3]float64{r.AB, bc, ca}
	for i, leg := range legs {
		levels, err := strategy.DepthRequirement(leg.Method, qtys[i], books[i])
		if err != nil {
			return Plan{}, err
		}
		bps, ok := slippage.Bps(books[i], qtys[i], leg.Method == strategy.Buy)
		if !ok {
			return Plan{}, fmt.Errorf("%w: %s cannot fill %g", strategy.ErrInsufficientDepth, leg.Ticker, qtys[i])
		}
		plan.Legs[i] = PlannedLeg{Ticker: leg.Ticker, Method: leg.Method, Quantity: qtys[i], Levels: levels, SlippageBps: bps}
	}
	return plan, nil
}

// PaperExecutor logs plans instead of placing orders and books their deltas
// in a ledger.
type PaperExecutor struct {
	logger zerolog.Logger
	policy *Policy
	ledger *pnl.Ledger

	mu      sync.Mutex
	history []Plan
}

func NewPaperExecutor(policy *Policy, logger zerolog.Logger) *PaperExecutor {
	return &PaperExecutor{policy: policy, logger: logger, ledger: pnl.NewLedger()}
}

func (e *PaperExecutor) Execute(ctx context.Context, r strategy.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	plan, err := BuildPlan(r)
	if err != nil {
		return fmt.Errorf("plan %s: %w", r.ID, err)
	}
	metrics.ExecutionsTriggeredTotal.Inc()
	if e.policy != nil {
		e.policy.StartCooldown(r.ID)
	}
	e.ledger.Record(r)
	for i, leg := range plan.Legs {
		metrics.PlanSlippageBps.Observe(leg.SlippageBps)
		e.logger.Info().
			Str("trade", plan.TradeID).
			Int("leg", i+1).
			Str("ticker", leg.Ticker).
			Str("side", leg.Method.String()).
			Float64("qty", leg.Quantity).
			Int("levels", leg.Levels).
			Float64("slippage_bps", leg.SlippageBps).
			Msg("paper order")
	}
	e.logger.Info().
		Str("trade", plan.TradeID).
		Float64("investment", plan.Investment).
		Float64("percent", plan.Percent).
		Float64("profit", r.Profit).
		Float64("delta_a", r.A.Delta).
		Float64("total_a", e.ledger.Totals()[r.Trade.A]).
		Msg("paper execution complete")

	e.mu.Lock()
	e.history = append(e.history, plan)
	e.mu.Unlock()
	return nil
}

// History returns the plans executed so far.
func (e *PaperExecutor) History() []Plan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Plan(nil), e.history...)
}

func (e *PaperExecutor) Ledger() *pnl.Ledger { return e.ledger }
