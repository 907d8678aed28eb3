package strategy

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triarb/internal/orderbook"
	"triarb/internal/prices"
)

func merge(sets ...orderbook.Frozen) orderbook.Frozen {
	out := orderbook.Frozen{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}

func newTestAnalyzer(retain bool) *Analyzer {
	return NewAnalyzer(NewCalculator(0), Range{Min: 10, Max: 50, Step: 10}, retain, zerolog.Nop())
}

func TestAnalyzeSkipsFailureAndStopsAtExecution(t *testing.T) {
	shallow, shallowBooks := sellCycle("P", "Q", "R", 15)
	good, goodBooks := sellCycle("X", "Y", "Z", 1000)
	later, laterBooks := sellCycle("K", "L", "M", 1000)
	books := merge(shallowBooks, goodBooks, laterBooks)

	var errs []string
	var executed []Result
	out := newTestAnalyzer(true).Analyze([]Trade{shallow, good, later}, books, prices.Frozen{}, Hooks{
		OnError:       func(msg string) { errs = append(errs, msg) },
		ShouldExecute: func(r Result) bool { return r.Percent > 50 },
		OnExecute:     func(r Result) { executed = append(executed, r) },
	})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "P-Q-R")
	assert.Contains(t, errs[0], "too shallow")
	require.Len(t, executed, 1)
	assert.Equal(t, "X-Y-Z", executed[0].ID)

	assert.Contains(t, out, "X-Y-Z")
	assert.NotContains(t, out, "K-L-M")
	assert.NotContains(t, out, "P-Q-R")
}

func TestAnalyzeReportsEveryTradeWithoutExecution(t *testing.T) {
	a, aBooks := sellCycle("X", "Y", "Z", 1000)
	b, bBooks := sellCycle("K", "L", "M", 1000)

	calls := 0
	out := newTestAnalyzer(true).Analyze([]Trade{a, b}, merge(aBooks, bBooks), nil, Hooks{
		ShouldExecute: func(Result) bool { calls++; return false },
		OnExecute:     func(Result) { t.Fatal("nothing should execute") },
	})
	assert.Equal(t, 2, calls)
	assert.Len(t, out, 2)
	assert.Equal(t, 10.0, out["K-L-M"].Investment)
}

func TestAnalyzeWithoutRetention(t *testing.T) {
	a, books := sellCycle("X", "Y", "Z", 1000)
	executed := 0
	out := newTestAnalyzer(false).Analyze([]Trade{a}, books, nil, Hooks{
		ShouldExecute: func(Result) bool { return true },
		OnExecute:     func(Result) { executed++ },
	})
	assert.Empty(t, out)
	assert.Equal(t, 1, executed)
}

func TestAnalyzeReportsSnapshotAndValidationErrors(t *testing.T) {
	missing, _ := sellCycle("X", "Y", "Z", 1000)
	invalid, invalidBooks := sellCycle("K", "L", "M", 1000)
	invalid.BC.Method = Buy

	var errs []string
	out := newTestAnalyzer(true).Analyze([]Trade{missing, invalid}, invalidBooks, nil, Hooks{
		OnError: func(msg string) { errs = append(errs, msg) },
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "missing depth")
	assert.Contains(t, errs[1], "invalid trade")
	assert.Empty(t, out)
}

func TestAnalyzeCapturesPrices(t *testing.T) {
	a, books := sellCycle("X", "Y", "Z", 1000)
	px := prices.Frozen{"XY": {Sell: 0.5}, "YZ": {Sell: 0.25}, "ZX": {Sell: 4}}
	out := newTestAnalyzer(true).Analyze([]Trade{a}, books, px, Hooks{})
	require.Contains(t, out, "X-Y-Z")
	assert.InDelta(t, 100, out["X-Y-Z"].Profit, 1e-9)
}

func TestFailureReason(t *testing.T) {
	_, err := Convert(1, Forward, Direct, orderbook.L2{})
	assert.Equal(t, "insufficient_depth", failureReason(err))
	assert.Equal(t, "missing_depth", failureReason(ErrMissingDepth))
	assert.Equal(t, "other", failureReason(assert.AnError))
}
