package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triarb/internal/strategy"
)

func TestDefaultConfig(t *testing.T) {
	_ = os.Unsetenv("TRIARB_CONFIG")
	_ = os.Unsetenv("TRIARB_LOG_LEVEL")
	_ = os.Unsetenv("TRIARB_INVESTMENT_MIN")

	c := Load()
	if c.Logging.Level != "info" {
		t.Fatalf("expected default log level info, got %s", c.Logging.Level)
	}
	require.NoError(t, c.Validate())
	assert.Equal(t, strategy.Range{Min: 0.1, Max: 1.0, Step: 0.1}, c.Range())

	trades, err := c.StrategyTrades()
	require.NoError(t, err)
	require.Len(t, trades, len(c.Trades))
	assert.Equal(t, "BTC-ETH-USDT", trades[0].ID())
	assert.Equal(t, strategy.Buy, trades[0].AB.Method)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRIARB_LOG_LEVEL", "debug")
	t.Setenv("TRIARB_INVESTMENT_MIN", "100")
	t.Setenv("TRIARB_INVESTMENT_MAX", "500")
	t.Setenv("TRIARB_INVESTMENT_STEP", "25")
	t.Setenv("TRIARB_EXECUTION_FEE", "0.1")
	t.Setenv("TRIARB_HUD_ENABLED", "false")
	t.Setenv("TRIARB_ALLOWED_SYMBOLS", "BTCUSDT, ETHBTC,")

	c := Load()
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, strategy.Range{Min: 100, Max: 500, Step: 25}, c.Range())
	assert.Equal(t, 0.1, c.Execution.Fee)
	assert.False(t, c.HUD.Enabled)
	assert.Equal(t, []string{"BTCUSDT", "ETHBTC"}, c.Execution.AllowedSymbols)
}

func TestYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triarb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
investment:
  min: 100
  max: 100
  step: 1
execution:
  fee: 0.05
hud:
  enabled: true
trades:
  - symbols: {a: USDT, b: btc, c: ETH}
    ab: {ticker: BTCUSDT, method: buy, dust_decimals: 6}
    bc: {ticker: ETHBTC, method: BUY, dust_decimals: 4}
    ca: {ticker: ETHUSDT, method: SELL, dust_decimals: 4}
`), 0o600))
	t.Setenv("TRIARB_CONFIG", path)

	c := Load()
	require.NoError(t, c.Validate())
	trades, err := c.StrategyTrades()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, strategy.Trade{
		A: "USDT", B: "BTC", C: "ETH",
		AB: strategy.Leg{Ticker: "BTCUSDT", Method: strategy.Buy, DustDecimals: 6},
		BC: strategy.Leg{Ticker: "ETHBTC", Method: strategy.Buy, DustDecimals: 4},
		CA: strategy.Leg{Ticker: "ETHUSDT", Method: strategy.Sell, DustDecimals: 4},
	}, trades[0])
}

func TestValidateRejectsBadSettings(t *testing.T) {
	c := defaultConfig()
	c.Investment.Step = 0
	assert.ErrorIs(t, c.Validate(), strategy.ErrEmptyRange)

	c = defaultConfig()
	c.Trades[0].BC.Method = "HOLD"
	assert.ErrorIs(t, c.Validate(), strategy.ErrUnknownMethod)

	c = defaultConfig()
	c.Trades[1].AB.Ticker = "BTCBNB"
	assert.ErrorIs(t, c.Validate(), strategy.ErrInvalidTrade)
}
