package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"triarb/internal/strategy"
)

type Config struct {
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
	Server struct {
		Addr                string   `yaml:"addr"`
		Pprof               bool     `yaml:"pprof"`
		ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
		WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
		IdleTimeoutSeconds  int      `yaml:"idle_timeout_seconds"`
		AdminAllowCIDRs     []string `yaml:"admin_allow_cidrs"`
	} `yaml:"server"`
	Investment struct {
		Min  float64 `yaml:"min"`
		Max  float64 `yaml:"max"`
		Step float64 `yaml:"step"`
	} `yaml:"investment"`
	Execution struct {
		Enabled          bool     `yaml:"enabled"`
		Fee              float64  `yaml:"fee"` // percent per leg
		ThresholdPercent float64  `yaml:"threshold_percent"`
		CooldownSeconds  int      `yaml:"cooldown_seconds"`
		AllowedSymbols   []string `yaml:"allowed_symbols"`
	} `yaml:"execution"`
	HUD struct {
		Enabled bool `yaml:"enabled"`
		Rows    int  `yaml:"rows"`
	} `yaml:"hud"`
	Depth struct {
		Limit       int `yaml:"limit"`
		RefreshMs   int `yaml:"refresh_ms"`
		Concurrency int `yaml:"concurrency"`
	} `yaml:"depth"`
	Exchange struct {
		Binance struct {
			BaseURL           string  `yaml:"base_url"`
			RequestsPerSecond float64 `yaml:"requests_per_second"`
		} `yaml:"binance"`
	} `yaml:"exchange"`
	Backtest struct {
		CSV string `yaml:"csv"`
	} `yaml:"backtest"`
	Trades []Trade `yaml:"trades"`
}

type Trade struct {
	Symbols struct {
		A string `yaml:"a"`
		B string `yaml:"b"`
		C string `yaml:"c"`
	} `yaml:"symbols"`
	AB Leg `yaml:"ab"`
	BC Leg `yaml:"bc"`
	CA Leg `yaml:"ca"`
}

type Leg struct {
	Ticker       string `yaml:"ticker"`
	Method       string `yaml:"method"`
	DustDecimals int    `yaml:"dust_decimals"`
}

func defaultConfig() Config {
	var c Config
	c.Logging.Level = "info"
	c.Logging.Pretty = false
	c.Server.Addr = ":9090"
	c.Server.Pprof = false
	c.Server.ReadTimeoutSeconds = 5
	c.Server.WriteTimeoutSeconds = 10
	c.Server.IdleTimeoutSeconds = 60
	c.Server.AdminAllowCIDRs = []string{"127.0.0.0/8", "::1/128"}
	c.Investment.Min = 0.1
	c.Investment.Max = 1.0
	c.Investment.Step = 0.1
	c.Execution.Enabled = false
	c.Execution.Fee = 0.075
	c.Execution.ThresholdPercent = 0.3
	c.Execution.CooldownSeconds = 30
	c.HUD.Enabled = true
	c.HUD.Rows = 10
	c.Depth.Limit = 20
	c.Depth.RefreshMs = 1000
	c.Depth.Concurrency = 4
	c.Exchange.Binance.BaseURL = "https://api.binance.com"
	c.Exchange.Binance.RequestsPerSecond = 10
	c.Trades = []Trade{
		newTrade("BTC", "ETH", "USDT", "ETHBTC", "BUY", 3, "ETHUSDT", "SELL", 4, "BTCUSDT", "BUY", 5),
		newTrade("BTC", "BNB", "USDT", "BNBBTC", "BUY", 2, "BNBUSDT", "SELL", 3, "BTCUSDT", "BUY", 5),
		newTrade("BTC", "SOL", "USDT", "SOLBTC", "BUY", 2, "SOLUSDT", "SELL", 2, "BTCUSDT", "BUY", 5),
		newTrade("BTC", "USDT", "ETH", "BTCUSDT", "SELL", 5, "ETHUSDT", "BUY", 4, "ETHBTC", "SELL", 3),
	}
	return c
}

func newTrade(a, b, c, abT, abM string, abD int, bcT, bcM string, bcD int, caT, caM string, caD int) Trade {
	var t Trade
	t.Symbols.A, t.Symbols.B, t.Symbols.C = a, b, c
	t.AB = Leg{Ticker: abT, Method: abM, DustDecimals: abD}
	t.BC = Leg{Ticker: bcT, Method: bcM, DustDecimals: bcD}
	t.CA = Leg{Ticker: caT, Method: caM, DustDecimals: caD}
	return t
}

// Load builds the config from defaults, a .env file, the YAML file named by
// TRIARB_CONFIG and TRIARB_* overrides, in that order.
func Load() Config {
	c := defaultConfig()
	_ = godotenv.Load()
	if path := os.Getenv("TRIARB_CONFIG"); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	if v := os.Getenv("TRIARB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TRIARB_HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TRIARB_PPROF"); v == "1" || v == "true" {
		c.Server.Pprof = true
	}
	if v := os.Getenv("TRIARB_ADMIN_ALLOW_CIDRS"); v != "" {
		c.Server.AdminAllowCIDRs = splitCSV(v)
	}
	setFloat(&c.Investment.Min, "TRIARB_INVESTMENT_MIN")
	setFloat(&c.Investment.Max, "TRIARB_INVESTMENT_MAX")
	setFloat(&c.Investment.Step, "TRIARB_INVESTMENT_STEP")
	if v := os.Getenv("TRIARB_EXECUTION_ENABLED"); v == "1" || v == "true" {
		c.Execution.Enabled = true
	}
	setFloat(&c.Execution.Fee, "TRIARB_EXECUTION_FEE")
	setFloat(&c.Execution.ThresholdPercent, "TRIARB_EXECUTION_THRESHOLD_PERCENT")
	if v := os.Getenv("TRIARB_ALLOWED_SYMBOLS"); v != "" {
		c.Execution.AllowedSymbols = splitCSV(v)
	}
	if v := os.Getenv("TRIARB_HUD_ENABLED"); v != "" {
		c.HUD.Enabled = v == "1" || v == "true"
	}
	if v := os.Getenv("TRIARB_BINANCE_BASE_URL"); v != "" {
		c.Exchange.Binance.BaseURL = v
	}
	if v := os.Getenv("TRIARB_BACKTEST_CSV"); v != "" {
		c.Backtest.CSV = v
	}
	return c
}

// Validate rejects settings the calculation core cannot run with.
func (c Config) Validate() error {
	var errs []error
	if err := c.Range().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("investment: %w", err))
	}
	if c.Investment.Min <= 0 {
		errs = append(errs, fmt.Errorf("investment.min must be positive, got %g", c.Investment.Min))
	}
	if c.Execution.Fee < 0 {
		errs = append(errs, fmt.Errorf("execution.fee must not be negative, got %g", c.Execution.Fee))
	}
	if c.Depth.Limit <= 0 || c.Depth.RefreshMs <= 0 || c.Depth.Concurrency <= 0 {
		errs = append(errs, errors.New("depth.limit, depth.refresh_ms and depth.concurrency must be positive"))
	}
	if _, err := c.StrategyTrades(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Config) Range() strategy.Range {
	return strategy.Range{Min: c.Investment.Min, Max: c.Investment.Max, Step: c.Investment.Step}
}

// StrategyTrades converts the configured trades, in configured order, and
// checks each one closes its cycle.
func (c Config) StrategyTrades() ([]strategy.Trade, error) {
	out := make([]strategy.Trade, 0, len(c.Trades))
	for i, t := range c.Trades {
		st, err := t.toStrategy()
		if err != nil {
			return nil, fmt.Errorf("trades[%d]: %w", i, err)
		}
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("trades[%d]: %w", i, err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (t Trade) toStrategy() (strategy.Trade, error) {
	st := strategy.Trade{
		A: strings.ToUpper(t.Symbols.A),
		B: strings.ToUpper(t.Symbols.B),
		C: strings.ToUpper(t.Symbols.C),
	}
	var err error
	if st.AB, err = t.AB.toStrategy(); err != nil {
		return st, err
	}
	if st.BC, err = t.BC.toStrategy(); err != nil {
		return st, err
	}
	if st.CA, err = t.CA.toStrategy(); err != nil {
		return st, err
	}
	return st, nil
}

func (l Leg) toStrategy() (strategy.Leg, error) {
	m, err := strategy.ParseMethod(l.Method)
	if err != nil {
		return strategy.Leg{}, fmt.Errorf("%s: %w", l.Ticker, err)
	}
	return strategy.Leg{Ticker: strings.ToUpper(l.Ticker), Method: m, DustDecimals: l.DustDecimals}, nil
}

func setFloat(dst *float64, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var f float64
	if _, err := fmt.Sscan(v, &f); err == nil {
		*dst = f
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
