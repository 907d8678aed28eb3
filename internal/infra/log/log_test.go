package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"triarb/internal/config"
)

func TestLevelFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.Logging.Level = "warn"
	var buf bytes.Buffer
	l := newLogger(cfg, &buf)

	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	l.Warn().Str("trade", "BTC-ETH-USDT").Msg("shown")
	assert.Contains(t, buf.String(), `"trade":"BTC-ETH-USDT"`)
	assert.Contains(t, buf.String(), `"service":"triarb"`)
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var cfg config.Config
	cfg.Logging.Level = "loud"
	var buf bytes.Buffer
	l := newLogger(cfg, &buf)
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
	l.Info().Msg("shown")
	assert.NotEmpty(t, buf.String())
}
