package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"triarb/internal/api/rest"
	"triarb/internal/backtest"
	"triarb/internal/config"
	"triarb/internal/engine"
	"triarb/internal/exchange/binance"
	"triarb/internal/execution"
	"triarb/internal/infra/health"
	"triarb/internal/infra/log"
	"triarb/internal/infra/metrics"
	"triarb/internal/infra/netutil"
	"triarb/internal/infra/runner"
	"triarb/internal/infra/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := log.NewLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	trades, _ := cfg.StrategyTrades()
	v := version.Get()
	logger.Info().Str("version", v.Version).Str("commit", v.Commit).Int("trades", len(trades)).Msg("triarb starting")

	registry := metrics.Init(logger)

	if cfg.Backtest.CSV != "" {
		if _, err := backtest.New(cfg, trades, logger).RunFile(ctx, cfg.Backtest.CSV); err != nil {
			logger.Error().Err(err).Str("csv", cfg.Backtest.CSV).Msg("backtest failed")
			os.Exit(1)
		}
		return
	}

	policy := execution.NewPolicy(cfg, logger)
	eng := engine.New(cfg, binance.New(cfg), trades, policy, execution.NewPaperExecutor(policy, logger), logger)

	adminCIDRs, err := netutil.ParseCIDRs(cfg.Server.AdminAllowCIDRs)
	if err != nil {
		logger.Warn().Err(err).Msg("admin allowlist")
	}
	srv := rest.New(eng, rest.Options{
		Registry:    registry,
		AdminAllow:  adminCIDRs,
		Pprof:       cfg.Server.Pprof,
		DefaultRows: cfg.HUD.Rows,
	}, logger)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	// readiness fails if no round completes within a few refresh intervals
	health.SetStaleAfter(10 * time.Duration(cfg.Depth.RefreshMs) * time.Millisecond)

	g, gctx := runner.New(ctx, logger)
	g.Go("http", func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() { errCh <- server.ListenAndServe() }()
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go("engine", eng.Run)

	health.SetReady(true)
	logger.Info().Str("addr", cfg.Server.Addr).Msg("triarb started")

	<-gctx.Done()
	health.SetReady(false)
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("worker error")
	}
	logger.Info().Msg("shutdown complete")
}
