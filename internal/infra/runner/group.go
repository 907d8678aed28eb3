package runner

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Group runs named workers; the first one to fail cancels the rest.
type Group struct {
	g      *errgroup.Group
	ctx    context.Context
	logger zerolog.Logger
}

func New(ctx context.Context, logger zerolog.Logger) (*Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{g: g, ctx: gctx, logger: logger}, gctx
}

func (g *Group) Go(name string, fn func(ctx context.Context) error) {
	g.g.Go(func() error {
		g.logger.Debug().Str("worker", name).Msg("worker started")
		err := fn(g.ctx)
		if err != nil {
			g.logger.Error().Err(err).Str("worker", name).Msg("worker stopped")
		}
		return err
	})
}

func (g *Group) Wait() error { return g.g.Wait() }
