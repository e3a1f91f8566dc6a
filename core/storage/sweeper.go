package storage

import (
	"context"
	"errors"
	"time"

	"github.com/techfixpro/appkit/core/logger"
)

// Start begins the background sweep that removes expired cache entries at
// the configured interval. Blocking; runs until the context is cancelled.
// Use Run for errgroup-style lifecycles or call Start in a goroutine.
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.cancel != nil {
		g.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, g.cancel = context.WithCancel(ctx)
	g.mu.Unlock()

	g.log.Info("storage sweeper started", logger.Duration(g.cfg.SweepInterval))

	ticker := time.NewTicker(g.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.log.Info("storage sweeper stopping")
			return ctx.Err()
		case <-ticker.C:
			g.sweep(ctx)
		}
	}
}

// Stop cancels the background sweep and waits for an in-progress pass.
func (g *Gateway) Stop() error {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()

	if cancel == nil {
		return ErrNotRunning
	}
	cancel()
	g.wg.Wait()
	return nil
}

// Run provides errgroup compatibility: starts the sweeper and performs a
// graceful stop when the context is cancelled.
func (g *Gateway) Run(ctx context.Context) func() error {
	return func() error {
		err := g.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func (g *Gateway) sweep(ctx context.Context) {
	g.wg.Add(1)
	defer g.wg.Done()

	removed, err := g.CleanExpiredCache(ctx)
	if err != nil {
		g.log.Warn("cache sweep failed", logger.Error(err))
		return
	}
	if removed > 0 {
		g.log.Debug("cache sweep removed expired entries", logger.Count("removed", removed))
	}
}
