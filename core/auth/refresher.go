package auth

import (
	"context"
	"errors"
	"time"

	"github.com/techfixpro/appkit/core/logger"
	"github.com/techfixpro/appkit/pkg/jwt"
)

// Start begins the background loop that refreshes the token when it nears
// expiry, checking at the configured interval. Blocking; runs until the
// context is cancelled. Use Run for errgroup-style lifecycles or call Start
// in a goroutine.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.log.Info("token refresher started", logger.Duration(m.cfg.RefreshInterval))

	ticker := time.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("token refresher stopping")
			return ctx.Err()
		case <-ticker.C:
			m.refreshIfNearExpiry(ctx)
		}
	}
}

// Stop cancels the background loop and waits for an in-progress refresh.
func (m *Manager) Stop() error {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return ErrNotRunning
	}
	cancel()
	m.wg.Wait()
	return nil
}

// Run provides errgroup compatibility: starts the refresher and performs a
// graceful stop when the context is cancelled.
func (m *Manager) Run(ctx context.Context) func() error {
	return func() error {
		err := m.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func (m *Manager) refreshIfNearExpiry(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == "" || !jwt.NearExpiry(token, m.cfg.RefreshThreshold, m.now()) {
		return
	}

	m.log.Info("token near expiry, refreshing")
	if err := m.RefreshToken(ctx); err != nil {
		m.log.Warn("background token refresh failed", logger.Error(err))
	}
}
