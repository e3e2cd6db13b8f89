package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs the registry's Cleanup on a fixed interval until the
// context is cancelled.
type Sweeper struct {
	registry *Registry
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a sweeper for registry.
func NewSweeper(registry *Registry, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{registry: registry, interval: interval, logger: logger}
}

// Run blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.registry.Cleanup(); removed > 0 {
				s.logger.Info("expired sessions removed", "count", removed)
			}
		}
	}
}
