package mediacache

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config controls the disk-space sweep.
type Config struct {
	CheckInterval time.Duration // How often CheckMedia runs. Default 1m.
}

// DefaultConfig returns the default media cache configuration.
func DefaultConfig() *Config {
	return &Config{CheckInterval: time.Minute}
}

// ConfigFromEnv loads config from environment variables.
// SITESERVER_MEDIA_CHECK_SECONDS
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SITESERVER_MEDIA_CHECK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CheckInterval = time.Duration(n) * time.Second
		}
	}
	return cfg
}

// Checker runs the placement cache's CheckMedia sweep on a fixed interval
// until the context is cancelled.
type Checker struct {
	cache    *PlacementCache
	interval time.Duration
	logger   *slog.Logger
}

// NewChecker creates a checker for cache.
func NewChecker(cache *PlacementCache, interval time.Duration, logger *slog.Logger) *Checker {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{cache: cache, interval: interval, logger: logger}
}

// Run blocks until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := c.cache.CheckMedia(); evicted > 0 {
				c.logger.Info("media placements evicted", "count", evicted)
			}
		}
	}
}
