package dbpool

import (
	"os"
	"strconv"
)

// Config controls pool sizing.
type Config struct {
	MaxSize int // Maximum connections the pool may own. Default 8.
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() *Config {
	return &Config{MaxSize: 8}
}

// ConfigFromEnv loads config from environment variables.
// SITESERVER_POOL_MAX_SIZE
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SITESERVER_POOL_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSize = n
		}
	}
	return cfg
}
