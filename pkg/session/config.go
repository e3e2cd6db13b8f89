package session

import (
	"os"
	"strconv"
	"time"
)

// DefaultTimeout is the idle timeout applied when none is configured.
const DefaultTimeout = time.Hour

// Config controls session expiry and the cleanup sweep.
type Config struct {
	Timeout         time.Duration // Idle timeout. Default 1h.
	CleanupInterval time.Duration // How often the sweep runs. Default 5m.
	TokenTTL        time.Duration // Lifetime of minted tokens. Default 12h.
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		CleanupInterval: 5 * time.Minute,
		TokenTTL:        12 * time.Hour,
	}
}

// ConfigFromEnv loads config from environment variables.
// SITESERVER_SESSION_TIMEOUT_MINUTES, SITESERVER_SESSION_CLEANUP_MINUTES,
// SITESERVER_SESSION_TOKEN_TTL_MINUTES
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SITESERVER_SESSION_TIMEOUT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("SITESERVER_SESSION_CLEANUP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CleanupInterval = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("SITESERVER_SESSION_TOKEN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TokenTTL = time.Duration(n) * time.Minute
		}
	}
	return cfg
}
