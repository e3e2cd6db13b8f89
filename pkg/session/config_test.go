package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SITESERVER_SESSION_TIMEOUT_MINUTES", "30")
	t.Setenv("SITESERVER_SESSION_CLEANUP_MINUTES", "2")
	t.Setenv("SITESERVER_SESSION_TOKEN_TTL_MINUTES", "60")

	cfg := ConfigFromEnv()
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestConfigFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("SITESERVER_SESSION_TIMEOUT_MINUTES", "soon")
	t.Setenv("SITESERVER_SESSION_CLEANUP_MINUTES", "-5")

	cfg := ConfigFromEnv()
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval)
}
