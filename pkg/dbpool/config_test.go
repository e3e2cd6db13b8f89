package dbpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 8, cfg.MaxSize)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SITESERVER_POOL_MAX_SIZE", "32")
	assert.Equal(t, 32, ConfigFromEnv().MaxSize)
}

func TestConfigFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("SITESERVER_POOL_MAX_SIZE", "lots")
	assert.Equal(t, DefaultConfig().MaxSize, ConfigFromEnv().MaxSize)

	t.Setenv("SITESERVER_POOL_MAX_SIZE", "0")
	assert.Equal(t, DefaultConfig().MaxSize, ConfigFromEnv().MaxSize)
}
