package mediacache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, time.Minute, DefaultConfig().CheckInterval)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SITESERVER_MEDIA_CHECK_SECONDS", "15")
	assert.Equal(t, 15*time.Second, ConfigFromEnv().CheckInterval)
}

func TestConfigFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("SITESERVER_MEDIA_CHECK_SECONDS", "never")
	assert.Equal(t, time.Minute, ConfigFromEnv().CheckInterval)

	t.Setenv("SITESERVER_MEDIA_CHECK_SECONDS", "0")
	assert.Equal(t, time.Minute, ConfigFromEnv().CheckInterval)
}
