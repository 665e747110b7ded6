package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "https://drive.yango.com", cfg.TargetBaseURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 5, cfg.MaxCardsPerScenario)
	assert.Equal(t, 2*time.Hour, cfg.BaseTimeOffset)
	assert.Equal(t, 5*time.Second, cfg.NavigationTimeout)
	assert.Equal(t, 2, cfg.ExtractMaxAttempts)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.MemcacheAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":8080")
	t.Setenv("HEADLESS", "false")
	t.Setenv("MAX_CARDS_PER_SCENARIO", "3")
	t.Setenv("BASE_TIME_OFFSET_HOURS", "7")
	t.Setenv("PROXY_SERVERS", "socks5://10.0.0.1:1080, socks5://10.0.0.2:1080")

	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 3, cfg.MaxCardsPerScenario)
	assert.Equal(t, 7*time.Hour, cfg.BaseTimeOffset)
	assert.Equal(t, []string{"socks5://10.0.0.1:1080", "socks5://10.0.0.2:1080"}, cfg.ProxyServers)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.MaxCardsPerScenario = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.TargetBaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.ExtractMaxAttempts = 0
	assert.Error(t, cfg.Validate())
}
