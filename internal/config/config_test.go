package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PremiumSentinel/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderEastMoney, cfg.DataSource.Provider)
	assert.Equal(t, 180, cfg.DataSource.OverviewDays)
	assert.Equal(t, 365, cfg.DataSource.DetailDays)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, 5.0, cfg.DataSource.RateLimit)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "gemini-2.5-flash", cfg.Advisor.Model)
	assert.Equal(t, model.MethodPreciseNAV, cfg.Method)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
data_source:
  provider: mock
  overview_days: 90
  timeout: 5s
cache:
  backend: none
method: REALTIME_IOPV
funds:
  profiles:
    - ticker: "513100"
      market_code: "1.513100"
      name: 国泰纳斯达克100
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("GEMINI_API_KEY", "k-123")
	t.Setenv("CRON_DAILY", "0 0 16 * * 1-5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderMock, cfg.DataSource.Provider)
	assert.Equal(t, 90, cfg.DataSource.OverviewDays)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, model.MethodRealtimeIOPV, cfg.Method)
	require.Len(t, cfg.Funds.Profiles, 1)
	assert.Equal(t, "1.513100", cfg.Funds.Profiles[0].MarketCode)
	assert.Equal(t, "k-123", cfg.Advisor.APIKey)
	assert.Equal(t, "0 0 16 * * 1-5", cfg.Schedule.DailyCron)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_source: [1, 2"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.DataSource.Provider = "yahoo" }},
		{"window", func(c *Config) { c.DataSource.DetailDays = -1 }},
		{"rate", func(c *Config) { c.DataSource.RateLimit = -2 }},
		{"cache", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis addr", func(c *Config) { c.Cache.Backend = "redis"; c.Cache.RedisAddr = "" }},
		{"method", func(c *Config) { c.Method = "GUESS" }},
		{"cron", func(c *Config) { c.Schedule.DailyCron = "every day" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
