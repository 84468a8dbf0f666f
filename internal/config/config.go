package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"PremiumSentinel/internal/model"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Data source providers.
const (
	ProviderEastMoney = "eastmoney"
	ProviderMock      = "mock"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or pretty
		Dir    string `yaml:"dir"`    // rotated log files; empty for stderr only
	} `yaml:"log"`
	DataSource struct {
		Provider       string        `yaml:"provider"`
		PriceBaseURL   string        `yaml:"price_base_url"`
		NavBaseURL     string        `yaml:"nav_base_url"`
		OverviewDays   int           `yaml:"overview_days"`
		DetailDays     int           `yaml:"detail_days"`
		Timeout        time.Duration `yaml:"timeout"`
		RateLimit      float64       `yaml:"rate_limit"` // requests per second per upstream
		MaxConcurrency int           `yaml:"max_concurrency"`
		Proxy          string        `yaml:"proxy"`
	} `yaml:"data_source"`
	Funds struct {
		File     string              `yaml:"file"`
		Profiles []model.FundProfile `yaml:"profiles"`
	} `yaml:"funds"`
	Advisor struct {
		Model          string        `yaml:"model"`
		Timeout        time.Duration `yaml:"timeout"`
		CredentialFile string        `yaml:"credential_file"`
		APIKey         string        `yaml:"-"`
	} `yaml:"advisor"`
	Cache struct {
		Backend       string        `yaml:"backend"` // memory, redis or none
		TTL           time.Duration `yaml:"ttl"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Method model.CalculationMethod `yaml:"method"`
}

// Load reads .env and the YAML file, then applies environment variable overrides and defaults.
// Missing files are not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Advisor.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" {
		c.Advisor.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.DataSource.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
		if c.Cache.Backend == "" {
			c.Cache.Backend = "redis"
		}
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		c.Schedule.DailyCron = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("OVERVIEW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DataSource.OverviewDays = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "pretty"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderEastMoney
	}
	if c.DataSource.PriceBaseURL == "" {
		c.DataSource.PriceBaseURL = "https://push2his.eastmoney.com"
	}
	if c.DataSource.NavBaseURL == "" {
		c.DataSource.NavBaseURL = "https://fund.eastmoney.com"
	}
	if c.DataSource.OverviewDays == 0 {
		c.DataSource.OverviewDays = 180
	}
	if c.DataSource.DetailDays == 0 {
		c.DataSource.DetailDays = 365
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.RateLimit == 0 {
		c.DataSource.RateLimit = 5
	}
	if c.DataSource.MaxConcurrency == 0 {
		c.DataSource.MaxConcurrency = 4
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "gemini-2.5-flash"
	}
	if c.Advisor.Timeout == 0 {
		c.Advisor.Timeout = 60 * time.Second
	}
	if c.Advisor.CredentialFile == "" {
		c.Advisor.CredentialFile = "data/credentials.json"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 30 15 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/premium_sentinel.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Method == "" {
		c.Method = model.MethodPreciseNAV
	}
}

// Validate checks invariants the rest of the program relies on.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderEastMoney, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider: unknown provider %q", c.DataSource.Provider)
	}
	if c.DataSource.OverviewDays <= 0 || c.DataSource.DetailDays <= 0 {
		return errors.New("data_source: overview_days and detail_days must be positive")
	}
	if c.DataSource.RateLimit <= 0 {
		return errors.New("data_source.rate_limit must be positive")
	}
	if c.DataSource.MaxConcurrency <= 0 {
		return errors.New("data_source.max_concurrency must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if !c.Method.Valid() {
		return fmt.Errorf("method: unknown calculation method %q", c.Method)
	}
	if _, err := cron.NewParser(cronSpec).Parse(c.Schedule.DailyCron); err != nil {
		return fmt.Errorf("schedule.daily_cron: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// cronSpec matches the seconds-enabled parser used by the scheduler.
const cronSpec = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor
