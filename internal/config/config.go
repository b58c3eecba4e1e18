package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Cache    CacheConfig    `yaml:"cache"`
	Sync     SyncConfig     `yaml:"sync"`
	Telegram TelegramConfig `yaml:"telegram"`
	Web      WebConfig      `yaml:"web"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type BackendConfig struct {
	URL                 string `yaml:"url" env:"JOURNAL_BACKEND_URL"`
	Token               string `yaml:"token" env:"JOURNAL_BACKEND_TOKEN"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds" env:"JOURNAL_BACKEND_READ_TIMEOUT"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" env:"JOURNAL_BACKEND_WRITE_TIMEOUT"`
}

type CacheConfig struct {
	Freshness  string `yaml:"freshness" env:"JOURNAL_CACHE_FRESHNESS"`
	CatalogTTL string `yaml:"catalog_ttl" env:"JOURNAL_CATALOG_TTL"`
}

type SyncConfig struct {
	Enabled  bool   `yaml:"enabled" env:"JOURNAL_SYNC_ENABLED"`
	Interval string `yaml:"interval" env:"JOURNAL_SYNC_INTERVAL"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled" env:"JOURNAL_TELEGRAM_ENABLED"`
	BotToken string `yaml:"bot_token" env:"JOURNAL_TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `yaml:"chat_id" env:"JOURNAL_TELEGRAM_CHAT_ID"`
}

type WebConfig struct {
	Port int `yaml:"port" env:"JOURNAL_WEB_PORT"`
}

type StorageConfig struct {
	Path string `yaml:"path" env:"JOURNAL_DB_PATH"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"JOURNAL_LOG_LEVEL"`
}

// Load reads the YAML file at path, then lets environment variables (and a
// .env file in the working directory, if any) override individual keys.
// A missing file is fine as long as the environment supplies what Validate needs.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Backend.URL == "" {
		cfg.Backend.URL = "http://localhost:4000/api"
	}
	if cfg.Backend.ReadTimeoutSeconds == 0 {
		cfg.Backend.ReadTimeoutSeconds = 10
	}
	if cfg.Backend.WriteTimeoutSeconds == 0 {
		cfg.Backend.WriteTimeoutSeconds = 15
	}
	if cfg.Cache.Freshness == "" {
		cfg.Cache.Freshness = "5m"
	}
	if cfg.Cache.CatalogTTL == "" {
		cfg.Cache.CatalogTTL = "1h"
	}
	if cfg.Sync.Interval == "" {
		cfg.Sync.Interval = "1m"
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/trade-journal.db"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend.url %q", c.Backend.URL)
	}
	if c.Backend.ReadTimeoutSeconds < 0 || c.Backend.WriteTimeoutSeconds < 0 {
		return fmt.Errorf("backend timeouts must be non-negative")
	}
	if _, err := time.ParseDuration(c.Cache.Freshness); err != nil {
		return fmt.Errorf("invalid cache.freshness %q: %w", c.Cache.Freshness, err)
	}
	if _, err := time.ParseDuration(c.Cache.CatalogTTL); err != nil {
		return fmt.Errorf("invalid cache.catalog_ttl %q: %w", c.Cache.CatalogTTL, err)
	}
	d, err := time.ParseDuration(c.Sync.Interval)
	if err != nil {
		return fmt.Errorf("invalid sync.interval %q: %w", c.Sync.Interval, err)
	}
	if d <= 0 {
		return fmt.Errorf("sync.interval must be positive")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Backend.ReadTimeoutSeconds) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Backend.WriteTimeoutSeconds) * time.Second
}

func (c *Config) FreshnessWindow() time.Duration {
	d, _ := time.ParseDuration(c.Cache.Freshness)
	return d
}

func (c *Config) CatalogTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.CatalogTTL)
	return d
}

func (c *Config) SyncInterval() time.Duration {
	d, _ := time.ParseDuration(c.Sync.Interval)
	return d
}
