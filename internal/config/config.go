package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPHost    = "0.0.0.0"
	defaultHTTPPort    = 5000
	defaultProvider    = "yahoo"
	defaultCacheTTL    = 60
	defaultSQLitePath  = "data/marketlens.db"
	defaultConcurrency = 4
	defaultRefreshCron = "0 */5 * * * *"
	defaultLogLevel    = "info"
	defaultLogFormat   = "json"
)

// Providers are the accepted data_source.provider values.
var Providers = []string{"yahoo", "rest", "mock"}

// Config holds all application configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Redis      RedisConfig      `yaml:"redis"`
	Catalog    struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"catalog"`
	Overview OverviewConfig `yaml:"overview"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// DataSourceConfig selects the market data provider.
type DataSourceConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

// RedisConfig stores Redis connection parameters. An empty Addr disables the chart cache.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// TTL returns the cache lifetime.
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// OverviewConfig controls the market overview table and its refresh.
type OverviewConfig struct {
	Symbols     []string `yaml:"symbols"`
	Watchlist   []string `yaml:"watchlist"`
	Concurrency int      `yaml:"concurrency"`
	RefreshCron string   `yaml:"refresh_cron"`
}

// LoadDotEnv loads variables from the given .env files (default ".env") into the
// process environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTP.Host, "HTTP_HOST")
	setString(&c.DataSource.Provider, "DATA_PROVIDER")
	setString(&c.DataSource.BaseURL, "DATA_BASE_URL")
	setString(&c.DataSource.APIKey, "DATA_API_KEY")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Catalog.SQLitePath, "SQLITE_PATH")
	setString(&c.Overview.RefreshCron, "OVERVIEW_CRON")
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Proxy, "HTTPS_PROXY")

	for key, dst := range map[string]*int{
		"HTTP_PORT":         &c.HTTP.Port,
		"REDIS_DB":          &c.Redis.DB,
		"CACHE_TTL_SECONDS": &c.Redis.TTLSeconds,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = defaultHTTPHost
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultHTTPPort
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = defaultProvider
	}
	if c.Redis.TTLSeconds == 0 {
		c.Redis.TTLSeconds = defaultCacheTTL
	}
	if c.Catalog.SQLitePath == "" {
		c.Catalog.SQLitePath = defaultSQLitePath
	}
	if c.Overview.Concurrency == 0 {
		c.Overview.Concurrency = defaultConcurrency
	}
	if c.Overview.RefreshCron == "" {
		c.Overview.RefreshCron = defaultRefreshCron
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q must be one of %v", c.DataSource.Provider, Providers)
	}
	if c.Redis.TTLSeconds < 0 {
		return fmt.Errorf("redis.ttl_seconds must not be negative")
	}
	if c.Overview.Concurrency < 0 {
		return fmt.Errorf("overview.concurrency must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}
	return nil
}

// TelegramEnabled reports whether alerts and bot commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != ""
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("convert %s value %q to int: %w", key, v, err)
	}
	*dst = parsed
	return nil
}
