package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Rates     RatesConfig     `mapstructure:"rates"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Split     SplitConfig     `mapstructure:"split"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// RatesConfig configures the historical exchange-rate source and averaging window.
type RatesConfig struct {
	SourceURL    string        `mapstructure:"source_url"`
	AppID        string        `mapstructure:"app_id"`
	BaseCurrency string        `mapstructure:"base_currency"`
	LookbackDays int           `mapstructure:"lookback_days"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"` // per day
	Concurrency  int           `mapstructure:"concurrency"`
	Symbols      []string      `mapstructure:"symbols"` // empty = built-in tracked set
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

type GatewayConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WebhookConfig struct {
	Secret          string        `mapstructure:"secret"` // empty = signature check disabled
	SignatureHeader string        `mapstructure:"signature_header"`
	SeenTTL         time.Duration `mapstructure:"seen_ttl"`
	RateLimit       int64         `mapstructure:"rate_limit"` // requests per window per client, 0 = off
	RateWindow      time.Duration `mapstructure:"rate_window"`
}

type LedgerConfig struct {
	AccountNumberPrefix   string `mapstructure:"account_number_prefix"`
	AccountNumberAttempts int    `mapstructure:"account_number_attempts"`
}

// SplitConfig controls background split runs started by order-placed events.
type SplitConfig struct {
	TaskRetention time.Duration `mapstructure:"task_retention"` // how long a finished run stays queryable
}

type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Weekday string `mapstructure:"weekday"`
	Hour    int    `mapstructure:"hour"`
}

// ParseWeekday converts the configured weekday name into a time.Weekday.
func (s SchedulerConfig) ParseWeekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s.Weekday))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown scheduler weekday %q", s.Weekday)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: MPS_ (MarketPlace Settlement).
// Nested keys use underscore: MPS_DATABASE_HOST, MPS_RATES_APP_ID, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "marketplace")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("rates.source_url", "https://openexchangerates.org/api")
	v.SetDefault("rates.app_id", "")
	v.SetDefault("rates.base_currency", "USD")
	v.SetDefault("rates.lookback_days", 7)
	v.SetDefault("rates.fetch_timeout", "10s")
	v.SetDefault("rates.concurrency", 4)
	v.SetDefault("rates.symbols", []string{})
	v.SetDefault("rates.cache_ttl", "720h")
	v.SetDefault("gateway.base_url", "http://localhost:9000")
	v.SetDefault("gateway.api_key", "")
	v.SetDefault("gateway.timeout", "15s")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.signature_header", "X-Webhook-Signature")
	v.SetDefault("webhook.seen_ttl", "72h")
	v.SetDefault("webhook.rate_limit", 120)
	v.SetDefault("webhook.rate_window", "1m")
	v.SetDefault("ledger.account_number_prefix", "AC")
	v.SetDefault("ledger.account_number_attempts", 5)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.weekday", "monday")
	v.SetDefault("scheduler.hour", 0)
	v.SetDefault("split.task_retention", "1h")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// MPS_RATES_APP_ID -> rates.app_id
	v.SetEnvPrefix("MPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if _, err := cfg.Scheduler.ParseWeekday(); err != nil {
		return nil, err
	}
	if cfg.Scheduler.Hour < 0 || cfg.Scheduler.Hour > 23 {
		return nil, fmt.Errorf("scheduler hour %d out of range", cfg.Scheduler.Hour)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}
