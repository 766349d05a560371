// Package config loads the service configuration from config.yaml,
// .env files and environment variables. Environment always wins over
// the file; defaults are production safe.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultLockWaitTimeout = 10 * time.Second
	defaultCacheTTL        = 10 * time.Minute
	defaultProbeTimeout    = 10 * time.Second
	defaultProbeRPS        = 2
	defaultRetentionDays   = 180
)

// Config represents the application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// AppConfig identifies the service instance.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// LoggerConfig tunes zap.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// DatabaseConfig holds the MySQL connection settings plus the
// transaction runner knobs.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	LockWaitTimeout time.Duration `mapstructure:"lock_wait_timeout"`
}

// RedisConfig holds the storefront cache connection. Enabled is a
// feature flag; with it off every read goes straight to MySQL.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MaintenanceConfig drives the link and price sweeps and the
// retention cleanups.
type MaintenanceConfig struct {
	LinkCheckSchedule  string `mapstructure:"link_check_schedule"`
	PriceCheckSchedule string `mapstructure:"price_check_schedule"`
	RetentionSchedule  string `mapstructure:"retention_schedule"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RequestsPerSec int           `mapstructure:"requests_per_sec"`
	Burst          int           `mapstructure:"burst"`
	UserAgent      string        `mapstructure:"user_agent"`

	AuditRetentionDays int `mapstructure:"audit_retention_days"`
	PriceRetentionDays int `mapstructure:"price_retention_days"`
}

// MetricsConfig holds the prometheus listen address.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// Validate checks that the settings a running service cannot work
// without are present.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port == "" {
		return errors.New("database.port is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis.address is required when redis.enabled is set")
	}
	return nil
}

// Load initializes viper, reads config.yaml if present, applies env
// overrides and returns the typed configuration.
func Load() (*Config, error) {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	_ = v.ReadInConfig()

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.App.Debug {
		cfg.Logger.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "catalog-service",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":    "info",
		"encoding": "json",
	})

	v.SetDefault("database", map[string]any{
		"host":              "localhost",
		"port":              "3306",
		"user":              "",
		"password":          "",
		"name":              "",
		"max_open_conns":    25,
		"max_idle_conns":    5,
		"lock_wait_timeout": defaultLockWaitTimeout.String(),
	})

	v.SetDefault("redis", map[string]any{
		"enabled":  false,
		"address":  "localhost:6379",
		"password": "",
		"db":       0,
		"ttl":      defaultCacheTTL.String(),
	})

	v.SetDefault("maintenance", map[string]any{
		"link_check_schedule":  "0 3 * * *",
		"price_check_schedule": "0 4 * * *",
		"retention_schedule":   "0 5 * * *",
		"request_timeout":      defaultProbeTimeout.String(),
		"requests_per_sec":     defaultProbeRPS,
		"burst":                defaultProbeRPS,
		"user_agent":           "DevDailyBot/1.0 (catalog maintenance)",
		"audit_retention_days": defaultRetentionDays,
		"price_retention_days": defaultRetentionDays,
	})

	v.SetDefault("metrics", map[string]any{
		"address": ":9090",
	})
}

func bindEnvVars(v *viper.Viper) error {
	binds := map[string][]string{
		"app.environment":   {"APP_ENV"},
		"app.debug":         {"APP_DEBUG"},
		"logger.level":      {"LOG_LEVEL"},
		"logger.encoding":   {"LOG_FORMAT"},
		"database.host":     {"DB_HOST"},
		"database.port":     {"DB_PORT"},
		"database.user":     {"DB_USER"},
		"database.password": {"DB_PASSWORD"},
		"database.name":     {"DB_NAME"},
		"redis.enabled":     {"REDIS_ENABLED"},
		"redis.address":     {"REDIS_ADDRESS"},
		"redis.password":    {"REDIS_PASSWORD"},
		"redis.db":          {"REDIS_DB"},
		"metrics.address":   {"METRICS_ADDRESS"},
	}
	for key, envs := range binds {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}
