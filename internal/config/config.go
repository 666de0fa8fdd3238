package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppBundle  string `mapstructure:"app_bundle"`
	AppBuild   string `mapstructure:"app_build"`
	Env        string `mapstructure:"app_env"`
	LogLevel   string `mapstructure:"log_level"`

	HTTPLogLevel       string        `mapstructure:"http_log_level"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	DefaultHeaders     bool          `mapstructure:"default_headers"`
	AutoValidate       bool          `mapstructure:"auto_validate"`
	AcceptLanguages    []string      `mapstructure:"accept_languages"`

	CollectionFile      string        `mapstructure:"collection_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	RequestDelayMillis  int64         `mapstructure:"request_delay_ms"`
	RequestDelay        time.Duration `mapstructure:"-"`
	MetricsAddr         string        `mapstructure:"metrics_addr"`
	HistoryLimitDefault int           `mapstructure:"history_limit"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "httpkit")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("app_bundle", "github.com/samvad-hq/samvad-httpkit")
	v.SetDefault("app_build", "-1")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_log_level", "info")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("default_headers", true)
	v.SetDefault("auto_validate", true)
	v.SetDefault("accept_languages", []string{})
	v.SetDefault("collection_file", "./configs/collection.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("request_delay_ms", 0)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("history_limit", 20)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/exchanges.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return finalize(&cfg)
}

func finalize(cfg *Config) (*Config, error) {
	if cfg.HTTPTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must not be negative)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.RequestDelayMillis < 0 {
		return nil, fmt.Errorf("invalid request_delay_ms (must not be negative)")
	}
	cfg.RequestDelay = time.Duration(cfg.RequestDelayMillis) * time.Millisecond

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	if cfg.HistoryLimitDefault <= 0 {
		cfg.HistoryLimitDefault = 20
	}

	langs := cfg.AcceptLanguages[:0]
	for _, l := range cfg.AcceptLanguages {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	cfg.AcceptLanguages = langs

	return cfg, nil
}
