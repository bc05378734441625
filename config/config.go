package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/next-trace/scg-mediator/registry"
)

// EnvPrefix prefixes every environment override, e.g. SCG_LOGGING_LEVEL.
const EnvPrefix = "SCG"

// Config is the main configuration struct combining all sub-configs.
type Config struct {
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Relay    RelayConfig    `mapstructure:"relay"`
}

// DispatchConfig holds registry and decorator settings.
type DispatchConfig struct {
	// Lifetime of registered handlers: transient, scoped, singleton
	DefaultLifetime string `mapstructure:"default_lifetime" validate:"required,oneof=transient scoped singleton"`

	// Validate requests and queries through their struct tags
	Validate bool `mapstructure:"validate"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
}

// Lifetime parses DefaultLifetime.
func (d DispatchConfig) Lifetime() (registry.Lifetime, error) {
	return registry.ParseLifetime(d.DefaultLifetime)
}

// RateLimitConfig throttles dispatch per contract. Zero PerSecond disables it.
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second" validate:"min=0"`
	Burst     int     `mapstructure:"burst" validate:"min=0"`
}

// RetryConfig retries event handler faults. Zero MaxRetries disables it.
type RetryConfig struct {
	MaxRetries      uint64        `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// MetricsConfig enables the Prometheus decorator.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}

// Load reads configuration with priority:
// 1. Environment variables (highest priority)
// 2. Config file
// 3. Defaults (lowest priority)
//
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("scg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg) //nolint:errcheck // defaults always decode

	return &cfg
}
