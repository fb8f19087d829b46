// Package config defines the top-level configuration for the wallet
// valuation server and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by EARN_* environment variables.
type Config struct {
	Binance   BinanceConfig   `toml:"binance"`
	Valuation ValuationConfig `toml:"valuation"`
	Redis     RedisConfig     `toml:"redis"`
	Server    ServerConfig    `toml:"server"`
	LogLevel  string          `toml:"log_level"`
}

// BinanceConfig holds the exchange endpoint and credentials. The secret may
// come from the plain secret_key field or from an encrypted secret file; a
// completely absent credential pair is allowed and reported by the health
// endpoint instead of failing validation.
type BinanceConfig struct {
	BaseURL             string `toml:"base_url"`
	ApiKey              string `toml:"api_key"`
	SecretKey           string `toml:"secret_key"`
	EncryptedSecretPath string `toml:"encrypted_secret_path"`
	SecretPassword      string `toml:"secret_password"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
}

// ValuationConfig holds the quote currency and the pegged-asset set.
type ValuationConfig struct {
	QuoteCurrency string   `toml:"quote_currency"`
	PeggedAssets  []string `toml:"pegged_assets"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: when
// disabled, prices are fetched per request and API rate limiting is off.
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	PoolSize        int    `toml:"pool_size"`
	MaxRetries      int    `toml:"max_retries"`
	TLSEnabled      bool   `toml:"tls_enabled"`
	PriceTTLSeconds int    `toml:"price_ttl_seconds"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port               int      `toml:"port"`
	CORSOrigins        []string `toml:"cors_origins"`
	APIKey             string   `toml:"api_key"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Binance: BinanceConfig{
			BaseURL:        "https://api.binance.com",
			TimeoutSeconds: 10,
		},
		Valuation: ValuationConfig{
			QuoteCurrency: "USDT",
			PeggedAssets:  []string{"BUSD", "USDC", "FDUSD", "TUSD"},
		},
		Redis: RedisConfig{
			Enabled:         false,
			Addr:            "localhost:6379",
			DB:              0,
			PoolSize:        20,
			MaxRetries:      3,
			TLSEnabled:      false,
			PriceTTLSeconds: 30,
		},
		Server: ServerConfig{
			Port:               8000,
			CORSOrigins:        []string{"http://localhost:3000", "http://localhost:5173"},
			RateLimitPerMinute: 0,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found. Missing credentials are
// deliberately not a validation failure.
func (c *Config) Validate() error {
	var errs []string

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Binance
	if c.Binance.BaseURL == "" {
		errs = append(errs, "binance: base_url must not be empty")
	}
	if c.Binance.TimeoutSeconds < 1 {
		errs = append(errs, "binance: timeout_seconds must be >= 1")
	}
	if c.Binance.EncryptedSecretPath != "" && c.Binance.SecretPassword == "" {
		errs = append(errs, "binance: secret_password is required when encrypted_secret_path is set")
	}

	// Valuation
	if strings.TrimSpace(c.Valuation.QuoteCurrency) == "" {
		errs = append(errs, "valuation: quote_currency must not be empty")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
		if c.Redis.PriceTTLSeconds < 1 {
			errs = append(errs, "redis: price_ttl_seconds must be >= 1 when enabled")
		}
	}

	// Server
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, "server: rate_limit_per_minute must be >= 0")
	}
	if c.Server.RateLimitPerMinute > 0 && !c.Redis.Enabled {
		errs = append(errs, "server: rate_limit_per_minute requires redis to be enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
