package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies EARN_* environment variable overrides, and
// returns the final Config. A missing config file is not an error; the
// defaults plus environment variables then apply. The returned Config has NOT
// been validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known EARN_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Binance ──
	// Bare BINANCE_* names are honoured first so the EARN_* names win when
	// both are set (compatibility alias).
	setStr(&cfg.Binance.ApiKey, "BINANCE_API_KEY")
	setStr(&cfg.Binance.SecretKey, "BINANCE_SECRET_KEY")
	setStr(&cfg.Binance.BaseURL, "EARN_BINANCE_BASE_URL")
	setStr(&cfg.Binance.ApiKey, "EARN_BINANCE_API_KEY")
	setStr(&cfg.Binance.SecretKey, "EARN_BINANCE_SECRET_KEY")
	setStr(&cfg.Binance.EncryptedSecretPath, "EARN_BINANCE_ENCRYPTED_SECRET_PATH")
	setStr(&cfg.Binance.SecretPassword, "EARN_BINANCE_SECRET_PASSWORD")
	setInt(&cfg.Binance.TimeoutSeconds, "EARN_BINANCE_TIMEOUT_SECONDS")

	// ── Valuation ──
	setStr(&cfg.Valuation.QuoteCurrency, "EARN_VALUATION_QUOTE_CURRENCY")
	setStringSlice(&cfg.Valuation.PeggedAssets, "EARN_VALUATION_PEGGED_ASSETS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "EARN_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "EARN_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "EARN_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "EARN_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "EARN_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "EARN_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "EARN_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.PriceTTLSeconds, "EARN_REDIS_PRICE_TTL_SECONDS")

	// ── Server ──
	setInt(&cfg.Server.Port, "PORT") // PaaS compatibility alias
	setInt(&cfg.Server.Port, "EARN_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "EARN_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "EARN_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerMinute, "EARN_SERVER_RATE_LIMIT_PER_MINUTE")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "EARN_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
