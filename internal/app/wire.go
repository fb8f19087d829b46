package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mugentime/earn-desde-cero/internal/cache/redis"
	"github.com/mugentime/earn-desde-cero/internal/config"
	"github.com/mugentime/earn-desde-cero/internal/crypto"
	"github.com/mugentime/earn-desde-cero/internal/domain"
	"github.com/mugentime/earn-desde-cero/internal/platform/binance"
	"github.com/mugentime/earn-desde-cero/internal/service"
	"github.com/mugentime/earn-desde-cero/internal/valuation"
)

// Dependencies bundles everything the HTTP layer needs to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Auth        *crypto.HMACAuth
	Exchange    *binance.Client
	Wallet      *service.WalletService
	RateLimiter domain.RateLimiter // nil when Redis is disabled
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Credentials ---
	// Missing credentials are allowed: the health endpoint reports them and
	// signed calls fail with a configuration error instead of crashing.
	secret, err := crypto.LoadSecret(crypto.SecretConfig{
		RawSecret:           cfg.Binance.SecretKey,
		EncryptedSecretPath: cfg.Binance.EncryptedSecretPath,
		Password:            cfg.Binance.SecretPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wire: resolve API secret: %w", err)
	}
	deps.Auth = &crypto.HMACAuth{
		Key:    cfg.Binance.ApiKey,
		Secret: secret,
	}

	// --- Exchange client ---
	timeout := time.Duration(cfg.Binance.TimeoutSeconds) * time.Second
	deps.Exchange = binance.NewClient(cfg.Binance.BaseURL, deps.Auth, timeout)

	// --- Price source (direct, or Redis-cached when enabled) ---
	var prices service.PriceSource = service.NewDirectPriceSource(deps.Exchange)

	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		ttl := time.Duration(cfg.Redis.PriceTTLSeconds) * time.Second
		priceCache := redis.NewPriceTableCache(redisClient, ttl)
		prices = service.NewCachedPriceSource(deps.Exchange, priceCache, ttl, logger)
		deps.RateLimiter = redis.NewRateLimiter(redisClient)
	}

	// --- Valuation ---
	calc := valuation.New(cfg.Valuation.QuoteCurrency, cfg.Valuation.PeggedAssets)
	deps.Wallet = service.NewWalletService(deps.Exchange, prices, calc, logger)

	return deps, cleanup, nil
}
