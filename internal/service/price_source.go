package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// DirectPriceSource fetches the price table from the exchange on every call.
// This is the default: one fetch per inbound request, no caching.
type DirectPriceSource struct {
	exchange Exchange
}

// NewDirectPriceSource creates a DirectPriceSource.
func NewDirectPriceSource(exchange Exchange) *DirectPriceSource {
	return &DirectPriceSource{exchange: exchange}
}

// Prices fetches a fresh price table from the exchange.
func (d *DirectPriceSource) Prices(ctx context.Context) (domain.PriceTable, error) {
	return d.exchange.GetPrices(ctx)
}

// CachedPriceSource serves the price table from a cache while it is younger
// than maxAge, refetching from the exchange otherwise. Cache failures degrade
// to a direct fetch; a failed write-back is logged and otherwise ignored.
type CachedPriceSource struct {
	exchange Exchange
	cache    domain.PriceTableCache
	maxAge   time.Duration
	logger   *slog.Logger
}

// NewCachedPriceSource creates a CachedPriceSource.
func NewCachedPriceSource(exchange Exchange, cache domain.PriceTableCache, maxAge time.Duration, logger *slog.Logger) *CachedPriceSource {
	return &CachedPriceSource{
		exchange: exchange,
		cache:    cache,
		maxAge:   maxAge,
		logger:   logger.With(slog.String("component", "price_source")),
	}
}

// Prices returns the cached table when fresh, otherwise fetches from the
// exchange and writes the result back.
func (c *CachedPriceSource) Prices(ctx context.Context) (domain.PriceTable, error) {
	table, fetchedAt, err := c.cache.Get(ctx)
	if err == nil && time.Since(fetchedAt) <= c.maxAge {
		return table, nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		c.logger.WarnContext(ctx, "price cache read failed, fetching directly",
			slog.String("error", err.Error()),
		)
	}

	fresh, err := c.exchange.GetPrices(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, fresh); err != nil {
		c.logger.WarnContext(ctx, "price cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return fresh, nil
}

// Compile-time interface checks.
var (
	_ PriceSource = (*DirectPriceSource)(nil)
	_ PriceSource = (*CachedPriceSource)(nil)
)
