package domain

import (
	"context"
	"time"
)

// PriceTableCache stores a full price table with its fetch time so callers
// can apply their own staleness policy. Implementations return ErrNotFound
// when no table is cached.
type PriceTableCache interface {
	Get(ctx context.Context) (PriceTable, time.Time, error)
	Set(ctx context.Context, table PriceTable) error
}

// RateLimiter limits request rates per key over a sliding window.
type RateLimiter interface {
	// Allow reports whether a request for key is permitted under the given
	// limit and window, counting the request when it is.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
