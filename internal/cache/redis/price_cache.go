package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// priceTableKey holds the whole price table as one blob; the table is always
// fetched and replaced wholesale, never per symbol.
const priceTableKey = "pricetable:binance"

// PriceTableCache implements domain.PriceTableCache using a Redis hash with a
// JSON-serialized price table and its fetch timestamp.
//
// Key schema:
//
//	pricetable:binance - hash with fields "data" (JSON symbol->price map)
//	                     and "ts" (Unix nanosecond fetch time)
type PriceTableCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPriceTableCache creates a PriceTableCache backed by the given Client.
// Entries expire after ttl; callers apply their own freshness policy on top
// of the stored timestamp.
func NewPriceTableCache(c *Client, ttl time.Duration) *PriceTableCache {
	return &PriceTableCache{rdb: c.Underlying(), ttl: ttl}
}

// Set stores the price table with the current time as its fetch timestamp.
func (pc *PriceTableCache) Set(ctx context.Context, table domain.PriceTable) error {
	encoded := make(map[string]string, len(table))
	for symbol, price := range table {
		encoded[symbol] = price.String()
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("redis: marshal price table: %w", err)
	}

	pipe := pc.rdb.TxPipeline()
	pipe.HSet(ctx, priceTableKey, map[string]interface{}{
		"data": data,
		"ts":   strconv.FormatInt(time.Now().UnixNano(), 10),
	})
	pipe.Expire(ctx, priceTableKey, pc.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set price table: %w", err)
	}
	return nil
}

// Get retrieves the cached price table and its fetch time. It returns
// domain.ErrNotFound when no table is cached.
func (pc *PriceTableCache) Get(ctx context.Context) (domain.PriceTable, time.Time, error) {
	vals, err := pc.rdb.HGetAll(ctx, priceTableKey).Result()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("redis: get price table: %w", err)
	}
	if len(vals) == 0 {
		return nil, time.Time{}, domain.ErrNotFound
	}

	data, ok := vals["data"]
	if !ok {
		return nil, time.Time{}, domain.ErrNotFound
	}
	var encoded map[string]string
	if err := json.Unmarshal([]byte(data), &encoded); err != nil {
		return nil, time.Time{}, fmt.Errorf("redis: unmarshal price table: %w", err)
	}

	table := make(domain.PriceTable, len(encoded))
	for symbol, raw := range encoded {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		table[symbol] = price
	}

	tsStr, ok := vals["ts"]
	if !ok {
		return nil, time.Time{}, domain.ErrNotFound
	}
	tsNano, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("redis: parse price table ts: %w", err)
	}

	return table, time.Unix(0, tsNano), nil
}

// Compile-time interface check.
var _ domain.PriceTableCache = (*PriceTableCache)(nil)
