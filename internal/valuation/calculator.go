// Package valuation converts a list of exchange balances and a live price
// table into a portfolio value expressed in a single quote currency. All
// arithmetic uses decimals, so available + inOrders equals total exactly
// before display rounding.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// btcEquivalentPlaces is the number of fractional digits kept (truncated, not
// rounded) for the BTC-equivalent figure.
const btcEquivalentPlaces = 8

// Calculator values balances against a price table. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	quote  string
	pegged map[string]bool
}

// New creates a Calculator for the given quote currency. Assets in pegged are
// treated as worth exactly 1 quote unit without a price lookup.
func New(quote string, pegged []string) *Calculator {
	m := make(map[string]bool, len(pegged))
	for _, a := range pegged {
		m[a] = true
	}
	return &Calculator{quote: quote, pegged: m}
}

// Quote returns the quote currency the calculator values in.
func (c *Calculator) Quote() string {
	return c.quote
}

// AssetValue is one asset's row in a valuation breakdown.
type AssetValue struct {
	Asset      string
	Free       decimal.Decimal
	Locked     decimal.Decimal
	Total      decimal.Decimal
	QuoteValue decimal.Decimal
}

// Result is a full valuation breakdown. Total, Available, and InOrders are
// unrounded quote-currency amounts; callers round for display.
type Result struct {
	Total     decimal.Decimal
	Available decimal.Decimal
	InOrders  decimal.Decimal

	// PerAsset lists every balance with free+locked > 0, including assets
	// whose quote value is zero because no price was known.
	PerAsset []AssetValue

	// BTCEquivalent is Total divided by the BTC/quote price, truncated to 8
	// fractional digits. Valid only when HasBTCEquivalent is true (the price
	// must be present and positive).
	BTCEquivalent    decimal.Decimal
	HasBTCEquivalent bool

	// Unpriced lists assets that contributed zero because no price for
	// asset+quote was found. The omission is silent in the totals; this list
	// lets callers report it.
	Unpriced []string
}

// Value sums the quote-currency worth of the given balances. Per balance with
// free+locked > 0: the quote currency itself counts at face value, pegged
// assets count at face value, and everything else is multiplied by the
// asset+quote price. A missing price contributes zero, silently.
func (c *Calculator) Value(balances []domain.AssetBalance, prices domain.PriceTable) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range balances {
		total := b.Total()
		if !total.IsPositive() {
			continue
		}
		v, _ := c.convert(b.Asset, total, prices)
		sum = sum.Add(v)
	}
	return sum
}

// Breakdown values the balances three ways: as-is for the total, with locked
// amounts zeroed for the available figure, and the difference as the amount
// tied up in orders. It also produces the per-asset rows, the unpriced-asset
// list, and the BTC-equivalent figure when a BTC price is known.
func (c *Calculator) Breakdown(balances []domain.AssetBalance, prices domain.PriceTable) Result {
	res := Result{
		Total:    c.Value(balances, prices),
		PerAsset: []AssetValue{},
		Unpriced: []string{},
	}

	freeOnly := make([]domain.AssetBalance, len(balances))
	for i, b := range balances {
		freeOnly[i] = domain.AssetBalance{Asset: b.Asset, Free: b.Free}
	}
	res.Available = c.Value(freeOnly, prices)
	res.InOrders = res.Total.Sub(res.Available)

	for _, b := range balances {
		total := b.Total()
		if !total.IsPositive() {
			continue
		}
		v, priced := c.convert(b.Asset, total, prices)
		res.PerAsset = append(res.PerAsset, AssetValue{
			Asset:      b.Asset,
			Free:       b.Free,
			Locked:     b.Locked,
			Total:      total,
			QuoteValue: v,
		})
		if !priced {
			res.Unpriced = append(res.Unpriced, b.Asset)
		}
	}

	if btcPrice, ok := prices.Lookup("BTC", c.quote); ok && btcPrice.IsPositive() {
		res.BTCEquivalent = res.Total.Div(btcPrice).Truncate(btcEquivalentPlaces)
		res.HasBTCEquivalent = true
	}

	return res
}

// convert applies the three-way valuation rule to a single asset amount. The
// second return value reports whether a price was known (quote and pegged
// assets always count as priced).
func (c *Calculator) convert(asset string, amount decimal.Decimal, prices domain.PriceTable) (decimal.Decimal, bool) {
	if asset == c.quote {
		return amount, true
	}
	if c.pegged[asset] {
		return amount, true
	}
	if price, ok := prices.Lookup(asset, c.quote); ok {
		return amount.Mul(price), true
	}
	return decimal.Zero, false
}
