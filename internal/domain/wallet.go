// Package domain defines the core types shared across the wallet valuation
// server: balances, price tables, account snapshots, cache interfaces, and
// the error taxonomy used at every boundary.
package domain

import "github.com/shopspring/decimal"

// AssetBalance is one asset's holdings on the exchange. Constructed fresh
// from each account response and never mutated.
type AssetBalance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

// Total returns free + locked.
func (b AssetBalance) Total() decimal.Decimal {
	return b.Free.Add(b.Locked)
}

// PriceTable maps trading-pair symbols (base asset + quote asset, e.g.
// "ETHUSDT") to last prices. Refreshed per request unless cached.
type PriceTable map[string]decimal.Decimal

// Lookup returns the price for the pair formed by base and quote.
func (p PriceTable) Lookup(base, quote string) (decimal.Decimal, bool) {
	price, ok := p[base+quote]
	return price, ok
}

// AccountSnapshot is the exchange's view of the account at one moment:
// balances plus the account flags and commission fields the account endpoint
// reports alongside them.
type AccountSnapshot struct {
	Balances    []AssetBalance
	CanTrade    bool
	CanWithdraw bool
	CanDeposit  bool
	AccountType string
	Permissions []string

	// Commission fields in the exchange's raw basis-point-like units
	// (divide by 10000 for the fractional rate).
	MakerCommission  int64
	TakerCommission  int64
	BuyerCommission  int64
	SellerCommission int64

	// UpdateTime is the exchange-reported snapshot time in epoch milliseconds.
	UpdateTime int64
}

// CommissionRates are the account's commission fields converted to fractions.
type CommissionRates struct {
	Maker  float64 `json:"makerCommission"`
	Taker  float64 `json:"takerCommission"`
	Buyer  float64 `json:"buyerCommission"`
	Seller float64 `json:"sellerCommission"`
}

// OpenOrder is one resting order on the exchange.
type OpenOrder struct {
	Symbol        string          `json:"symbol"`
	OrderID       int64           `json:"orderId"`
	ClientOrderID string          `json:"clientOrderId"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Price         decimal.Decimal `json:"price"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	Time          int64           `json:"time"`
}
