package binance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// --------------------------------------------------------------------------
// REST API DTOs
// --------------------------------------------------------------------------

// apiTickerPrice is one entry of GET /api/v3/ticker/price.
type apiTickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// apiBalance is one balance entry of GET /api/v3/account.
type apiBalance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// ToDomainBalance converts an apiBalance to a domain.AssetBalance.
func (b *apiBalance) ToDomainBalance() (domain.AssetBalance, error) {
	free, err := decimal.NewFromString(b.Free)
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("balance %s: parse free %q: %w", b.Asset, b.Free, err)
	}
	locked, err := decimal.NewFromString(b.Locked)
	if err != nil {
		return domain.AssetBalance{}, fmt.Errorf("balance %s: parse locked %q: %w", b.Asset, b.Locked, err)
	}
	return domain.AssetBalance{Asset: b.Asset, Free: free, Locked: locked}, nil
}

// apiAccount is the response of GET /api/v3/account.
type apiAccount struct {
	MakerCommission  int64        `json:"makerCommission"`
	TakerCommission  int64        `json:"takerCommission"`
	BuyerCommission  int64        `json:"buyerCommission"`
	SellerCommission int64        `json:"sellerCommission"`
	CanTrade         bool         `json:"canTrade"`
	CanWithdraw      bool         `json:"canWithdraw"`
	CanDeposit       bool         `json:"canDeposit"`
	UpdateTime       int64        `json:"updateTime"`
	AccountType      string       `json:"accountType"`
	Balances         []apiBalance `json:"balances"`
	Permissions      []string     `json:"permissions"`
}

// ToDomainSnapshot converts an apiAccount to a domain.AccountSnapshot.
func (a *apiAccount) ToDomainSnapshot() (domain.AccountSnapshot, error) {
	snap := domain.AccountSnapshot{
		Balances:         make([]domain.AssetBalance, 0, len(a.Balances)),
		CanTrade:         a.CanTrade,
		CanWithdraw:      a.CanWithdraw,
		CanDeposit:       a.CanDeposit,
		AccountType:      a.AccountType,
		Permissions:      a.Permissions,
		MakerCommission:  a.MakerCommission,
		TakerCommission:  a.TakerCommission,
		BuyerCommission:  a.BuyerCommission,
		SellerCommission: a.SellerCommission,
		UpdateTime:       a.UpdateTime,
	}
	for i := range a.Balances {
		b, err := a.Balances[i].ToDomainBalance()
		if err != nil {
			return domain.AccountSnapshot{}, err
		}
		snap.Balances = append(snap.Balances, b)
	}
	return snap, nil
}

// apiOrder is one entry of GET /api/v3/openOrders.
type apiOrder struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	Time          int64  `json:"time"`
}

// ToDomainOrder converts an apiOrder to a domain.OpenOrder.
func (o *apiOrder) ToDomainOrder() (domain.OpenOrder, error) {
	price, err := decimal.NewFromString(o.Price)
	if err != nil {
		return domain.OpenOrder{}, fmt.Errorf("order %d: parse price %q: %w", o.OrderID, o.Price, err)
	}
	origQty, err := decimal.NewFromString(o.OrigQty)
	if err != nil {
		return domain.OpenOrder{}, fmt.Errorf("order %d: parse origQty %q: %w", o.OrderID, o.OrigQty, err)
	}
	executedQty, err := decimal.NewFromString(o.ExecutedQty)
	if err != nil {
		return domain.OpenOrder{}, fmt.Errorf("order %d: parse executedQty %q: %w", o.OrderID, o.ExecutedQty, err)
	}
	return domain.OpenOrder{
		Symbol:        o.Symbol,
		OrderID:       o.OrderID,
		ClientOrderID: o.ClientOrderID,
		Side:          o.Side,
		Type:          o.Type,
		Status:        o.Status,
		Price:         price,
		OrigQty:       origQty,
		ExecutedQty:   executedQty,
		Time:          o.Time,
	}, nil
}

// apiError is the exchange's structured error body, e.g.
// {"code":-1121,"msg":"Invalid symbol."}.
type apiError struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}
