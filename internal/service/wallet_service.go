// Package service contains the use-case orchestration between the exchange
// client, the optional price cache, and the valuation calculator.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mugentime/earn-desde-cero/internal/domain"
	"github.com/mugentime/earn-desde-cero/internal/valuation"
)

const commissionDivisor = 10000.0

// Exchange defines what the wallet service needs from the exchange client.
type Exchange interface {
	GetPrices(ctx context.Context) (domain.PriceTable, error)
	GetAccount(ctx context.Context) (domain.AccountSnapshot, error)
	GetOpenOrders(ctx context.Context) ([]domain.OpenOrder, error)
}

// PriceSource supplies the price table used for valuation. Implementations
// may fetch directly from the exchange or serve a cached table.
type PriceSource interface {
	Prices(ctx context.Context) (domain.PriceTable, error)
}

// WalletReport is a valuation breakdown together with the account snapshot it
// was computed from.
type WalletReport struct {
	Result   valuation.Result
	Snapshot domain.AccountSnapshot
}

// WalletService aggregates account balances and market prices into a
// portfolio valuation. It holds no mutable state and is safe for concurrent
// use.
type WalletService struct {
	exchange Exchange
	prices   PriceSource
	calc     *valuation.Calculator
	logger   *slog.Logger
}

// NewWalletService creates a WalletService.
func NewWalletService(exchange Exchange, prices PriceSource, calc *valuation.Calculator, logger *slog.Logger) *WalletService {
	return &WalletService{
		exchange: exchange,
		prices:   prices,
		calc:     calc,
		logger:   logger.With(slog.String("component", "wallet_service")),
	}
}

// Report fetches prices and then the account snapshot, sequentially (the
// valuation needs both), and produces the wallet report.
func (s *WalletService) Report(ctx context.Context) (WalletReport, error) {
	prices, err := s.prices.Prices(ctx)
	if err != nil {
		return WalletReport{}, fmt.Errorf("wallet: fetch prices: %w", err)
	}

	snap, err := s.exchange.GetAccount(ctx)
	if err != nil {
		return WalletReport{}, fmt.Errorf("wallet: fetch account: %w", err)
	}

	res := s.calc.Breakdown(snap.Balances, prices)
	if len(res.Unpriced) > 0 {
		s.logger.DebugContext(ctx, "assets without a price counted as zero",
			slog.Any("assets", res.Unpriced),
			slog.String("quote", s.calc.Quote()),
		)
	}

	return WalletReport{Result: res, Snapshot: snap}, nil
}

// OpenOrders returns all resting orders on the exchange.
func (s *WalletService) OpenOrders(ctx context.Context) ([]domain.OpenOrder, error) {
	orders, err := s.exchange.GetOpenOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: fetch open orders: %w", err)
	}
	return orders, nil
}

// Fees returns the account's commission fields converted from the exchange's
// raw units to fractional rates.
func (s *WalletService) Fees(ctx context.Context) (domain.CommissionRates, error) {
	snap, err := s.exchange.GetAccount(ctx)
	if err != nil {
		return domain.CommissionRates{}, fmt.Errorf("wallet: fetch account: %w", err)
	}
	return domain.CommissionRates{
		Maker:  float64(snap.MakerCommission) / commissionDivisor,
		Taker:  float64(snap.TakerCommission) / commissionDivisor,
		Buyer:  float64(snap.BuyerCommission) / commissionDivisor,
		Seller: float64(snap.SellerCommission) / commissionDivisor,
	}, nil
}
