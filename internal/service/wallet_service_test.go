package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mugentime/earn-desde-cero/internal/domain"
	"github.com/mugentime/earn-desde-cero/internal/valuation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// stubExchange implements Exchange with canned responses and call counters.
type stubExchange struct {
	prices     domain.PriceTable
	pricesErr  error
	account    domain.AccountSnapshot
	accountErr error
	orders     []domain.OpenOrder
	ordersErr  error

	priceCalls   int
	accountCalls int
}

func (s *stubExchange) GetPrices(ctx context.Context) (domain.PriceTable, error) {
	s.priceCalls++
	return s.prices, s.pricesErr
}

func (s *stubExchange) GetAccount(ctx context.Context) (domain.AccountSnapshot, error) {
	s.accountCalls++
	return s.account, s.accountErr
}

func (s *stubExchange) GetOpenOrders(ctx context.Context) ([]domain.OpenOrder, error) {
	return s.orders, s.ordersErr
}

func newTestService(ex *stubExchange) *WalletService {
	calc := valuation.New("USDT", []string{"BUSD"})
	return NewWalletService(ex, NewDirectPriceSource(ex), calc, testLogger())
}

func TestReport(t *testing.T) {
	ex := &stubExchange{
		prices: domain.PriceTable{"BTCUSDT": dec("30000")},
		account: domain.AccountSnapshot{
			Balances: []domain.AssetBalance{
				{Asset: "BTC", Free: dec("0.5"), Locked: dec("0.1")},
				{Asset: "USDT", Free: dec("100")},
			},
			CanTrade:   true,
			UpdateTime: 1700000000000,
		},
	}

	report, err := newTestService(ex).Report(context.Background())
	require.NoError(t, err)

	require.Equal(t, "18100.00", report.Result.Total.StringFixed(2))
	require.Equal(t, "15100.00", report.Result.Available.StringFixed(2))
	require.Equal(t, "3000.00", report.Result.InOrders.StringFixed(2))
	require.True(t, report.Snapshot.CanTrade)
	require.Equal(t, int64(1700000000000), report.Snapshot.UpdateTime)
	require.Equal(t, 1, ex.priceCalls)
	require.Equal(t, 1, ex.accountCalls)
}

func TestReportPriceFetchFailureSkipsAccountCall(t *testing.T) {
	ex := &stubExchange{pricesErr: domain.ErrUnavailable}

	_, err := newTestService(ex).Report(context.Background())
	require.ErrorIs(t, err, domain.ErrUnavailable)
	require.Equal(t, 0, ex.accountCalls, "calls are sequential; the second never starts")
}

func TestReportAccountFetchFailure(t *testing.T) {
	ex := &stubExchange{
		prices:     domain.PriceTable{},
		accountErr: domain.ErrUnauthorized,
	}

	_, err := newTestService(ex).Report(context.Background())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFees(t *testing.T) {
	ex := &stubExchange{
		account: domain.AccountSnapshot{
			MakerCommission:  10,
			TakerCommission:  15,
			BuyerCommission:  0,
			SellerCommission: 25,
		},
	}

	rates, err := newTestService(ex).Fees(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 0.001, rates.Maker, 1e-12)
	require.InDelta(t, 0.0015, rates.Taker, 1e-12)
	require.InDelta(t, 0.0, rates.Buyer, 1e-12)
	require.InDelta(t, 0.0025, rates.Seller, 1e-12)
}

func TestOpenOrders(t *testing.T) {
	ex := &stubExchange{
		orders: []domain.OpenOrder{{Symbol: "BTCUSDT", OrderID: 1}},
	}

	orders, err := newTestService(ex).OpenOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

// fakePriceCache is an in-memory domain.PriceTableCache.
type fakePriceCache struct {
	table     domain.PriceTable
	fetchedAt time.Time
	getErr    error
	setErr    error
	setCalls  int
}

func (f *fakePriceCache) Get(ctx context.Context) (domain.PriceTable, time.Time, error) {
	if f.getErr != nil {
		return nil, time.Time{}, f.getErr
	}
	if f.table == nil {
		return nil, time.Time{}, domain.ErrNotFound
	}
	return f.table, f.fetchedAt, nil
}

func (f *fakePriceCache) Set(ctx context.Context, table domain.PriceTable) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls++
	f.table = table
	f.fetchedAt = time.Now()
	return nil
}

func TestCachedPriceSourceFreshHit(t *testing.T) {
	ex := &stubExchange{prices: domain.PriceTable{"BTCUSDT": dec("2")}}
	cache := &fakePriceCache{
		table:     domain.PriceTable{"BTCUSDT": dec("1")},
		fetchedAt: time.Now(),
	}
	src := NewCachedPriceSource(ex, cache, time.Minute, testLogger())

	table, err := src.Prices(context.Background())
	require.NoError(t, err)
	require.True(t, table["BTCUSDT"].Equal(dec("1")), "fresh cache served without fetching")
	require.Equal(t, 0, ex.priceCalls)
}

func TestCachedPriceSourceStaleRefetch(t *testing.T) {
	ex := &stubExchange{prices: domain.PriceTable{"BTCUSDT": dec("2")}}
	cache := &fakePriceCache{
		table:     domain.PriceTable{"BTCUSDT": dec("1")},
		fetchedAt: time.Now().Add(-time.Hour),
	}
	src := NewCachedPriceSource(ex, cache, time.Minute, testLogger())

	table, err := src.Prices(context.Background())
	require.NoError(t, err)
	require.True(t, table["BTCUSDT"].Equal(dec("2")), "stale cache triggers a refetch")
	require.Equal(t, 1, ex.priceCalls)
	require.Equal(t, 1, cache.setCalls, "fresh table written back")
}

func TestCachedPriceSourceMissAndWriteBackFailure(t *testing.T) {
	ex := &stubExchange{prices: domain.PriceTable{"BTCUSDT": dec("2")}}
	cache := &fakePriceCache{setErr: errors.New("redis down")}
	src := NewCachedPriceSource(ex, cache, time.Minute, testLogger())

	// A failed write-back must not fail the request.
	table, err := src.Prices(context.Background())
	require.NoError(t, err)
	require.True(t, table["BTCUSDT"].Equal(dec("2")))
}

func TestCachedPriceSourceReadFailureFallsThrough(t *testing.T) {
	ex := &stubExchange{prices: domain.PriceTable{"BTCUSDT": dec("2")}}
	cache := &fakePriceCache{getErr: errors.New("redis down")}
	src := NewCachedPriceSource(ex, cache, time.Minute, testLogger())

	table, err := src.Prices(context.Background())
	require.NoError(t, err)
	require.True(t, table["BTCUSDT"].Equal(dec("2")))
	require.Equal(t, 1, ex.priceCalls)
}
