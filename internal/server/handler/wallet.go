package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mugentime/earn-desde-cero/internal/domain"
	"github.com/mugentime/earn-desde-cero/internal/service"
)

// displayPlaces is the rounding applied to quote-currency amounts for
// display. The BTC-equivalent figure is truncated to 8 digits by the
// calculator instead; the asymmetry matches the dashboard this API feeds.
const displayPlaces = 2

// WalletService defines the methods that the wallet handler requires from the
// service layer. It is declared locally so the handler package does not
// depend on the concrete service implementation.
type WalletService interface {
	Report(ctx context.Context) (service.WalletReport, error)
	OpenOrders(ctx context.Context) ([]domain.OpenOrder, error)
	Fees(ctx context.Context) (domain.CommissionRates, error)
}

// WalletHandler serves the wallet valuation endpoints.
type WalletHandler struct {
	wallet WalletService
	quote  string
	logger *slog.Logger
}

// NewWalletHandler creates a WalletHandler with the given service and logger.
func NewWalletHandler(wallet WalletService, quote string, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		wallet: wallet,
		quote:  quote,
		logger: logger,
	}
}

// assetRow is one asset's entry in the balance response.
type assetRow struct {
	Asset      string `json:"asset"`
	Free       string `json:"free"`
	Locked     string `json:"locked"`
	Total      string `json:"total"`
	QuoteValue string `json:"quoteValue"`
}

// balanceResponse is the wallet valuation payload.
type balanceResponse struct {
	Total             string     `json:"total"`
	Available         string     `json:"available"`
	InOrders          string     `json:"inOrders"`
	QuoteCurrency     string     `json:"quoteCurrency"`
	BTCEquivalent     string     `json:"btcEquivalent,omitempty"`
	Assets            []assetRow `json:"assets"`
	Unpriced          []string   `json:"unpriced"`
	CanTrade          bool       `json:"canTrade"`
	CanWithdraw       bool       `json:"canWithdraw"`
	CanDeposit        bool       `json:"canDeposit"`
	Permissions       []string   `json:"permissions"`
	ExchangeTimestamp int64      `json:"exchangeTimestamp"`
}

// Balance returns the portfolio valuation with pass-through account flags.
// GET /api/wallet/balance
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	report, err := h.wallet.Report(r.Context())
	if err != nil {
		writeUpstreamError(w, r, h.logger, err)
		return
	}

	res := report.Result
	resp := balanceResponse{
		Total:             res.Total.StringFixed(displayPlaces),
		Available:         res.Available.StringFixed(displayPlaces),
		InOrders:          res.InOrders.StringFixed(displayPlaces),
		QuoteCurrency:     h.quote,
		Assets:            make([]assetRow, 0, len(res.PerAsset)),
		Unpriced:          res.Unpriced,
		CanTrade:          report.Snapshot.CanTrade,
		CanWithdraw:       report.Snapshot.CanWithdraw,
		CanDeposit:        report.Snapshot.CanDeposit,
		Permissions:       report.Snapshot.Permissions,
		ExchangeTimestamp: report.Snapshot.UpdateTime,
	}
	if res.HasBTCEquivalent {
		resp.BTCEquivalent = res.BTCEquivalent.StringFixed(8)
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}

	for _, av := range res.PerAsset {
		resp.Assets = append(resp.Assets, assetRow{
			Asset:      av.Asset,
			Free:       av.Free.String(),
			Locked:     av.Locked.String(),
			Total:      av.Total.String(),
			QuoteValue: av.QuoteValue.StringFixed(displayPlaces),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// ordersResponse wraps the open-orders list with its count.
type ordersResponse struct {
	Orders []domain.OpenOrder `json:"orders"`
	Count  int                `json:"count"`
}

// Orders returns all resting orders on the exchange.
// GET /api/wallet/orders
func (h *WalletHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.wallet.OpenOrders(r.Context())
	if err != nil {
		writeUpstreamError(w, r, h.logger, err)
		return
	}
	if orders == nil {
		orders = []domain.OpenOrder{}
	}

	writeJSON(w, http.StatusOK, ordersResponse{
		Orders: orders,
		Count:  len(orders),
	})
}

// Fees returns the account's commission rates as fractions.
// GET /api/wallet/fees
func (h *WalletHandler) Fees(w http.ResponseWriter, r *http.Request) {
	rates, err := h.wallet.Fees(r.Context())
	if err != nil {
		writeUpstreamError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, rates)
}
