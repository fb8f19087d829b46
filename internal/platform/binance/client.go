// Package binance is the REST client for the Binance spot API. It covers the
// public price-ticker endpoint plus the signed account and open-orders
// endpoints, and maps exchange failures onto the domain error taxonomy.
package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mugentime/earn-desde-cero/internal/crypto"
	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// DefaultBaseURL is the production Binance spot API root.
const DefaultBaseURL = "https://api.binance.com"

// authErrorCodes are exchange error codes that indicate a bad key or
// signature even when the HTTP status is not 401.
var authErrorCodes = map[int64]bool{
	-1022: true, // signature for this request is not valid
	-2014: true, // API-key format invalid
	-2015: true, // invalid API-key, IP, or permissions for action
}

// Client is the REST client for the Binance spot API.
type Client struct {
	baseURL    string
	auth       *crypto.HMACAuth
	httpClient *http.Client
}

// NewClient creates a new Binance REST client. baseURL is the API root, e.g.
// "https://api.binance.com". The auth credentials may be empty; signed calls
// then fail with domain.ErrNotConfigured before any network I/O.
func NewClient(baseURL string, auth *crypto.HMACAuth, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		auth:    auth,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetPrices returns the current price for every trading pair as a price
// table. This is a public endpoint and needs no credentials.
func (c *Client) GetPrices(ctx context.Context) (domain.PriceTable, error) {
	body, err := c.doGet(ctx, "/api/v3/ticker/price", "")
	if err != nil {
		return nil, fmt.Errorf("binance: get prices: %w", err)
	}

	var tickers []apiTickerPrice
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, fmt.Errorf("binance: decode prices: %w", domain.ErrUnavailable)
	}

	table := make(domain.PriceTable, len(tickers))
	for _, t := range tickers {
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			// One malformed ticker should not sink the whole table.
			continue
		}
		table[t.Symbol] = price
	}
	return table, nil
}

// GetAccount returns the account snapshot: balances, trading flags,
// permissions, and commission fields. Requires signed parameters.
func (c *Client) GetAccount(ctx context.Context) (domain.AccountSnapshot, error) {
	body, err := c.doSignedGet(ctx, "/api/v3/account", crypto.NewParams())
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("binance: get account: %w", err)
	}

	var acct apiAccount
	if err := json.Unmarshal(body, &acct); err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("binance: decode account: %w", domain.ErrUnavailable)
	}

	snap, err := acct.ToDomainSnapshot()
	if err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("binance: account: %v: %w", err, domain.ErrUnavailable)
	}
	return snap, nil
}

// GetOpenOrders returns all resting orders across symbols. Requires signed
// parameters.
func (c *Client) GetOpenOrders(ctx context.Context) ([]domain.OpenOrder, error) {
	body, err := c.doSignedGet(ctx, "/api/v3/openOrders", crypto.NewParams())
	if err != nil {
		return nil, fmt.Errorf("binance: get open orders: %w", err)
	}

	var raw []apiOrder
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("binance: decode open orders: %w", domain.ErrUnavailable)
	}

	orders := make([]domain.OpenOrder, 0, len(raw))
	for i := range raw {
		o, err := raw[i].ToDomainOrder()
		if err != nil {
			return nil, fmt.Errorf("binance: open orders: %v: %w", err, domain.ErrUnavailable)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doSignedGet signs the parameters and performs an authenticated GET. The
// credential check happens before any network I/O.
func (c *Client) doSignedGet(ctx context.Context, path string, params crypto.Params) ([]byte, error) {
	if !c.auth.Configured() {
		return nil, fmt.Errorf("%w: API key and secret are required", domain.ErrNotConfigured)
	}

	signed, err := c.auth.SignParams(params)
	if err != nil {
		return nil, err
	}

	return c.doGet(ctx, path, signed.Encode())
}

// doGet builds, sends, and reads a GET request against the exchange.
// A single attempt is made; retry policy belongs to the caller.
func (c *Client) doGet(ctx context.Context, path, rawQuery string) ([]byte, error) {
	fullURL := c.baseURL + path
	if rawQuery != "" {
		fullURL += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.auth != nil && c.auth.Key != "" {
		req.Header.Set("X-MBX-APIKEY", c.auth.Key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTimeout, path)
		}
		if ctx.Err() != nil {
			// Inbound request aborted; nothing to compensate for.
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrUnavailable, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %s", domain.ErrUnavailable, path)
	}

	if err := checkStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	return respBody, nil
}

// checkStatus maps non-2xx HTTP status codes and exchange error codes to the
// domain error taxonomy. The exchange's message is carried on the error for
// the 400 path but never includes our key or signature.
func checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr apiError
	_ = json.Unmarshal(body, &apiErr)
	if apiErr.Msg == "" {
		apiErr.Msg = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized || authErrorCodes[apiErr.Code]:
		return &domain.UpstreamError{Kind: domain.ErrUnauthorized, Code: apiErr.Code, Msg: apiErr.Msg}
	case statusCode == http.StatusForbidden:
		return &domain.UpstreamError{Kind: domain.ErrPermission, Code: apiErr.Code, Msg: apiErr.Msg}
	case statusCode == http.StatusTooManyRequests || statusCode == http.StatusTeapot:
		// 418 is the exchange's auto-ban status for repeat offenders.
		return &domain.UpstreamError{Kind: domain.ErrRateLimited, Code: apiErr.Code, Msg: apiErr.Msg}
	case statusCode >= 400 && statusCode < 500:
		return &domain.UpstreamError{Kind: domain.ErrRejected, Code: apiErr.Code, Msg: apiErr.Msg}
	default:
		return &domain.UpstreamError{Kind: domain.ErrUnavailable, Code: apiErr.Code, Msg: apiErr.Msg}
	}
}
