package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mugentime/earn-desde-cero/internal/crypto"
	"github.com/mugentime/earn-desde-cero/internal/domain"
)

const (
	testAPIKey = "test-api-key"
	testSecret = "test-secret"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	auth := &crypto.HMACAuth{Key: testAPIKey, Secret: testSecret}
	return NewClient(srv.URL, auth, 5*time.Second)
}

func TestGetPrices(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		require.Empty(t, r.URL.RawQuery, "public endpoint is not signed")
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","price":"30000.00000000"},
			{"symbol":"ETHUSDT","price":"2000.50000000"},
			{"symbol":"BROKEN","price":"not-a-number"}
		]`))
	})

	table, err := c.GetPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 2, "malformed tickers are skipped")

	price, ok := table.Lookup("BTC", "USDT")
	require.True(t, ok)
	require.Equal(t, "30000.00", price.StringFixed(2))
}

func TestGetAccountSignsRequest(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/account", r.URL.Path)
		require.Equal(t, testAPIKey, r.Header.Get("X-MBX-APIKEY"))

		q := r.URL.Query()
		require.NotEmpty(t, q.Get("timestamp"))
		sig := q.Get("signature")
		require.NotEmpty(t, sig)

		// Recompute the signature over everything before "&signature=".
		raw := r.URL.RawQuery
		idx := strings.Index(raw, "&signature=")
		require.Greater(t, idx, 0)
		mac := hmac.New(sha256.New, []byte(testSecret))
		mac.Write([]byte(raw[:idx]))
		require.Equal(t, hex.EncodeToString(mac.Sum(nil)), sig)

		w.Write([]byte(`{
			"makerCommission":10,"takerCommission":15,
			"buyerCommission":0,"sellerCommission":0,
			"canTrade":true,"canWithdraw":true,"canDeposit":false,
			"updateTime":1700000000000,"accountType":"SPOT",
			"balances":[
				{"asset":"BTC","free":"0.5","locked":"0.1"},
				{"asset":"USDT","free":"100","locked":"0"}
			],
			"permissions":["SPOT"]
		}`))
	})

	snap, err := c.GetAccount(context.Background())
	require.NoError(t, err)
	require.True(t, snap.CanTrade)
	require.False(t, snap.CanDeposit)
	require.Equal(t, int64(1700000000000), snap.UpdateTime)
	require.Equal(t, int64(10), snap.MakerCommission)
	require.Equal(t, []string{"SPOT"}, snap.Permissions)
	require.Len(t, snap.Balances, 2)
	require.Equal(t, "BTC", snap.Balances[0].Asset)
	require.Equal(t, "0.6", snap.Balances[0].Total().String())
}

func TestGetOpenOrders(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/openOrders", r.URL.Path)
		w.Write([]byte(`[{
			"symbol":"BTCUSDT","orderId":42,"clientOrderId":"abc",
			"price":"29000.00","origQty":"0.10","executedQty":"0.02",
			"status":"PARTIALLY_FILLED","type":"LIMIT","side":"BUY",
			"time":1700000000000
		}]`))
	})

	orders, err := c.GetOpenOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, int64(42), orders[0].OrderID)
	require.Equal(t, "BUY", orders[0].Side)
	require.Equal(t, "0.1", orders[0].OrigQty.String())
}

func TestSignedCallWithoutCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, &crypto.HMACAuth{}, time.Second)

	_, err := c.GetAccount(context.Background())
	require.ErrorIs(t, err, domain.ErrNotConfigured)
	require.False(t, called, "credential check must happen before any network I/O")
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"code":-2015,"msg":"Invalid API-key."}`, domain.ErrUnauthorized},
		{"auth code on 400", http.StatusBadRequest, `{"code":-1022,"msg":"Signature for this request is not valid."}`, domain.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{"code":-2010,"msg":"This action is disabled on this account."}`, domain.ErrPermission},
		{"rate limited", http.StatusTooManyRequests, `{"code":-1003,"msg":"Too many requests."}`, domain.ErrRateLimited},
		{"banned", http.StatusTeapot, `{"code":-1003,"msg":"Way too many requests."}`, domain.ErrRateLimited},
		{"bad request", http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`, domain.ErrRejected},
		{"server error", http.StatusInternalServerError, ``, domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GetAccount(context.Background())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRejectedErrorCarriesExchangeMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	_, err := c.GetAccount(context.Background())
	require.ErrorIs(t, err, domain.ErrRejected)

	var ue *domain.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "Invalid symbol.", ue.Msg)
	require.Equal(t, int64(-1121), ue.Code)
}

func TestTimeout(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	c.httpClient.Timeout = 20 * time.Millisecond

	_, err := c.GetPrices(context.Background())
	require.ErrorIs(t, err, domain.ErrTimeout)
}

func TestUnrecognizedResponseShape(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	})

	_, err := c.GetPrices(context.Background())
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestSignedQueryIsWellFormed(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		vals, err := url.ParseQuery(r.URL.RawQuery)
		require.NoError(t, err)
		require.Len(t, vals["timestamp"], 1)
		require.Len(t, vals["signature"], 1)
		w.Write([]byte(`[]`))
	})

	_, err := c.GetOpenOrders(context.Background())
	require.NoError(t, err)
}
