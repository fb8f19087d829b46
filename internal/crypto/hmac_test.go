package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// Credentials from the exchange's API documentation example.
const (
	docsAPIKey = "vmPUZE6mv9SD5VNHk4HlWFsOr6aKE2zvsw0MuIgwCIPy6utIco14y7Ju91duEh8A"
	docsSecret = "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e33UwrQ6ssUiMm7"
)

func docsParams() Params {
	p := NewParams()
	p.Set("symbol", "LTCBTC")
	p.Set("side", "BUY")
	p.Set("type", "LIMIT")
	p.Set("timeInForce", "GTC")
	p.Set("quantity", "1")
	p.Set("price", "0.1")
	p.Set("recvWindow", "5000")
	return p
}

func TestSignParamsKnownVector(t *testing.T) {
	auth := &HMACAuth{Key: docsAPIKey, Secret: docsSecret}

	signed, err := auth.SignParamsAt(docsParams(), 1499827319559)
	require.NoError(t, err)

	require.Equal(t, "1499827319559", signed.Get("timestamp"))
	require.Equal(t,
		"6ed445b1dd5c925b4dce019bce626ca30f498a1a81f5c348d5db5d17895e1875",
		signed.Get("signature"),
	)
	require.Equal(t,
		"symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559&signature=6ed445b1dd5c925b4dce019bce626ca30f498a1a81f5c348d5db5d17895e1875",
		signed.Encode(),
	)
}

func TestSignParamsEmptySet(t *testing.T) {
	auth := &HMACAuth{Secret: "secret"}

	signed, err := auth.SignParamsAt(NewParams(), 1700000000000)
	require.NoError(t, err)

	require.Equal(t, "1700000000000", signed.Get("timestamp"))
	require.Equal(t,
		"d615d05216c634afd48df5e1fc52c0d95b77892f19502e1b619f391bc9d68205",
		signed.Get("signature"),
	)
}

func TestSignParamsUsesInjectedClock(t *testing.T) {
	auth := &HMACAuth{Secret: docsSecret, Now: func() int64 { return 1499827319559 }}

	signed, err := auth.SignParams(docsParams())
	require.NoError(t, err)

	want, err := auth.SignParamsAt(docsParams(), 1499827319559)
	require.NoError(t, err)
	require.Equal(t, want.Encode(), signed.Encode())
}

func TestSignParamsDeterministicAndSensitive(t *testing.T) {
	auth := &HMACAuth{Secret: docsSecret}

	a, err := auth.SignParamsAt(docsParams(), 1499827319559)
	require.NoError(t, err)
	b, err := auth.SignParamsAt(docsParams(), 1499827319559)
	require.NoError(t, err)
	require.Equal(t, a.Get("signature"), b.Get("signature"))

	changed := docsParams()
	changed.Set("quantity", "2")
	c, err := auth.SignParamsAt(changed, 1499827319559)
	require.NoError(t, err)
	require.NotEqual(t, a.Get("signature"), c.Get("signature"))

	d, err := auth.SignParamsAt(docsParams(), 1499827319560)
	require.NoError(t, err)
	require.NotEqual(t, a.Get("signature"), d.Get("signature"))
}

func TestSignParamsStripsPriorSignature(t *testing.T) {
	auth := &HMACAuth{Secret: docsSecret}

	clean, err := auth.SignParamsAt(docsParams(), 1499827319559)
	require.NoError(t, err)

	// Signing already-signed params must give the same result.
	resigned, err := auth.SignParamsAt(clean, 1499827319559)
	require.NoError(t, err)
	require.Equal(t, clean.Encode(), resigned.Encode())
}

func TestSignParamsEmptySecret(t *testing.T) {
	auth := &HMACAuth{Key: "key"}

	_, err := auth.SignParams(docsParams())
	require.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = auth.SignParams(NewParams())
	require.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = auth.SignParamsAt(NewParams(), 1499827319559)
	require.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSignParamsDoesNotMutateInput(t *testing.T) {
	auth := &HMACAuth{Secret: "secret"}

	p := docsParams()
	before := p.Encode()
	_, err := auth.SignParamsAt(p, 1)
	require.NoError(t, err)
	require.Equal(t, before, p.Encode())
}

func TestParamsEncode(t *testing.T) {
	p := NewParams()
	p.Set("b", "2")
	p.Set("a", "1")
	require.Equal(t, "b=2&a=1", p.Encode(), "insertion order is preserved")

	p.Set("b", "3")
	require.Equal(t, "b=3&a=1", p.Encode(), "Set replaces in place")

	p.Set("note", "a b&c=d")
	require.Equal(t, "b=3&a=1&note=a+b%26c%3Dd", p.Encode(), "values are URL-escaped")

	p.Del("a")
	require.Equal(t, "b=3&note=a+b%26c%3Dd", p.Encode())
	require.Equal(t, 2, p.Len())
	require.Equal(t, "", p.Get("a"))

	p.Add("b", "4")
	require.Equal(t, "b=3&note=a+b%26c%3Dd&b=4", p.Encode(), "Add appends without replacing")
}

func TestHMACAuthStringRedacts(t *testing.T) {
	auth := &HMACAuth{Key: docsAPIKey, Secret: docsSecret}
	s := auth.String()
	require.NotContains(t, s, docsSecret)
	require.NotContains(t, s, docsAPIKey)
	require.Contains(t, s, "****")
}
