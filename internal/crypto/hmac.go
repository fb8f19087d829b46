// Package crypto provides request signing and secret management for the
// Binance REST API. Private endpoints require every request's query string to
// carry a millisecond timestamp and a lowercase-hex HMAC-SHA256 signature
// computed over the encoded parameters with the API secret as the key.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// Params is an ordered collection of request parameters. Unlike url.Values it
// preserves insertion order, which matters because the signature is computed
// over the exact encoded string that is sent on the wire.
type Params struct {
	pairs []pair
}

type pair struct {
	key   string
	value string
}

// NewParams returns an empty parameter set.
func NewParams() Params {
	return Params{}
}

// Set replaces the value of key in place if present, otherwise appends it.
func (p *Params) Set(key, value string) {
	for i := range p.pairs {
		if p.pairs[i].key == key {
			p.pairs[i].value = value
			return
		}
	}
	p.pairs = append(p.pairs, pair{key: key, value: value})
}

// Add appends key with value without replacing an existing entry.
func (p *Params) Add(key, value string) {
	p.pairs = append(p.pairs, pair{key: key, value: value})
}

// Get returns the value for key, or "" when absent.
func (p Params) Get(key string) string {
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value
		}
	}
	return ""
}

// Del removes key if present.
func (p *Params) Del(key string) {
	for i, kv := range p.pairs {
		if kv.key == key {
			p.pairs = append(p.pairs[:i], p.pairs[i+1:]...)
			return
		}
	}
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.pairs)
}

// Encode serializes the parameters as a URL-encoded query string in insertion
// order.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.value))
	}
	return sb.String()
}

// HMACAuth holds the credentials for HMAC-authenticated requests against the
// exchange's private endpoints.
type HMACAuth struct {
	Key    string // API key, sent as the X-MBX-APIKEY header
	Secret string // API secret, the HMAC key

	// Now returns the current time in epoch milliseconds. Nil means wall
	// clock; tests inject a fixed value.
	Now func() int64
}

// Configured reports whether both credentials are present.
func (h *HMACAuth) Configured() bool {
	return h != nil && h.Key != "" && h.Secret != ""
}

// SignParams returns a copy of p with any prior signature stripped, a
// timestamp field injected from the clock, and a signature field appended:
// lowercase-hex HMAC-SHA256 over the encoded parameter string keyed by the
// secret. The credential check happens before any computation.
func (h *HMACAuth) SignParams(p Params) (Params, error) {
	if h == nil || h.Secret == "" {
		return Params{}, fmt.Errorf("%w: API secret is empty", domain.ErrNotConfigured)
	}
	return h.SignParamsAt(p, h.nowMilli())
}

// SignParamsAt is like SignParams but signs with the supplied epoch
// millisecond timestamp (useful for deterministic testing).
func (h *HMACAuth) SignParamsAt(p Params, unixMilli int64) (Params, error) {
	if h == nil || h.Secret == "" {
		return Params{}, fmt.Errorf("%w: API secret is empty", domain.ErrNotConfigured)
	}

	signed := Params{pairs: make([]pair, len(p.pairs))}
	copy(signed.pairs, p.pairs)
	signed.Del("signature")
	signed.Set("timestamp", strconv.FormatInt(unixMilli, 10))

	mac := hmac.New(sha256.New, []byte(h.Secret))
	mac.Write([]byte(signed.Encode()))
	signed.Set("signature", hex.EncodeToString(mac.Sum(nil)))

	return signed, nil
}

func (h *HMACAuth) nowMilli() int64 {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UnixMilli()
}

// String returns a redacted representation suitable for logging.
func (h *HMACAuth) String() string {
	redact := func(s string) string {
		if len(s) <= 4 {
			return "****"
		}
		return s[:4] + "****"
	}
	return fmt.Sprintf("HMACAuth{key=%s, secret=%s}", redact(h.Key), redact(h.Secret))
}
