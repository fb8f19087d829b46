package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("exchange credentials not configured")
	ErrUnauthorized  = errors.New("invalid API key or signature")
	ErrPermission    = errors.New("insufficient API key permissions")
	ErrRejected      = errors.New("request rejected by exchange")
	ErrRateLimited   = errors.New("rate limited")
	ErrTimeout       = errors.New("exchange request timed out")
	ErrUnavailable   = errors.New("exchange unavailable")
	ErrNotFound      = errors.New("not found")
)

// UpstreamError wraps one of the sentinel errors above together with the
// structured message and numeric code the exchange returned, so callers can
// surface the exchange's own wording without parsing error chains.
type UpstreamError struct {
	Kind error // one of the sentinels above
	Code int64 // exchange error code, e.g. -1121
	Msg  string
}

func (e *UpstreamError) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Kind.Error(), e.Msg, e.Code)
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}
