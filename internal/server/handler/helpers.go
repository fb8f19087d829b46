package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mugentime/earn-desde-cero/internal/domain"
)

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUpstreamError maps an error from the service layer onto the HTTP
// surface. Auth failures never echo the key or signature; unknown failures
// surface a generic message while the detail goes to the log only.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.ErrorContext(r.Context(), "handler: exchange request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)

	var ue *domain.UpstreamError

	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "exchange API credentials are not configured")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid API key or signature")
	case errors.Is(err, domain.ErrPermission):
		writeError(w, http.StatusForbidden, "API key lacks the required permissions")
	case errors.Is(err, domain.ErrRejected):
		// Pass the exchange's own message through on the 400 path.
		msg := "request rejected by exchange"
		if errors.As(err, &ue) && ue.Msg != "" {
			msg = ue.Msg
		}
		writeError(w, http.StatusBadRequest, msg)
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate limited by exchange")
	default:
		writeError(w, http.StatusInternalServerError, "exchange request failed")
	}
}
