package handler

import (
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler serves the health-check endpoint. It never fails: with no
// credentials configured it still answers 200 and reports both flags false.
type HealthHandler struct {
	apiKeySet    bool
	secretKeySet bool
	startedAt    time.Time
	logger       *slog.Logger
}

// NewHealthHandler creates a HealthHandler that reports whether each
// credential was configured at startup.
func NewHealthHandler(apiKeySet, secretKeySet bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		apiKeySet:    apiKeySet,
		secretKeySet: secretKeySet,
		startedAt:    time.Now(),
		logger:       logger,
	}
}

// HealthCheck responds with the server status and credential flags.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
		"apiKeyConfigured":    h.apiKeySet,
		"secretKeyConfigured": h.secretKeySet,
		"uptimeSeconds":       int64(time.Since(h.startedAt).Seconds()),
	})
}
