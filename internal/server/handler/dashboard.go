package handler

import (
	"log/slog"
	"net/http"
)

// DashboardHandler serves the embedded single-page wallet dashboard.
type DashboardHandler struct {
	logger *slog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{logger: logger}
}

// Index serves the dashboard page.
// GET /
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}
