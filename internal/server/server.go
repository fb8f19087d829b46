// Package server assembles the HTTP surface: routes, middleware chain, and
// the http.Server lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mugentime/earn-desde-cero/internal/domain"
	"github.com/mugentime/earn-desde-cero/internal/server/handler"
	"github.com/mugentime/earn-desde-cero/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // if empty, authentication is disabled

	// RateLimitPerMinute caps requests per client IP. Zero disables the
	// limiter; it also requires a rate limiter to be provided.
	RateLimitPerMinute int
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Wallet    *handler.WalletHandler
	Dashboard *handler.DashboardHandler
}

// Server is the HTTP API and dashboard server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux
// and the middleware chain applied: auth (health and dashboard excluded),
// optional rate limiting, request logging, and CORS.
func NewServer(cfg Config, handlers Handlers, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check and dashboard (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)
	mux.HandleFunc("GET /{$}", handlers.Dashboard.Index)

	// Wallet endpoints.
	mux.HandleFunc("GET /api/wallet/balance", handlers.Wallet.Balance)
	mux.HandleFunc("GET /api/wallet/orders", handlers.Wallet.Orders)
	mux.HandleFunc("GET /api/wallet/fees", handlers.Wallet.Fees)

	// Build the middleware chain.
	var h http.Handler = mux

	h = middleware.Auth(cfg.APIKey, "/", "/api/health")(h)

	if limiter != nil && cfg.RateLimitPerMinute > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimitPerMinute, time.Minute)(h)
	}

	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
