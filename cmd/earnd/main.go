// Command earnd is the wallet valuation server. It loads configuration,
// validates it, wires dependencies, sets up signal handling, and serves the
// wallet API and dashboard over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mugentime/earn-desde-cero/internal/app"
	"github.com/mugentime/earn-desde-cero/internal/config"
	"github.com/mugentime/earn-desde-cero/internal/crypto"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	encryptOut := flag.String("encrypt-secret", "", "encrypt the API secret from BINANCE_SECRET_KEY with EARN_BINANCE_SECRET_PASSWORD, write it to this path, and exit")
	flag.Parse()

	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *encryptOut != "" {
		if err := encryptSecretFile(*encryptOut); err != nil {
			logger.Error("failed to encrypt secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("encrypted secret written", slog.String("path", *encryptOut))
		return
	}

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("wallet valuation server starting",
		slog.String("config", *configPath),
		slog.Int("port", cfg.Server.Port),
	)

	// Create the application.
	application := app.New(cfg, logger)
	defer application.Close()

	// Setup signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run the application.
	if err := application.Run(ctx); err != nil {
		// context.Canceled is expected on clean shutdown.
		if err == context.Canceled {
			logger.Info("application shut down gracefully")
		} else {
			logger.Error("application exited with error",
				slog.String("error", err.Error()),
			)
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("wallet valuation server stopped")
}

// encryptSecretFile reads the plain secret and password from the environment
// and writes the encrypted-secret JSON file to path.
func encryptSecretFile(path string) error {
	secret := os.Getenv("BINANCE_SECRET_KEY")
	if secret == "" {
		return fmt.Errorf("BINANCE_SECRET_KEY must be set")
	}
	password := os.Getenv("EARN_BINANCE_SECRET_PASSWORD")
	if password == "" {
		return fmt.Errorf("EARN_BINANCE_SECRET_PASSWORD must be set")
	}

	blob, err := crypto.EncryptSecret(secret, password)
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o600)
}
