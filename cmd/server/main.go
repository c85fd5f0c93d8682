// Package main is the entry point for the Aisle gateway. It loads
// configuration, connects Redis, builds the marketplace client and the
// session and cart registries, wires together all plugin surfaces, and
// starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petalworks/aisle/internal/app"
	"github.com/petalworks/aisle/internal/cart"
	"github.com/petalworks/aisle/internal/config"
	"github.com/petalworks/aisle/internal/database"
	"github.com/petalworks/aisle/internal/session"
	"github.com/petalworks/aisle/internal/upstream"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	slog.Info("starting Aisle",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("upstream", cfg.Upstream.BaseURL),
	)

	// --- Connect to Redis ---
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("connected to Redis")

	// --- Build shared infrastructure ---
	up := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	tokens, err := session.NewRedisTokenStore(rdb, cfg.Auth.SecretKey, cfg.Auth.SessionTTL)
	if err != nil {
		slog.Error("failed to initialize token store", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := session.NewManager(up, tokens, nil, cfg.Auth.SessionTTL)
	carts := cart.NewManager(cfg.Auth.SessionTTL)

	// --- Create Application ---
	application := app.New(cfg, rdb, up, sessions, carts)
	application.RegisterRoutes()

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// setupLogging configures the global slog logger based on the environment.
// Development uses text format for readability. Production uses JSON for
// structured log aggregation.
func setupLogging(cfg *config.Config) {
	level := parseLevel(cfg.LogLevel)

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel maps the configured level name to a slog level.
func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
