// Package main is the entry point for the inkwell server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/clock"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/router"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"timezone", cfg.Location().String(),
		"bearer_tokens", cfg.JWTSecret != "",
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (page cache + session store).
	valkeyClient, err := cache.ConnectValkey(context.Background(), cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	tokens := middleware.NewTokenVerifier(cfg.JWTSecret)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db, clock.System{})
	articleStore := store.NewArticleStore(db, clock.System{}, cfg.Location())

	pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(articleStore, categoryStore, pageCache, cfg.PageSize)
	adminHandlers := handlers.NewAdmin(articleStore, categoryStore, pageCache)
	authHandlers := handlers.NewAuth(sessionStore, userStore, tokens)

	r := router.New(sessionStore, tokens, limiter, publicHandlers, adminHandlers, authHandlers, secureCookies)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
