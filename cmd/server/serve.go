package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/panelboard/internal/api"
	"github.com/ashureev/panelboard/internal/app"
	"github.com/ashureev/panelboard/internal/chat"
	"github.com/ashureev/panelboard/internal/config"
	"github.com/ashureev/panelboard/internal/identity"
	"github.com/ashureev/panelboard/internal/middleware"
	"github.com/ashureev/panelboard/internal/store"
	"github.com/ashureev/panelboard/internal/ui"
	"github.com/ashureev/panelboard/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if portFlag != "" {
		cfg.Port = portFlag
	}
	logLevel.Set(cfg.SlogLevel())

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "version", Version)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	slog.Info("Database connected")

	html, err := ui.NewHTMLRenderer(web.Templates)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.Chat.RatePerSecond, cfg.Chat.Burst, cfg.SessionTTL)
	defer limiter.Close()

	hub := chat.NewHub()
	chatSvc := chat.NewService(repo, limiter)
	handler := api.NewHandler(app.New(cfg), chatSvc, html, cfg)
	healthHandler := api.NewHealthHandler(repo)
	wsHandler := chat.NewWebSocketHandler(chatSvc, hub, html, cfg.AllowedOrigins, cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes.
	healthHandler.RegisterHealth(r)
	r.Handle("/static/*", web.StaticHandler())

	// Session routes.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))
		handler.RegisterRoutes(r)
		r.Get("/ws/chat", wsHandler.ServeHTTP)
	})

	// SSE connections require long timeouts (no WriteTimeout).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start TTL worker.
	store.StartSweeper(ctx, repo, cfg.SweepInterval, cfg.SessionTTL, hub.CloseSession)

	errc := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return nil
}
