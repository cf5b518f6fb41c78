// Package internal provides the main application initialization and runtime logic.
package internal

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

	"golang.org/x/sync/errgroup"

	"github.com/hyunsol/techtalk/internal/analyze"
	"github.com/hyunsol/techtalk/internal/api"
	"github.com/hyunsol/techtalk/internal/blog"
	"github.com/hyunsol/techtalk/internal/digest"
	"github.com/hyunsol/techtalk/internal/preview"
	"github.com/hyunsol/techtalk/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	if app.logOutput == nil {
		app.logOutput = os.Stdout
	}
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("ai_enabled", cfg.AI.Enabled()),
		slog.Bool("digest_enabled", cfg.Digest.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize SQLite storage.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	svc := blog.NewService(db, cfg.Passwords.Policy())

	var ai *analyze.Client
	if cfg.AI.Enabled() {
		ai = analyze.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
	}

	var mailer *digest.Mailer
	var scheduler *digest.Scheduler
	if cfg.Digest.Enabled {
		mailer = digest.NewMailer(db, digest.NewSMTPSender(cfg.Digest.SMTP()))
		scheduler = digest.NewScheduler(mailer, cfg.Digest.Hour, cfg.Digest.Location())
	}

	router := api.NewRouter(svc, api.RouterOptions{
		AI:             ai,
		Fetcher:        preview.NewFetcher(nil, 0, ""),
		Mailer:         mailer,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AdminToken:     cfg.Digest.AdminToken,
	})

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)
	schedCtx, stopSched := context.WithCancel(gCtx)
	defer stopSched()

	// Start the weekly digest scheduler.
	if scheduler != nil {
		g.Go(func() error {
			if err := scheduler.Run(schedCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("digest scheduler error: %w", err)
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		stopSched()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
