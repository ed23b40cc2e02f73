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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/classifier"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/dashboard"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/export"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	"github.com/MrJamesThe3rd/tally/internal/http/middleware"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/http/web"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/llm"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

type eventPublisher interface {
	transaction.Publisher
	Close() error
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	if err := database.Migrate(cfg.DB.Driver, cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gen, err := llm.NewGenerator(cfg, &http.Client{})
	if err != nil {
		slog.Error("failed to create llm client", "error", err)
		os.Exit(1)
	}

	cls := classifier.New(gen,
		classifier.WithTimeout(cfg.LLM.Timeout),
		classifier.WithName(cfg.LLM.Model),
	)

	publisher, err := newPublisher(cfg)
	if err != nil {
		slog.Error("failed to connect to message broker", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	store := txStore.New(db, cfg.DB.Driver)

	var (
		transactionService = transaction.NewService(store, cls, transaction.WithPublisher(publisher))
		dashboardService   = dashboard.NewService(transactionService)
		importService      = importer.NewService(transactionService)
		exportService      = export.NewService(transactionService)
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	defer limiter.Stop()

	pages, err := web.NewHandler(
		transactionService,
		dashboardService,
		store,
		web.ModelInfo{Provider: cfg.LLM.Provider, Model: cfg.LLM.Model},
		web.WithClassifyMiddleware(limiter.Middleware),
	)
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	var (
		transactionH = txHandler.NewHandler(transactionService)
		importH      = importHandler.NewHandler(importService,
			importHandler.WithTimeout(cfg.LLM.Timeout+cfg.Server.Timeout/2))
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := tallyHttp.New(tallyHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		Limiter:        limiter,
	}, pages, transactionH, importH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Classification waits on the LLM, so writes get the LLM budget on top.
		// Imports stop earlier through their own deadline.
		WriteTimeout: cfg.Server.Timeout + cfg.LLM.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting server",
		"app", cfg.App.Name,
		"port", cfg.App.Port,
		"db_driver", cfg.DB.Driver,
		"llm_provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	if cfg.App.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newPublisher(cfg *config.Config) (eventPublisher, error) {
	if cfg.AMQP.URL == "" {
		slog.Info("AMQP_URL not set, transaction events disabled")
		return events.Noop{}, nil
	}

	p, err := events.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, err
	}

	slog.Info("publishing transaction events", "exchange", cfg.AMQP.Exchange)

	return p, nil
}
