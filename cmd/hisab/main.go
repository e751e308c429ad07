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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"hisab/internal/amqp"
	"hisab/internal/config"
	apphttp "hisab/internal/http"
	"hisab/internal/services"
	"hisab/internal/store"
	"hisab/internal/store/memory"
	"hisab/internal/store/sqlite"
)

func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		st    store.Store
		ready func(context.Context) error
		err   error
	)
	switch cfg.DataBackend {
	case "sqlite":
		sqliteStore, serr := sqlite.New(cfg.SQLiteDBPath)
		if serr != nil {
			logger.Error("Failed to initialize SQLite store", "error", serr, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		st = sqliteStore
		ready = sqliteStore.Ping
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		st = memory.New()
		logger.Info("Initialized memory backend")
	}
	defer st.Close()

	// Balance events are optional; a missing broker never blocks startup.
	var events services.EventPublisher
	if cfg.AMQPEnabled {
		client, aerr := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if aerr != nil {
			logger.Warn("AMQP unavailable, continuing without balance events", "error", aerr)
		} else {
			defer client.Close()
			events = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	reconciler := services.NewReconciler(st, st, events)
	srv := apphttp.NewServer(
		":"+cfg.Port,
		st,
		services.NewExpenseService(st, st, reconciler),
		services.NewSavingService(st, st, reconciler),
		services.NewBalanceService(st, st, reconciler),
		services.NewAccountService(st),
		services.NewGameService(st),
		ready,
	)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting hisab server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
