package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/srikolla28/trackfina/internal/amqp"
	"github.com/srikolla28/trackfina/internal/config"
	applog "github.com/srikolla28/trackfina/internal/log"
	gsheet "github.com/srikolla28/trackfina/internal/sheets/google"
	"github.com/srikolla28/trackfina/internal/storage"
	"github.com/srikolla28/trackfina/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting trackfina-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the sync worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, sheetsClient)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repair rows for events missed while the worker was down.
	if err := syncWorker.Resync(rootCtx, repo); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Startup resync failed", applog.FieldError, err.Error())
	}

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		return amqpClient.ConsumePurchaseEvents(ctx, func(event *amqp.PurchaseEvent) error {
			return syncWorker.HandleEvent(ctx, event)
		})
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ResyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := syncWorker.Resync(ctx, repo); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Periodic resync failed", applog.FieldError, err.Error())
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
