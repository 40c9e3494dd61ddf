package main

import (
	"context"
	"os"
	"time"

	"debttrack/internal/amqp"
	"debttrack/internal/cli"
	"debttrack/internal/sheets"
	"debttrack/internal/sheets/google"
	"debttrack/internal/sheets/memory"
	"debttrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the sync worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var exporter sheets.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		googleClient, err := google.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = googleClient
		logger.Info("Google Sheets export enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet_name", cfg.GoogleSheetName)
	} else {
		// No spreadsheet configured; keep the pipeline running against an
		// in-memory sink so local development does not need credentials.
		exporter = memory.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, exporting to in-memory sink")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, exporter, cfg.SyncBatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Drain anything that accumulated while the worker was down.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
		// Not fatal: the periodic sweep will retry.
	}

	consumeErr := make(chan error, 1)
	go func() {
		err := amqpClient.ConsumeMessages(ctx, func(msg *amqp.PaymentMessage) error {
			return syncWorker.HandleMessage(ctx, msg)
		})
		consumeErr <- err
	}()

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		cancel()
	})

	logger.Info("Sync worker started",
		"queue", cfg.AMQPQueue,
		"batch_size", cfg.SyncBatchSize,
		"interval", cfg.SyncInterval)

	for {
		select {
		case <-ctx.Done():
			<-done
			logger.Info("Sync worker stopped")
			return
		case err := <-consumeErr:
			if err != nil && ctx.Err() == nil {
				logger.Error("Message consumption stopped", "error", err)
				cancel()
			}
		case <-ticker.C:
			if err := syncWorker.ProcessPending(ctx); err != nil {
				logger.Error("Periodic sync failed", "error", err)
			}
		}
	}
}
