package main

import (
	"context"
	"errors"
	"os"
	"time"

	"odolog/internal/amqp"
	"odolog/internal/cli"
	applog "odolog/internal/log"
	gsheet "odolog/internal/sheets/google"
	"odolog/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentWorker)
	logger.Info("Starting mirror-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	consumeDone := make(chan struct{})
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		<-consumeDone
		if err := consumer.Close(); err != nil {
			logger.Error("Failed to close AMQP client", "error", err)
		}
	})

	sheets, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	if err := sheets.EnsureHeader(ctx); err != nil {
		logger.Error("Failed to prepare sheet header", "error", err, "sheet", sheets.SheetName())
		os.Exit(1)
	}
	logger.Info("Google Sheets mirror ready",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", sheets.SheetName())

	mirror := worker.NewMirrorWorker(sheets)
	go func() {
		defer close(consumeDone)
		err := consumer.ConsumeLedgerEvents(ctx, mirror.HandleLedgerEvent)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
