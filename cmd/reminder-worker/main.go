package main

import (
	"os"
	"time"

	"odolog/internal/amqp"
	"odolog/internal/cache"
	"odolog/internal/cli"
	"odolog/internal/core"
	"odolog/internal/ledger"
	applog "odolog/internal/log"
	"odolog/internal/services"
)

const (
	// a record is alerted again at the latest after a week
	seenTTL  = 7 * 24 * time.Hour
	seenSize = 4096
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentReminder)
	logger.Info("Starting reminder-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}
	catalog := cli.LoadCatalog(logger, cfg.CatalogFile)

	alerts, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPAlertQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	loopDone := make(chan struct{})
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		<-loopDone
		if err := alerts.Close(); err != nil {
			logger.Error("Failed to close AMQP client", "error", err)
		}
	})

	backendRes := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := backendRes.Cleanup(); err != nil {
			logger.Error("Failed to close backend", "error", err)
		}
	}()

	svc := services.NewLedgerService(ledger.New(catalog), backendRes.Backend,
		services.WithLogger(logger.WithComponent(applog.ComponentLedger)))

	seen := cache.NewLRU[core.Severity](seenSize, seenTTL)
	caches := cache.NewManager(logger)
	caches.Register(seen)
	go caches.Run(ctx, time.Hour)

	processor := services.NewReminderProcessor(svc, alerts, seen, logger)

	logger.Info("Reminder processor configured",
		"interval", cfg.ReminderInterval,
		applog.FieldBackend, cfg.DataBackend,
		"queue", alerts.Queue())

	go func() {
		defer close(loopDone)

		ticker := time.NewTicker(cfg.ReminderInterval)
		defer ticker.Stop()

		if _, err := processor.ProcessDue(ctx); err != nil {
			logger.Error("Initial reminder pass failed", "error", err)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if _, err := processor.ProcessDue(ctx); err != nil {
					logger.Error("Reminder pass failed", "error", err)
					continue
				}
				logger.Debug("Next reminder pass scheduled",
					"next_check", now.Add(cfg.ReminderInterval).Format("15:04:05"))
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
