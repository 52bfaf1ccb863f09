package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/fund-ledger/internal/bootstrap"
	"github.com/segyhp/fund-ledger/internal/config"
	"github.com/segyhp/fund-ledger/internal/logging"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)
	logger.Info("starting advance scheduler")

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetLocation()))

	if err := setupCronJobs(c, cfg, app, logger); err != nil {
		logger.Error("failed to schedule jobs", "error", err)
		os.Exit(1)
	}

	// Start the scheduler
	c.Start()
	logger.Info("scheduler started", "overdue_cron", cfg.Scheduler.OverdueCron, "timezone", cfg.Scheduler.Timezone)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, app *bootstrap.App, logger *slog.Logger) error {
	// Daily sweep: refresh every project's summary and report overdue advances
	_, err := c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		if _, err := app.Advances.SweepOverdue(ctx); err != nil {
			logger.Error("overdue sweep failed", "error", err)
		}
	})
	return err
}
