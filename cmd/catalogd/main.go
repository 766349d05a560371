package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/devdaily/catalog-service/internal/config"
	"github.com/devdaily/catalog-service/internal/pkg/logging"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
	"github.com/devdaily/catalog-service/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run maintenance daemon: %v", err)
	}
}

func run() error {
	// 1. Load configuration from .env / config.yaml / environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Build the logger
	logger, err := logging.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalog maintenance daemon",
		zap.String("env", cfg.App.Environment),
		zap.String("link_check_schedule", cfg.Maintenance.LinkCheckSchedule),
		zap.String("price_check_schedule", cfg.Maintenance.PriceCheckSchedule),
		zap.String("retention_schedule", cfg.Maintenance.RetentionSchedule))

	// 3. Initialize service dependencies (DI container)
	s, err := services.NewServiceOptions(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer s.Close()

	// 4. Schedule the sweeps. Recover so a panicking sweep does not
	// take the daemon down with it.
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))

	if _, err := c.AddFunc(cfg.Maintenance.LinkCheckSchedule, func() {
		if _, err := s.LinkCheck.Run(context.Background()); err != nil {
			logger.Error("Link sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid link check schedule %q: %w", cfg.Maintenance.LinkCheckSchedule, err)
	}

	if _, err := c.AddFunc(cfg.Maintenance.PriceCheckSchedule, func() {
		if _, err := s.PriceCheck.Run(context.Background()); err != nil {
			logger.Error("Price sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid price check schedule %q: %w", cfg.Maintenance.PriceCheckSchedule, err)
	}

	if _, err := c.AddFunc(cfg.Maintenance.RetentionSchedule, func() {
		if err := pruneExpired(context.Background(), s); err != nil {
			logger.Error("Retention cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid retention schedule %q: %w", cfg.Maintenance.RetentionSchedule, err)
	}

	c.Start()

	// 5. Expose Prometheus metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	// 6. Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down gracefully")

	// Let a running sweep finish before the pool closes under it.
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Metrics server shutdown error", zap.Error(err))
	}

	return nil
}

// pruneExpired trims audit records and price history past their
// retention windows. One transaction covers both tables.
func pruneExpired(ctx context.Context, s *services.ServiceOptions) error {
	now := time.Now().UTC()
	auditCutoff := now.AddDate(0, 0, -s.Config.Maintenance.AuditRetentionDays)
	priceCutoff := now.AddDate(0, 0, -s.Config.Maintenance.PriceRetentionDays)

	r := s.Txns.Runner()
	defer r.Close()

	var auditRemoved, priceRemoved int64
	err := txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		var err error
		if auditRemoved, err = s.Audits.Prune(ctx, q, auditCutoff); err != nil {
			return fmt.Errorf("prune audit records: %w", err)
		}
		if priceRemoved, err = s.History.Prune(ctx, q, priceCutoff); err != nil {
			return fmt.Errorf("prune price history: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Info("Retention cleanup finished",
		zap.Int64("audit_records_removed", auditRemoved),
		zap.Int64("price_points_removed", priceRemoved))
	return nil
}
