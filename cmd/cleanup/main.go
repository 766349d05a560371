package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devdaily/catalog-service/internal/app/audit"
	"github.com/devdaily/catalog-service/internal/app/catalog/repo"
	"github.com/devdaily/catalog-service/internal/config"
	"github.com/devdaily/catalog-service/internal/models/m_audit"
	"github.com/devdaily/catalog-service/internal/models/m_price_history"
	"github.com/devdaily/catalog-service/internal/pkg/database"
	"github.com/devdaily/catalog-service/internal/pkg/txn"
)

// Configuration for the retention cleanup job
type Config struct {
	AuditRetentionDays int
	PriceRetentionDays int
	DryRun             bool
}

func main() {
	// Parse command-line flags
	jobCfg := Config{}
	flag.IntVar(&jobCfg.AuditRetentionDays, "audit-retention", 0, "Retention days for audit records (0 uses the configured value)")
	flag.IntVar(&jobCfg.PriceRetentionDays, "price-retention", 0, "Retention days for price history (0 uses the configured value)")
	flag.BoolVar(&jobCfg.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	ctx := context.Background()

	// Run cleanup
	if err := cleanup(ctx, jobCfg); err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Println("Cleanup completed successfully")
}

func cleanup(ctx context.Context, jobCfg Config) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if jobCfg.AuditRetentionDays <= 0 {
		jobCfg.AuditRetentionDays = cfg.Maintenance.AuditRetentionDays
	}
	if jobCfg.PriceRetentionDays <= 0 {
		jobCfg.PriceRetentionDays = cfg.Maintenance.PriceRetentionDays
	}

	db, err := database.NewMySQLConnection(database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.Name,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to mysql: %w", err)
	}
	defer database.Close(db)

	// Calculate cutoff timestamps
	now := time.Now().UTC()
	auditCutoff := now.AddDate(0, 0, -jobCfg.AuditRetentionDays)
	priceCutoff := now.AddDate(0, 0, -jobCfg.PriceRetentionDays)

	log.Printf("Starting retention cleanup...")
	log.Printf("  Audit records cutoff: %s (retention: %d days)", auditCutoff.Format(time.RFC3339), jobCfg.AuditRetentionDays)
	log.Printf("  Price history cutoff: %s (retention: %d days)", priceCutoff.Format(time.RFC3339), jobCfg.PriceRetentionDays)
	log.Printf("  Dry run: %v", jobCfg.DryRun)

	if jobCfg.DryRun {
		return dryRunCleanup(ctx, db, auditCutoff, priceCutoff)
	}

	return performCleanup(ctx, db, cfg, auditCutoff, priceCutoff)
}

func dryRunCleanup(ctx context.Context, db *sqlx.DB, auditCutoff, priceCutoff time.Time) error {
	// Count rows that would be deleted
	auditQuery := "SELECT COUNT(*) FROM " + m_audit.TableName + " WHERE " + m_audit.CreatedAt + " < ?"
	priceQuery := "SELECT COUNT(*) FROM " + m_price_history.TableName + " WHERE " + m_price_history.RecordedAt + " < ?"

	var auditCount int64
	if err := db.GetContext(ctx, &auditCount, auditQuery, auditCutoff); err != nil {
		return fmt.Errorf("failed to count audit records: %w", err)
	}

	var priceCount int64
	if err := db.GetContext(ctx, &priceCount, priceQuery, priceCutoff); err != nil {
		return fmt.Errorf("failed to count price points: %w", err)
	}

	log.Printf("  Would delete %d audit records", auditCount)
	log.Printf("  Would delete %d price points", priceCount)
	log.Printf("DRY RUN: Would delete %d total rows", auditCount+priceCount)
	log.Println("Run without --dry-run to actually delete")

	return nil
}

func performCleanup(ctx context.Context, db *sqlx.DB, cfg *config.Config, auditCutoff, priceCutoff time.Time) error {
	txns := txn.NewFactory(db, txn.Config{LockWaitTimeout: cfg.Database.LockWaitTimeout})
	audits := audit.NewStore()
	history := repo.NewPriceHistoryRepo()

	r := txns.Runner()
	defer r.Close()

	// One transaction covers both tables so a partial cleanup never
	// survives a crash.
	return txn.Run(ctx, r, txn.ExecOptions{}, func(ctx context.Context, q txn.Querier) error {
		removed, err := audits.Prune(ctx, q, auditCutoff)
		if err != nil {
			return err
		}
		log.Printf("Deleted %d audit records", removed)

		removed, err = history.Prune(ctx, q, priceCutoff)
		if err != nil {
			return err
		}
		log.Printf("Deleted %d price points", removed)

		return nil
	})
}
