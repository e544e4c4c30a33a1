// Command ingest runs one pipeline cycle and exits. Useful for cron-less
// deployments and for backfilling a fresh database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"jobpulse/internal/app"
	"jobpulse/internal/config"
)

func main() {
	var (
		limit   = flag.Int("limit", 0, "max records per source (0 uses the configured default)")
		cleanup = flag.Bool("cleanup", false, "run the expiry sweep after ingestion")
	)
	flag.Parse()

	// Failures surface through run so deferred cleanup still releases the
	// database pool before the process exits.
	if err := run(*limit, *cleanup); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func run(limit int, cleanup bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("close error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if limit <= 0 {
		limit = cfg.Ingest.LimitPerSource
	}

	report, err := c.Orchestrator.Run(ctx, limit)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	log.Printf("ingestion done fetched=%d inserted=%d refreshed=%d unchanged=%d rejected=%d failed_sources=%v",
		report.Fetched, report.Inserted, report.Refreshed, report.Unchanged, report.Rejected, report.FailedSources())

	if cleanup {
		deleted, err := c.Lifecycle.Cleanup(ctx)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		log.Printf("cleanup done deleted=%d", deleted)
	}
	return nil
}
