package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"prompt-mixer/core/config"
	"prompt-mixer/core/logger"
	"prompt-mixer/core/storage"
	"prompt-mixer/feature/reconcile"
	"prompt-mixer/feature/reconcile/source"

	"github.com/spf13/cobra"
)

var syncDryRun bool

// syncCmd pulls every master sheet from storage and folds it into the
// persisted library collection.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync libraries from master sheets in object storage",
	Long: `Sync pulls every master sheet from the configured bucket and overwrites
library value data in place, preserving locally tuned settings.

Examples:
  # Report the merged result without writing anything
  prompt-mixer sync --dry-run

  # Apply the sync
  prompt-mixer sync`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report the merged result without writing anything")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	adapter := source.NewBucketAdapter(client, cfg.Storage.Bucket, cfg.Storage.SheetPrefix)

	libs := loadLibraryService(logg, cfg)
	svc := reconcile.NewService(logg, libs, adapter,
		time.Duration(cfg.Storage.SyncTimeoutSeconds)*time.Second)

	ctx := context.Background()
	if syncDryRun {
		merged, err := svc.Preview(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Dry run: sync would leave %d libraries\n", len(merged.Libraries))
		for _, lib := range merged.Libraries {
			fmt.Printf("  %s (%s): %d values\n", lib.Name, lib.SourceSheet, len(lib.Values))
		}
		return nil
	}

	status, err := svc.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Synced %d sheets into %d libraries\n", status.SheetCount, status.LibraryCount)
	return nil
}
