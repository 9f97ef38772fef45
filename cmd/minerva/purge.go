package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"peticia-hq/minerva/pkg/cli"
	"peticia-hq/minerva/pkg/dispatch/cache"
	"peticia-hq/minerva/pkg/telemetry/logging"
)

var purgeFlags struct {
	daemon bool
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired entries from the verdict cache",
	Long: `Remove expired entries from the persistent verdict cache.

Only the sqlite backend needs purging; the memory backend cleans itself up
and exists only for the lifetime of the process that owns it.

By default one sweep runs and the command exits. With --daemon the sweep
runs on the configured cron schedule until interrupted.

Examples:
  # One-off sweep
  minerva purge

  # Run on the configured schedule (cache.purge_schedule)
  minerva purge --daemon`,
	RunE: runPurgeCmd,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolVar(&purgeFlags.daemon, "daemon", false, "keep running, purging on the configured cron schedule")
}

func runPurgeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return cli.NewCommandError("purge", err)
	}

	if cfg.Cache.Backend != "sqlite" {
		return cli.NewInputError("config", fmt.Sprintf("cache backend %q has nothing to purge", cfg.Cache.Backend))
	}

	logger, err := logging.Setup(cfg.Telemetry)
	if err != nil {
		return cli.NewCommandError("purge", err)
	}

	backend, err := cache.NewSQLiteBackend(cfg.Cache.SQLitePath)
	if err != nil {
		return cli.NewCommandError("purge", err)
	}
	defer backend.Close()

	ctx := cli.SetupSignalHandler()

	if !purgeFlags.daemon {
		deleted, err := backend.Purge(ctx, time.Now())
		if err != nil {
			return cli.NewCommandError("purge", err)
		}
		fmt.Printf("Purged %d expired entries from %s\n", deleted, cfg.Cache.SQLitePath)
		return nil
	}

	scheduler := cache.NewScheduler(backend, cfg.Cache.PurgeSchedule)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("purge", err)
	}
	logger.Info("purge daemon running", "schedule", cfg.Cache.PurgeSchedule, "db_path", cfg.Cache.SQLitePath)

	<-ctx.Done()
	scheduler.Stop()
	return nil
}
