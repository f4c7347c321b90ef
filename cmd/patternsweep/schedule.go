package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/patternsweep/pkg/cli"
	"mercator-hq/patternsweep/pkg/config"
	"mercator-hq/patternsweep/pkg/server"
	"mercator-hq/patternsweep/pkg/sweep"
	"mercator-hq/patternsweep/pkg/telemetry/health"
	"mercator-hq/patternsweep/pkg/telemetry/metrics"
)

var scheduleFlags struct {
	listenAddress string
	runOnStart    bool
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run sweeps on a cron schedule",
	Long: `Run expiry sweeps on the configured cron schedule and serve status
endpoints until interrupted.

The status server exposes /health, /ready, /version, /metrics and a small
API for inspecting and triggering sweeps. With schedule.watch_config the
policy table is reloaded whenever the config file changes.

Examples:
  # Weekly sweeps (default "0 3 * * 0")
  patternsweep schedule

  # Sweep immediately, then on schedule
  patternsweep schedule --run-on-start

  # Serve status on all interfaces
  patternsweep schedule --listen 0.0.0.0:9464`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVarP(&scheduleFlags.listenAddress, "listen", "l", "", "override status server listen address")
	scheduleCmd.Flags().BoolVar(&scheduleFlags.runOnStart, "run-on-start", false, "run a sweep immediately on startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if scheduleFlags.listenAddress != "" {
		cfg.Telemetry.Server.ListenAddress = scheduleFlags.listenAddress
	}
	if scheduleFlags.runOnStart {
		cfg.Schedule.RunOnStart = true
	}

	table, err := cfg.PolicyTable()
	if err != nil {
		return cli.NewConfigError("policies", err.Error())
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	var collector *metrics.Collector
	if cfg.MetricsEnabled() {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	store, err := openStore(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer store.Close()

	sweeper := newSweeper(cfg, store, table, logger, sweep.WithMetrics(collector.Sweep()))
	scheduler := sweep.NewScheduler(sweeper, sweep.ScheduleConfig{
		Cron:       cfg.Schedule.Cron,
		RunOnStart: cfg.Schedule.RunOnStart,
	})
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewConfigError("schedule.cron", err.Error())
	}
	defer scheduler.Stop()

	if next := scheduler.NextRun(); next != nil {
		logger.Info("next sweep scheduled", "at", next.Format(time.RFC3339))
	}

	checker := health.New(cfg.Store.OperationTimeout)
	checker.RegisterCheck("store", health.StoreCheck(store))
	checker.RegisterCheck("scheduler", health.SchedulerCheck(scheduler))

	srv := server.New(cfg.Telemetry.Server, scheduler, checker, collector, server.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	if cfg.Schedule.WatchConfig {
		g.Go(func() error {
			return watchPolicies(ctx, sweeper, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return cli.NewCommandError("schedule", err)
	}
	return nil
}

// watchPolicies swaps the sweeper's policy table whenever the config file
// changes. Only policies are reloaded; other settings need a restart.
func watchPolicies(ctx context.Context, sweeper *sweep.Sweeper, logger *slog.Logger) error {
	if !configExplicit() {
		if _, err := config.LoadConfig(cfgFile); err != nil {
			logger.Warn("config watch disabled, no config file", "path", cfgFile)
			return nil
		}
	}

	watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger)
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	return watcher.Watch(ctx, func(cfg *config.Config) {
		table, err := cfg.PolicyTable()
		if err != nil {
			logger.Error("ignoring reloaded policies", "error", err)
			return
		}
		sweeper.SetPolicies(table)
		logger.Info("policies reloaded", "categories", table.Len())
	})
}
