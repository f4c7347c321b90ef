package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/patternsweep/pkg/cli"
	"mercator-hq/patternsweep/pkg/sweep"
)

// defaultConfigFile is used when --config is not given. Unlike an explicit
// path it may be missing, in which case built-in defaults apply.
const defaultConfigFile = "patternsweep.yaml"

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var sweepFlags struct {
	categories []string
	dryRun     bool
	output     string
}

var rootCmd = &cobra.Command{
	Use:   "patternsweep",
	Short: "Archive expired neural patterns",
	Long: `Patternsweep runs an expiry sweep over the shared pattern memory.

Every category has a maximum age. Records older than that are copied to
patterns/archived/<category> with provenance fields and then removed from
patterns/<category>/successful. A summary of each run is stored under
config/patterns/checks.

Default policies:
  phd_patterns                180 days
  business_research_patterns   90 days
  business_strategy_patterns   60 days
  industry_patterns           120 days

Examples:
  # Run one sweep
  patternsweep

  # Preview without archiving
  patternsweep --dry-run

  # Sweep selected categories only
  patternsweep --category phd_patterns --category industry_patterns`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a status derived from the
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (runSweep -> loadConfig -> configExplicit -> rootCmd).
	rootCmd.RunE = runSweep

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.Flags().StringArrayVar(&sweepFlags.categories, "category", nil, "sweep only this category (repeatable)")
	rootCmd.Flags().BoolVar(&sweepFlags.dryRun, "dry-run", false, "classify records without archiving anything")
	rootCmd.Flags().StringVarP(&sweepFlags.output, "output", "o", "text", "output format (text, json)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(sweepFlags.output)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	table, err := cfg.PolicyTable()
	if err != nil {
		return cli.NewConfigError("policies", err.Error())
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	store, err := openStore(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	opts := []sweep.Option{
		sweep.WithCategories(sweepFlags.categories...),
		sweep.WithDryRun(sweepFlags.dryRun),
	}

	if format == cli.FormatText {
		categories := len(sweepFlags.categories)
		if categories == 0 {
			categories = table.Len()
		}
		progress := cli.NewProgressReporter(out)
		progress.Start(categories, sweepFlags.dryRun)
		opts = append(opts, sweep.WithProgress(progress.CategoryDone))
	}

	sweeper := newSweeper(cfg, store, table, logger, opts...)
	report, runErr := sweeper.Run(ctx)

	if err := cli.NewFormatter(format).FormatTo(out, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return runErr
}
