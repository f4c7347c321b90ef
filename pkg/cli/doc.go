/*
Package cli provides command-line helpers used by the patternsweep command.

Output Formatting:

Sweep reports render as a console summary or as JSON:

	formatter := cli.NewFormatter(cli.FormatText)
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Progress Reporting:

The text reporter prints one line per category as the sweep finishes it:

	progress := cli.NewProgressReporter(os.Stdout)
	sweeper := sweep.New(store, table, sweep.WithProgress(progress.CategoryDone))

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

Exit Codes:

ExitCode maps a command error to the process exit status.
*/
package cli
