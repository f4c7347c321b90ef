package main

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/patternsweep/pkg/archive"
	"mercator-hq/patternsweep/pkg/cli"
	"mercator-hq/patternsweep/pkg/records"
)

var archivedFlags struct {
	output string
}

var archivedCmd = &cobra.Command{
	Use:   "archived <category>",
	Short: "List archived records of a category",
	Long: `List the records archived from a category, oldest archival first,
with the provenance recorded at archive time.

Examples:
  patternsweep archived business_strategy_patterns
  patternsweep archived phd_patterns --output json`,
	Args: cobra.ExactArgs(1),
	RunE: listArchived,
}

func init() {
	rootCmd.AddCommand(archivedCmd)

	archivedCmd.Flags().StringVarP(&archivedFlags.output, "output", "o", "text", "output format (text, json)")
}

// archivedEntry is one archived record with its provenance.
type archivedEntry struct {
	Key               string `json:"key"`
	OriginalNamespace string `json:"original_namespace"`
	OriginalKey       string `json:"original_key"`
	ArchivedAt        string `json:"archived_at"`
	ExpiryReason      string `json:"expiry_reason"`
}

func listArchived(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(archivedFlags.output)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	category := args[0]
	table, err := cfg.PolicyTable()
	if err != nil {
		return cli.NewConfigError("policies", err.Error())
	}
	if _, err := table.Get(category); err != nil {
		return cli.NewCommandError("archived", err)
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	store, err := openStore(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	namespace := records.ArchiveNamespace(category)
	recs, err := store.List(ctx, namespace)
	if err != nil {
		return cli.NewCommandError("archived", err)
	}

	entries := make([]archivedEntry, 0, len(recs))
	for key, rec := range recs {
		entries = append(entries, archivedEntry{
			Key:               key,
			OriginalNamespace: stringField(rec, archive.FieldOriginalNamespace),
			OriginalKey:       stringField(rec, archive.FieldOriginalKey),
			ArchivedAt:        stringField(rec, archive.FieldArchivedAt),
			ExpiryReason:      stringField(rec, archive.FieldExpiryReason),
		})
	}
	// archived_at is fixed-width UTC, so string order is time order.
	slices.SortFunc(entries, func(a, b archivedEntry) int {
		if c := strings.Compare(a.ArchivedAt, b.ArchivedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(out, entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintf(out, "No archived records in %s\n", namespace)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ARCHIVED AT\tORIGINAL KEY\tREASON\tARCHIVE KEY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ArchivedAt, e.OriginalKey, e.ExpiryReason, e.Key)
	}
	return tw.Flush()
}

func stringField(rec records.Record, field string) string {
	if v, ok := rec.Payload[field].(string); ok {
		return v
	}
	return ""
}
