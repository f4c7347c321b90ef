package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
	"mercator-hq/patternsweep/pkg/sweep"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is the console summary (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates an --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unknown format %q (want text or json)", s))
	}
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats output as console text. Sweep reports and policy
// tables get dedicated layouts; anything else prints with %v.
type TextFormatter struct{}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case *sweep.Report:
		return writeReport(w, v)
	case []policy.Policy:
		return writePolicies(w, v)
	default:
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &TextFormatter{}
	}
}

func writeReport(w io.Writer, r *sweep.Report) error {
	s := r.Summary
	ew := &errWriter{w: w}

	if r.DryRun {
		ew.printf("\n📊 Summary (dry run, nothing archived):\n")
	} else {
		ew.printf("\n📊 Summary:\n")
	}
	ew.printf("   Total expired: %d\n", s.ExpiredCount)
	ew.printf("   Successfully archived: %d\n", s.ArchivedCount)
	ew.printf("   Failed to archive: %d\n", s.FailedToArchive())
	if s.IndeterminateCount > 0 {
		ew.printf("   Skipped (no valid creation date): %d\n", s.IndeterminateCount)
	}
	if s.DeleteAnomalyCount > 0 {
		ew.printf("   Archived but not removed from source: %d\n", s.DeleteAnomalyCount)
	}

	for _, c := range r.Categories {
		if c.Err != nil {
			ew.printf("   ✗ %s: %v\n", c.Category, c.Err)
		}
	}

	switch {
	case r.SummaryKey != "":
		ew.printf("\n✅ Check record stored in %s/%s\n", r.SummaryNamespace, r.SummaryKey)
	case r.SummaryErr != nil:
		ew.printf("\n⚠️  Failed to store check record: %v\n", r.SummaryErr)
	}
	ew.printf("   Next check recommended: %s\n", s.NextCheckRecommended.UTC().Format("2006-01-02 15:04 MST"))

	return ew.err
}

func writePolicies(w io.Writer, policies []policy.Policy) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tMAX AGE (DAYS)\tSOURCE\tARCHIVE")
	for _, p := range policies {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			p.Category, p.MaxAgeDays,
			records.SourceNamespace(p.Category),
			records.ArchiveNamespace(p.Category),
		)
	}
	return tw.Flush()
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
