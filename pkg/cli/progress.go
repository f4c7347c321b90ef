package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"mercator-hq/patternsweep/pkg/sweep"
)

// ProgressReporter reports sweep progress as categories finish.
type ProgressReporter interface {
	Start(categories int, dryRun bool)
	CategoryDone(r sweep.CategoryReport)
}

// SimpleProgress implements a line-per-category text progress reporter.
type SimpleProgress struct {
	mu     sync.Mutex
	total  int
	done   int
	writer io.Writer
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stdout.
func NewProgressReporter(w io.Writer) *SimpleProgress {
	if w == nil {
		w = os.Stdout
	}
	return &SimpleProgress{
		writer: w,
	}
}

// Start announces the sweep.
func (p *SimpleProgress) Start(categories int, dryRun bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = categories
	p.done = 0
	if dryRun {
		fmt.Fprintln(p.writer, "🔍 Checking for expired patterns (dry run)...")
	} else {
		fmt.Fprintln(p.writer, "🔍 Checking for expired patterns...")
	}
	fmt.Fprintln(p.writer)
}

// CategoryDone prints the outcome of one category. It is safe for
// concurrent use.
func (p *SimpleProgress) CategoryDone(r sweep.CategoryReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	prefix := fmt.Sprintf("[%d/%d]", p.done, p.total)

	if r.Err != nil {
		fmt.Fprintf(p.writer, "%s ✗ Error checking %s: %v\n", prefix, r.Category, r.Err)
		return
	}

	fmt.Fprintf(p.writer, "%s 📂 %s (max age: %d days): %d records, %d valid, %d expired, %d archived\n",
		prefix, r.Category, r.MaxAgeDays, r.Records, r.Valid, r.Expired, r.Archived)
	if r.ArchiveFailed > 0 {
		fmt.Fprintf(p.writer, "      ✗ %d failed to archive\n", r.ArchiveFailed)
	}
	if r.Indeterminate > 0 {
		fmt.Fprintf(p.writer, "      ⚠️  %d without a valid creation date, skipped\n", r.Indeterminate)
	}
}
