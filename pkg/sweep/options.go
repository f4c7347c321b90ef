package sweep

import (
	"log/slog"
	"time"

	"mercator-hq/patternsweep/pkg/archive"
)

// Clock returns the current time.
type Clock func() time.Time

// Metrics receives sweep observations. *metrics.SweepMetrics implements it.
type Metrics interface {
	RecordEvaluated(category, status string)
	RecordTransition(category, outcome string)
	RecordCategoryFailure(category, reason string)
	RecordSweep(result string, duration time.Duration, archived int64, finished time.Time)
}

type nopMetrics struct{}

func (nopMetrics) RecordEvaluated(string, string) {}
func (nopMetrics) RecordTransition(string, string) {}
func (nopMetrics) RecordCategoryFailure(string, string) {}
func (nopMetrics) RecordSweep(string, time.Duration, int64, time.Time) {}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.base = logger
		s.logger = logger.With("component", "sweep")
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Sweeper) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides time.Now.
func WithClock(clock Clock) Option {
	return func(s *Sweeper) {
		s.clock = clock
	}
}

// WithWorkers sets how many categories are swept concurrently.
// Default: 1
func WithWorkers(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRecordWorkers sets how many records of one category are processed
// concurrently.
// Default: 1
func WithRecordWorkers(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.recordWorkers = n
		}
	}
}

// WithNextCheckInterval sets the offset used for next_check_recommended.
// Default: 7 days
func WithNextCheckInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.nextCheck = d
		}
	}
}

// WithStrictArchivedCount counts records whose source delete failed as not
// archived.
func WithStrictArchivedCount(strict bool) Option {
	return func(s *Sweeper) {
		s.strict = strict
	}
}

// WithCategories restricts the sweep to the named categories. Names without
// a policy fail individually with policy.ErrUnknownCategory.
func WithCategories(categories ...string) Option {
	return func(s *Sweeper) {
		s.categories = append([]string(nil), categories...)
	}
}

// WithDryRun classifies records without writing or deleting anything.
func WithDryRun(dryRun bool) Option {
	return func(s *Sweeper) {
		s.dryRun = dryRun
	}
}

// WithArchiver overrides the archiver built from the store.
func WithArchiver(a *archive.Archiver) Option {
	return func(s *Sweeper) {
		s.archiver = a
	}
}

// ProgressFunc is called once per category as soon as it finishes. With
// more than one worker it is called concurrently.
type ProgressFunc func(CategoryReport)

// WithProgress registers a per-category progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Sweeper) {
		s.progress = fn
	}
}
