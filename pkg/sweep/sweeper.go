package sweep

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mercator-hq/patternsweep/pkg/archive"
	"mercator-hq/patternsweep/pkg/expiry"
	"mercator-hq/patternsweep/pkg/policy"
	"mercator-hq/patternsweep/pkg/records"
	"mercator-hq/patternsweep/pkg/telemetry/logging"
)

// Sweeper runs expiry sweeps. It is safe for concurrent use, although
// concurrent runs against the same store are not coordinated.
type Sweeper struct {
	store    records.Store
	archiver *archive.Archiver
	logger   *slog.Logger
	base     *slog.Logger // untagged, handed to the default archiver
	metrics  Metrics
	clock    Clock

	mu    sync.RWMutex
	table *policy.Table

	categories    []string
	workers       int
	recordWorkers int
	nextCheck     time.Duration
	strict        bool
	dryRun        bool
	progress      ProgressFunc
}

// New creates a Sweeper over store using the policies in table.
func New(store records.Store, table *policy.Table, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:         store,
		table:         table,
		logger:        slog.Default().With("component", "sweep"),
		base:          slog.Default(),
		metrics:       nopMetrics{},
		clock:         time.Now,
		workers:       1,
		recordWorkers: 1,
		nextCheck:     DefaultNextCheckInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.archiver == nil {
		s.archiver = archive.NewArchiver(store, archive.WithLogger(s.base))
	}
	return s
}

// SetPolicies replaces the policy table used by subsequent runs.
func (s *Sweeper) SetPolicies(table *policy.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// Policies returns the current policy table.
func (s *Sweeper) Policies() *policy.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// tally accumulates per-category counters across record workers.
type tally struct {
	valid           atomic.Int64
	expired         atomic.Int64
	archived        atomic.Int64
	archiveFailed   atomic.Int64
	deleteAnomalies atomic.Int64
	indeterminate   atomic.Int64
}

// Run performs one sweep. Partial failures are reported in the Report;
// the returned error is non-nil only for a *FatalError.
func (s *Sweeper) Run(ctx context.Context) (*Report, error) {
	start := s.clock()
	now := start
	table := s.Policies()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	categories := s.categories
	if len(categories) == 0 {
		categories = table.Categories()
	}

	s.logger.InfoContext(ctx, "starting expiry sweep",
		"categories", len(categories),
		"dry_run", s.dryRun,
		"strict_archived_count", s.strict,
	)

	reports := make([]CategoryReport, len(categories))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, category := range categories {
		g.Go(func() error {
			reports[i] = s.sweepCategory(ctx, table, category, now)
			if s.progress != nil {
				s.progress(reports[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		RunID:      runID,
		Categories: reports,
		DryRun:     s.dryRun,
	}
	summary := &report.Summary
	summary.CheckTime = now
	summary.CategoriesChecked = len(categories)
	summary.NextCheckRecommended = now.Add(s.nextCheck)

	var (
		listed      bool
		unavailable []string
		firstCause  error
	)
	for _, r := range reports {
		summary.ValidCount += r.Valid
		summary.ExpiredCount += r.Expired
		summary.ArchivedCount += r.Archived
		summary.ArchiveFailedCount += r.ArchiveFailed
		summary.DeleteAnomalyCount += r.DeleteAnomalies
		summary.IndeterminateCount += r.Indeterminate

		if r.Listed {
			listed = true
		}
		if r.Err != nil {
			summary.CategoriesFailed = append(summary.CategoriesFailed, r.Category)
			if records.IsUnavailable(r.Err) {
				unavailable = append(unavailable, r.Category)
				if firstCause == nil {
					firstCause = r.Err
				}
			}
		}
	}

	if !listed && len(unavailable) > 0 {
		summary.Duration = s.clock().Sub(start)
		s.metrics.RecordSweep("fatal", summary.Duration, 0, s.clock())
		fatal := &FatalError{Categories: unavailable, Cause: firstCause}
		s.logger.ErrorContext(ctx, "expiry sweep aborted", "error", fatal)
		return report, fatal
	}

	if !s.dryRun {
		s.writeSummary(ctx, report, now)
	}

	summary.Duration = s.clock().Sub(start)

	result := "success"
	if report.Failed() {
		result = "partial"
	}
	s.metrics.RecordSweep(result, summary.Duration, summary.ArchivedCount, s.clock())

	s.logger.InfoContext(ctx, "expiry sweep completed",
		"result", result,
		"categories_checked", summary.CategoriesChecked,
		"expired_count", summary.ExpiredCount,
		"archived_count", summary.ArchivedCount,
		"failed_to_archive", summary.FailedToArchive(),
		"indeterminate_count", summary.IndeterminateCount,
		"delete_anomaly_count", summary.DeleteAnomalyCount,
		"categories_failed", len(summary.CategoriesFailed),
		"duration", summary.Duration,
	)

	return report, nil
}

func (s *Sweeper) writeSummary(ctx context.Context, report *Report, now time.Time) {
	key := SummaryKey(now)
	if err := s.store.Write(ctx, records.ChecksNamespace, key, report.Summary.ToMap()); err != nil {
		report.SummaryErr = err
		s.logger.ErrorContext(ctx, "failed to store check record",
			"namespace", records.ChecksNamespace,
			"key", key,
			"error", err,
		)
		return
	}

	report.SummaryNamespace = records.ChecksNamespace
	report.SummaryKey = key
	s.logger.InfoContext(ctx, "check record stored",
		"namespace", records.ChecksNamespace,
		"key", key,
	)
}

func (s *Sweeper) sweepCategory(ctx context.Context, table *policy.Table, category string, now time.Time) CategoryReport {
	namespace := records.SourceNamespace(category)
	report := CategoryReport{
		Category:  category,
		Namespace: namespace,
	}
	logger := s.logger.With("category", category)

	pol, err := table.Get(category)
	if err != nil {
		report.Err = err
		s.metrics.RecordCategoryFailure(category, failureReason(err))
		logger.ErrorContext(ctx, "skipping category", "error", err)
		return report
	}
	report.MaxAgeDays = pol.MaxAgeDays

	logger.InfoContext(ctx, "checking category", "max_age_days", pol.MaxAgeDays, "namespace", namespace)

	recs, err := s.store.List(ctx, namespace)
	if err != nil {
		report.Err = err
		s.metrics.RecordCategoryFailure(category, failureReason(err))
		logger.ErrorContext(ctx, "failed to list category", "namespace", namespace, "error", err)
		return report
	}
	report.Listed = true
	report.Records = len(recs)

	keys := make([]string, 0, len(recs))
	for key := range recs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var t tally
	var g errgroup.Group
	g.SetLimit(s.recordWorkers)
	for _, key := range keys {
		rec := recs[key]
		if rec.Key == "" {
			rec.Key = key
		}
		g.Go(func() error {
			s.sweepRecord(ctx, logger, &t, pol, namespace, rec, now)
			return nil
		})
	}
	_ = g.Wait()

	report.Valid = t.valid.Load()
	report.Expired = t.expired.Load()
	report.Archived = t.archived.Load()
	report.ArchiveFailed = t.archiveFailed.Load()
	report.DeleteAnomalies = t.deleteAnomalies.Load()
	report.Indeterminate = t.indeterminate.Load()

	logger.InfoContext(ctx, "category checked",
		"records", report.Records,
		"expired", report.Expired,
		"archived", report.Archived,
		"indeterminate", report.Indeterminate,
	)

	return report
}

func (s *Sweeper) sweepRecord(ctx context.Context, logger *slog.Logger, t *tally, pol policy.Policy, namespace string, rec records.Record, now time.Time) {
	category := pol.Category
	d := expiry.Classify(rec, pol, now)
	s.metrics.RecordEvaluated(category, d.Status.String())

	switch d.Status {
	case expiry.Valid:
		t.valid.Add(1)
		logger.DebugContext(ctx, "record valid", "key", rec.Key, "age_days", d.AgeDays())
		return

	case expiry.Indeterminate:
		t.indeterminate.Add(1)
		logger.WarnContext(ctx, "skipping record", "key", rec.Key, "error", d.Err)
		return
	}

	t.expired.Add(1)
	logger.InfoContext(ctx, "record expired", "key", rec.Key, "age_days", d.AgeDays())

	if s.dryRun {
		return
	}

	res, err := s.archiver.Archive(ctx, category, namespace, rec.Key, rec, pol, s.clock())
	switch {
	case err == nil:
		t.archived.Add(1)
		s.metrics.RecordTransition(category, "archived")
		logger.InfoContext(ctx, "record archived",
			"key", rec.Key,
			"archive_namespace", res.Namespace,
			"archive_key", res.Key,
		)

	case errors.Is(err, archive.ErrSourceDeleteFailed):
		t.deleteAnomalies.Add(1)
		if s.strict {
			t.archiveFailed.Add(1)
		} else {
			t.archived.Add(1)
		}
		s.metrics.RecordTransition(category, "delete_failed")
		logger.WarnContext(ctx, "record archived but source delete failed",
			"key", rec.Key,
			"archive_namespace", res.Namespace,
			"archive_key", res.Key,
			"error", err,
		)

	default:
		t.archiveFailed.Add(1)
		s.metrics.RecordTransition(category, "write_failed")
		logger.ErrorContext(ctx, "failed to archive record",
			"key", rec.Key,
			"error", err,
		)
	}
}
