// Package sweep orchestrates expiry sweeps over the record store.
//
// A sweep visits every configured category, lists its live namespace,
// classifies each record against the category's policy and archives the
// expired ones. Failures are contained at the narrowest scope:
//
//   - An unknown category or a failed listing affects only that category.
//   - A failed archive write or source delete affects only that record.
//   - A failed summary write is reported but does not fail the run.
//
// The run fails as a whole only when no category could be listed and at
// least one listing failed because the store was unavailable. In that case
// Run returns a *FatalError wrapping ErrStoreUnavailable and no summary is
// written.
//
// # Counters
//
// expired_count counts every Expired classification. archived_count counts
// records whose archive write succeeded. A record whose source delete failed
// is counted as archived (and in delete_anomaly_count) unless strict counting
// is enabled, in which case it counts as expired but not archived.
//
// # Scheduling
//
// Scheduler runs a Sweeper on a cron expression using robfig/cron. Runs never
// overlap: a tick that arrives while a run is in progress is skipped.
package sweep
