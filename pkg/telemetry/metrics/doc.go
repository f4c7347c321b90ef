// Package metrics exposes Prometheus metrics for expiry sweeps and store
// traffic.
//
// All metrics are registered on a private registry owned by the Collector,
// so tests and embedded uses never collide with the global registry.
//
// Metrics (with the default namespace and subsystem):
//   - patternsweep_sweep_runs_total{result}
//   - patternsweep_sweep_duration_seconds
//   - patternsweep_sweep_last_run_timestamp_seconds
//   - patternsweep_sweep_last_run_archived
//   - patternsweep_sweep_records_evaluated_total{category,status}
//   - patternsweep_sweep_archive_transitions_total{category,outcome}
//   - patternsweep_sweep_category_failures_total{category,reason}
//   - patternsweep_sweep_store_operations_total{backend,operation,result}
//   - patternsweep_sweep_store_operation_duration_seconds{backend,operation}
//
// Usage:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	sweeper := sweep.New(collector.InstrumentStore(store, "sqlite"), table,
//	    sweep.WithMetrics(collector.Sweep()))
//	router.Handle("/metrics", collector.Handler())
package metrics
