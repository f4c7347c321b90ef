// Package telemetry groups the observability packages used by patternsweep.
//
// # Components
//
//   - logging: slog construction, run correlation and credential redaction
//   - metrics: Prometheus metrics for sweeps and store operations
//   - health: liveness, readiness and version endpoints
//
// # Usage
//
//	logger, _ := logging.New(logging.Config{Level: "info", Format: "json"})
//	slog.SetDefault(logger)
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	store = collector.InstrumentStore(store, cfg.Store.Backend)
//	sweeper := sweep.New(store, table, sweep.WithMetrics(collector.Sweep()))
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("store", health.StoreCheck(store))
//
// One-shot sweeps only use logging; the scheduled mode wires all three.
package telemetry
