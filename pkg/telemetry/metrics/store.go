package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/patternsweep/pkg/records"
)

// StoreMetrics tracks operations against the record store.
type StoreMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewStoreMetrics creates and registers store metrics with the provided registry.
func NewStoreMetrics(namespace, subsystem string, registry *prometheus.Registry) *StoreMetrics {
	sm := &StoreMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "store_operations_total",
				Help:      "Total number of store operations by backend, operation and result",
			},
			[]string{"backend", "operation", "result"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "store_operation_duration_seconds",
				Help:      "Duration of store operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10), // 0.5ms to ~131s
			},
			[]string{"backend", "operation"},
		),
	}

	registry.MustRegister(sm.operationsTotal, sm.operationDuration)

	return sm
}

// RecordOperation records a completed store operation.
func (sm *StoreMetrics) RecordOperation(backend, operation string, duration time.Duration, err error) {
	if sm == nil {
		return
	}
	sm.operationsTotal.WithLabelValues(backend, operation, operationResult(err)).Inc()
	sm.operationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

func operationResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case records.IsUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}

// InstrumentStore wraps store so every operation is recorded under backend.
// When the collector is disabled the store is returned unchanged.
func (c *Collector) InstrumentStore(store records.Store, backend string) records.Store {
	sm := c.Store()
	if sm == nil {
		return store
	}
	return &instrumentedStore{Store: store, backend: backend, metrics: sm}
}

type instrumentedStore struct {
	records.Store
	backend string
	metrics *StoreMetrics
}

func (s *instrumentedStore) List(ctx context.Context, namespace string) (map[string]records.Record, error) {
	start := time.Now()
	recs, err := s.Store.List(ctx, namespace)
	s.metrics.RecordOperation(s.backend, "list", time.Since(start), err)
	return recs, err
}

func (s *instrumentedStore) Write(ctx context.Context, namespace, key string, value map[string]any) error {
	start := time.Now()
	err := s.Store.Write(ctx, namespace, key, value)
	s.metrics.RecordOperation(s.backend, "write", time.Since(start), err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, namespace, key string) error {
	start := time.Now()
	err := s.Store.Delete(ctx, namespace, key)
	s.metrics.RecordOperation(s.backend, "delete", time.Since(start), err)
	return err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.Store.Ping(ctx)
	s.metrics.RecordOperation(s.backend, "ping", time.Since(start), err)
	return err
}
