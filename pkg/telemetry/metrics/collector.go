package metrics

import (
	"mercator-hq/patternsweep/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the registry and every metric group registered on it.
// A nil *Collector is valid and records nothing.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	sweepMetrics *SweepMetrics
	storeMetrics *StoreMetrics
}

// NewCollector creates a collector with the specified configuration and
// Prometheus registry. If registry is nil, a new registry is created with
// the Go runtime and process collectors attached.
//
// Example:
//
//	collector := metrics.NewCollector(&config.MetricsConfig{
//		Namespace: "patternsweep",
//		Subsystem: "sweep",
//	}, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}
	subsystem := cfg.Subsystem
	if subsystem == "" {
		subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		enabled:  cfg.Enabled == nil || *cfg.Enabled,
		registry: registry,
	}
	c.sweepMetrics = NewSweepMetrics(namespace, subsystem, registry)
	c.storeMetrics = NewStoreMetrics(namespace, subsystem, registry)
	return c
}

// Enabled reports whether the collector records observations.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// Sweep returns the sweep metric group, or nil when disabled. The result
// satisfies sweep.Metrics.
func (c *Collector) Sweep() *SweepMetrics {
	if !c.Enabled() {
		return nil
	}
	return c.sweepMetrics
}

// Store returns the store metric group, or nil when disabled.
func (c *Collector) Store() *StoreMetrics {
	if !c.Enabled() {
		return nil
	}
	return c.storeMetrics
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
