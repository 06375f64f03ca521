package ring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/streamkit/metric"
)

// bufferMetrics holds Prometheus instruments for one buffer instance.
type bufferMetrics struct {
	// Counter metrics - incremented alongside the always-on statistics
	writes    prometheus.Counter
	reads     prometheus.Counter
	peeks     prometheus.Counter
	overflows prometheus.Counter
	drops     prometheus.Counter
	rejects   prometheus.Counter

	// Gauge metrics - updated on operations
	size        prometheus.Gauge
	utilization prometheus.Gauge
}

// newBufferMetrics creates and registers buffer metrics with the provided
// registry. The name identifies the buffer instance via the "buffer"
// const label.
func newBufferMetrics(registry *metric.MetricsRegistry, name string) (*bufferMetrics, error) {
	labels := prometheus.Labels{"buffer": name}
	m := &bufferMetrics{
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "writes_total",
			ConstLabels: labels,
			Help:        "Total number of elements written to the buffer",
		}),
		reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "reads_total",
			ConstLabels: labels,
			Help:        "Total number of elements removed from the buffer",
		}),
		peeks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "peeks_total",
			ConstLabels: labels,
			Help:        "Total number of non-destructive element reads",
		}),
		overflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "overflows_total",
			ConstLabels: labels,
			Help:        "Total number of writes that displaced existing data",
		}),
		drops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "drops_total",
			ConstLabels: labels,
			Help:        "Total number of elements lost to the overwrite policy",
		}),
		rejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "rejects_total",
			ConstLabels: labels,
			Help:        "Total number of rejected write operations",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "size",
			ConstLabels: labels,
			Help:        "Current number of elements in the buffer",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "streamkit",
			Subsystem:   "ring",
			Name:        "utilization",
			ConstLabels: labels,
			Help:        "Buffer fill level as a fraction of capacity (0.0 to 1.0)",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(name, "ring_writes", m.writes); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "ring_reads", m.reads); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "ring_peeks", m.peeks); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "ring_overflows", m.overflows); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "ring_drops", m.drops); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "ring_rejects", m.rejects); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(name, "ring_size", m.size); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(name, "ring_utilization", m.utilization); err != nil {
		return nil, err
	}

	return m, nil
}

// recordWrites adds n to the write counter and updates size/utilization.
func (m *bufferMetrics) recordWrites(n, size, capacity int) {
	m.writes.Add(float64(n))
	m.updateSize(size, capacity)
}

// recordReads adds n to the read counter and updates size/utilization.
func (m *bufferMetrics) recordReads(n, size, capacity int) {
	m.reads.Add(float64(n))
	m.updateSize(size, capacity)
}

// recordPeek increments the peek counter.
func (m *bufferMetrics) recordPeek() {
	m.peeks.Inc()
}

// recordOverflow increments the overflow counter.
func (m *bufferMetrics) recordOverflow() {
	m.overflows.Inc()
}

// recordDrops adds n to the drop counter.
func (m *bufferMetrics) recordDrops(n int) {
	m.drops.Add(float64(n))
}

// recordReject increments the reject counter.
func (m *bufferMetrics) recordReject() {
	m.rejects.Inc()
}

// updateSize sets the current buffer size and utilization.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	if capacity > 0 {
		m.utilization.Set(float64(size) / float64(capacity))
	}
}
