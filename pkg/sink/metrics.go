package sink

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/streamkit/metric"
)

// sinkMetrics holds Prometheus instruments for one sink instance.
type sinkMetrics struct {
	name string
	core *metric.Metrics

	linesIn        prometheus.Counter
	linesOut       prometheus.Counter
	linesTruncated prometheus.Counter
	writeErrors    *prometheus.CounterVec
	clients        prometheus.Gauge
	flushDuration  prometheus.Histogram
}

// newSinkMetrics creates and registers sink metrics with the provided
// registry. A nil registry disables metrics entirely.
func newSinkMetrics(registry *metric.MetricsRegistry, name string) (*sinkMetrics, error) {
	if registry == nil {
		return nil, nil
	}

	labels := prometheus.Labels{"sink": name}
	m := &sinkMetrics{
		name: name,
		core: registry.CoreMetrics(),

		linesIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "sink",
			Name:        "lines_in_total",
			ConstLabels: labels,
			Help:        "Total complete lines accepted by the sink",
		}),
		linesOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "sink",
			Name:        "lines_out_total",
			ConstLabels: labels,
			Help:        "Total lines drained from the buffer and dispatched to clients",
		}),
		linesTruncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "sink",
			Name:        "lines_truncated_total",
			ConstLabels: labels,
			Help:        "Total lines cut at the configured maximum length",
		}),
		writeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "streamkit",
			Subsystem:   "sink",
			Name:        "write_errors_total",
			ConstLabels: labels,
			Help:        "Total failed client write attempts",
		}, []string{"class"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "streamkit",
			Subsystem:   "sink",
			Name:        "clients",
			ConstLabels: labels,
			Help:        "Number of currently attached clients",
		}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "streamkit",
			Subsystem:   "sink",
			Name:        "flush_duration_seconds",
			ConstLabels: labels,
			Help:        "Time to fan one drained batch out to all clients",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
	}

	if err := registry.RegisterCounter(name, "sink_lines_in", m.linesIn); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "sink_lines_out", m.linesOut); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(name, "sink_lines_truncated", m.linesTruncated); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(name, "sink_write_errors", m.writeErrors); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(name, "sink_clients", m.clients); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(name, "sink_flush_duration", m.flushDuration); err != nil {
		return nil, err
	}

	return m, nil
}

// recordLineIn increments the accepted line counter.
func (m *sinkMetrics) recordLineIn() {
	m.linesIn.Inc()
}

// recordTruncated increments the truncation counter.
func (m *sinkMetrics) recordTruncated() {
	m.linesTruncated.Inc()
}

// recordFlush observes one drained batch.
func (m *sinkMetrics) recordFlush(d time.Duration, lines int) {
	m.flushDuration.Observe(d.Seconds())
	m.linesOut.Add(float64(lines))
}

// recordWriteError counts one failed client write attempt and feeds the
// kit-wide error counter.
func (m *sinkMetrics) recordWriteError(class string) {
	m.writeErrors.WithLabelValues(class).Inc()
	m.core.RecordError(m.name, class)
}

// setClients updates the attached client gauge.
func (m *sinkMetrics) setClients(n int) {
	m.clients.Set(float64(n))
}

// setUp reports sink liveness through the kit-wide component gauge.
func (m *sinkMetrics) setUp(up bool) {
	m.core.SetComponentUp(m.name, up)
}
