package metric

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the kit-level metrics every binary built on streamkit
// exposes. Component-specific metrics (ring buffers, sinks) are registered
// separately through the MetricsRegistrar interface.
type Metrics struct {
	BuildInfo   *prometheus.GaugeVec
	ComponentUp *prometheus.GaugeVec
	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all kit-level metrics
func NewMetrics() *Metrics {
	return &Metrics{
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streamkit",
				Name:      "build_info",
				Help:      "Build information (value is always 1, labels carry the details)",
			},
			[]string{"version", "go_version"},
		),

		ComponentUp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "streamkit",
				Subsystem: "component",
				Name:      "up",
				Help:      "Component liveness (0=down, 1=up)",
			},
			[]string{"component"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "streamkit",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by component and classification",
			},
			[]string{"component", "class"},
		),
	}
}

// SetBuildInfo publishes the binary version. The go_version label is filled
// in from the running toolchain.
func (c *Metrics) SetBuildInfo(version string) {
	c.BuildInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// SetComponentUp updates component liveness
func (c *Metrics) SetComponentUp(component string, up bool) {
	value := 0.0
	if up {
		value = 1.0
	}
	c.ComponentUp.WithLabelValues(component).Set(value)
}

// RecordError increments the error counter for a component. The class label
// is an error classification string such as "transient", "invalid" or "fatal"
// (see the errors package ErrorClass).
func (c *Metrics) RecordError(component, class string) {
	c.ErrorsTotal.WithLabelValues(component, class).Inc()
}
