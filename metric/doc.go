// Package metric provides Prometheus-based metrics collection and an HTTP
// server for StreamKit observability.
//
// The package offers a centralized metrics registry managing both kit-level
// metrics (build info, component liveness, error counts) and component
// specific metrics such as the ring buffer and line sink gauges. It includes
// an HTTP server exposing metrics in Prometheus format for monitoring system
// integration.
//
// # Architecture
//
// The package follows a three-layer design:
//
//  1. Core Metrics: Kit-level metrics automatically registered (Metrics type)
//  2. Component Registry: Extensible registration for component-specific metrics (MetricsRegistrar interface)
//  3. HTTP Server: Metrics endpoint with health checks (Server type)
//
// This architecture separates infrastructure concerns (core metrics) from
// component concerns (buffer and sink metrics) while providing a unified
// metrics endpoint for monitoring systems.
//
// # Basic Usage
//
// Setting up metrics collection and the HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(":9090", "/metrics", registry, logger)
//
//	if err := server.Start(); err != nil {
//	    log.Fatalf("metrics server: %v", err)
//	}
//	defer server.Stop(context.Background())
//
//	// Record kit-level metrics
//	core := registry.CoreMetrics()
//	core.SetBuildInfo("v1.2.0")
//	core.SetComponentUp("linesink", true)
//	core.RecordError("linesink", "transient")
//
// Start binds the listener before returning, so an addr of ":0" picks a
// free port; Address reports the bound address and URL the scrape endpoint.
//
// # Core Metrics
//
// The registry automatically registers three kit-level metrics:
//
//   - streamkit_build_info{version, go_version} - build identity, always 1
//   - streamkit_component_up{component} - component liveness (0=down, 1=up)
//   - streamkit_errors_total{component, class} - errors by classification
//
// The class label carries the kit's error classification (transient,
// invalid, fatal) so dashboards can separate retryable noise from real
// failures:
//
//	core := registry.CoreMetrics()
//	core.RecordError("linesink", errors.Classify(err).String())
//
// # Component-Specific Metrics
//
// Components register custom metrics through the registry:
//
//	writes := prometheus.NewCounter(prometheus.CounterOpts{
//	    Namespace: "streamkit",
//	    Subsystem: "ring",
//	    Name:      "writes_total",
//	    Help:      "Total elements written",
//	})
//	err := registry.RegisterCounter("capture-ring", "writes_total", writes)
//
// Registration is keyed by (component, metric) pairs; registering the same
// pair twice returns an invalid-class error. Vector variants
// (RegisterCounterVec, RegisterGaugeVec, RegisterHistogramVec) cover
// labelled metrics.
//
// # HTTP Server
//
// The metrics server provides three endpoints:
//
//   - GET / - HTML page with links to metrics and health endpoints
//   - GET /metrics - Prometheus formatted metrics (path configurable)
//   - GET /health - plain "OK" liveness response
//
// Server lifecycle:
//
//	server := metric.NewServer(":9090", "/metrics", registry, logger)
//
//	if err := server.Start(); err != nil {
//	    return err
//	}
//
//	// later, with a deadline for in-flight scrapes
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//	if err := server.Stop(ctx); err != nil {
//	    logger.Warn("metrics server shutdown", "error", err)
//	}
//
// Start serves in the background and returns immediately after the listener
// is bound. Stopping and restarting the same Server value is supported.
//
// # MetricsRegistrar Interface
//
// Components take the MetricsRegistrar interface for dependency injection:
//
//	func NewSink(reg metric.MetricsRegistrar) (*Sink, error) {
//	    counter := prometheus.NewCounter(...)
//	    if err := reg.RegisterCounter("sink", "lines_total", counter); err != nil {
//	        return nil, err
//	    }
//	    ...
//	}
//
// This enables testing with mock registrars and keeps components decoupled
// from the concrete registry.
//
// # Thread Safety
//
// All registry operations are thread-safe:
//   - Registration methods use mutex protection
//   - Metric recording is lock-free (Prometheus guarantee)
//   - CoreMetrics() returns a thread-safe shared instance
//   - PrometheusRegistry() is safe for concurrent access
//
// # Error Handling
//
// Registration methods return classified errors:
//
//   - Duplicate (component, metric) registration: invalid
//   - Prometheus-level name conflicts: invalid
//   - Other Prometheus registration failures: fatal
//
// Server.Start returns invalid when already running and fatal when the
// listen address cannot be bound. Server.Stop returns transient when the
// graceful shutdown fails, since a retry with a fresh context may succeed.
//
// # Prometheus Integration
//
// Configure Prometheus to scrape the endpoint:
//
//	# prometheus.yml
//	scrape_configs:
//	  - job_name: 'streamkit'
//	    static_configs:
//	      - targets: ['localhost:9090']
//	    metrics_path: '/metrics'
//	    scrape_interval: 15s
//
// All kit metrics use the namespace "streamkit" with per-component
// subsystems (ring, sink, component, errors). Go runtime and process
// collectors are registered automatically.
package metric
