package ring

import (
	"github.com/c360/streamkit/metric"
)

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds construction-time configuration.
// Stats are ALWAYS collected - they are not optional.
// Metrics are optional and exposed via WithMetrics().
type bufferOptions[T any] struct {
	policy       Policy
	dropCallback DropCallback[T]

	// metricsReg is optional - if provided, buffer stats are also
	// exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsName is used as the buffer label for Prometheus metrics
	metricsName string
}

// WithPolicy sets the overflow behavior for the buffer.
// Defaults to OverwriteOldest if not specified.
func WithPolicy[T any](policy Policy) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.policy = policy
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// The name becomes the value of the "buffer" const label, identifying
// this instance. If registry is nil or name is empty, the option is
// ignored.
func WithMetrics[T any](registry *metric.MetricsRegistry, name string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil && name != "" {
			opts.metricsReg = registry
			opts.metricsName = name
		}
	}
}

// WithDropCallback sets a callback invoked for each element evicted by
// the OverwriteOldest policy. The callback runs after the buffer lock
// has been released.
func WithDropCallback[T any](callback DropCallback[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.dropCallback = callback
	}
}

// applyOptions applies functional options to build the final
// configuration. Internal helper used by New.
func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{
		policy: OverwriteOldest, // Sensible default
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
