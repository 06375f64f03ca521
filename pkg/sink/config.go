package sink

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/pkg/ring"
)

// OverflowPolicy selects what happens when the line buffer is full.
type OverflowPolicy string

const (
	// DropOldest evicts the oldest buffered lines to make room (default).
	DropOldest OverflowPolicy = "drop-oldest"

	// DropNewest rejects incoming lines while the buffer is full.
	DropNewest OverflowPolicy = "drop-newest"
)

// ringPolicy maps the sink-level policy onto the ring buffer policy.
func (p OverflowPolicy) ringPolicy() ring.Policy {
	if p == DropNewest {
		return ring.PreserveOldest
	}
	return ring.OverwriteOldest
}

// Config holds LineSink configuration.
type Config struct {
	// BufferCapacity is the maximum number of buffered lines.
	BufferCapacity int

	// Policy selects the overflow behavior when the buffer is full.
	Policy OverflowPolicy

	// FlushInterval is how often the drain loop wakes up.
	FlushInterval time.Duration

	// BatchSize caps how many lines one drain pass hands to the fanout
	// at a time.
	BatchSize int

	// MaxLineLength bounds a single line in bytes. Longer lines are
	// truncated and counted.
	MaxLineLength int

	// MaxLinesPerSecond caps drained throughput. Zero means unlimited.
	MaxLinesPerSecond int

	// MetricsName identifies this sink in metric labels.
	MetricsName string
}

// DefaultConfig returns sensible defaults for a LineSink.
func DefaultConfig() Config {
	return Config{
		BufferCapacity:    1024,
		Policy:            DropOldest,
		FlushInterval:     100 * time.Millisecond,
		BatchSize:         64,
		MaxLineLength:     64 * 1024,
		MaxLinesPerSecond: 0,
		MetricsName:       "linesink",
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.BufferCapacity <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "LineSink", "Validate",
			fmt.Sprintf("buffer capacity %d must be positive", c.BufferCapacity))
	}

	switch c.Policy {
	case DropOldest, DropNewest:
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "LineSink", "Validate",
			fmt.Sprintf("unknown overflow policy %q", c.Policy))
	}

	if c.FlushInterval <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "LineSink", "Validate",
			fmt.Sprintf("flush interval %v must be positive", c.FlushInterval))
	}

	if c.BatchSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "LineSink", "Validate",
			fmt.Sprintf("batch size %d must be positive", c.BatchSize))
	}

	if c.MaxLineLength <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "LineSink", "Validate",
			fmt.Sprintf("max line length %d must be positive", c.MaxLineLength))
	}

	if c.MaxLinesPerSecond < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "LineSink", "Validate",
			fmt.Sprintf("max lines per second %d cannot be negative", c.MaxLinesPerSecond))
	}

	return nil
}

// fileConfig is the YAML document shape. Durations are strings so config
// files can say "250ms". Pointer fields distinguish absent keys from
// explicit zeros.
type fileConfig struct {
	BufferCapacity    *int    `yaml:"buffer_capacity"`
	Policy            *string `yaml:"policy"`
	FlushInterval     *string `yaml:"flush_interval"`
	BatchSize         *int    `yaml:"batch_size"`
	MaxLineLength     *int    `yaml:"max_line_length"`
	MaxLinesPerSecond *int    `yaml:"max_lines_per_second"`
	MetricsName       *string `yaml:"metrics_name"`
}

// LoadConfig reads a YAML config file (JSON is valid YAML), layers
// STREAMKIT_SINK_* environment overrides on top, and validates the
// result. Keys absent from the file keep their defaults. An empty path
// skips the file entirely; the environment still applies.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		if err := cfg.applyEnvOverrides(); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.WrapInvalid(errors.ErrConfigNotFound, "LineSink", "LoadConfig", path)
		}
		return cfg, errors.WrapInvalid(err, "LineSink", "LoadConfig", "read config file")
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, errors.WrapInvalid(err, "LineSink", "LoadConfig", "parse config file")
	}

	if fc.BufferCapacity != nil {
		cfg.BufferCapacity = *fc.BufferCapacity
	}
	if fc.Policy != nil {
		cfg.Policy = OverflowPolicy(*fc.Policy)
	}
	if fc.FlushInterval != nil {
		d, err := time.ParseDuration(*fc.FlushInterval)
		if err != nil {
			return cfg, errors.WrapInvalid(err, "LineSink", "LoadConfig", "parse flush_interval")
		}
		cfg.FlushInterval = d
	}
	if fc.BatchSize != nil {
		cfg.BatchSize = *fc.BatchSize
	}
	if fc.MaxLineLength != nil {
		cfg.MaxLineLength = *fc.MaxLineLength
	}
	if fc.MaxLinesPerSecond != nil {
		cfg.MaxLinesPerSecond = *fc.MaxLinesPerSecond
	}
	if fc.MetricsName != nil {
		cfg.MetricsName = *fc.MetricsName
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// applyEnvOverrides applies STREAMKIT_SINK_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if val := os.Getenv("STREAMKIT_SINK_BUFFER_CAPACITY"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return errors.WrapInvalid(err, "LineSink", "LoadConfig", "parse STREAMKIT_SINK_BUFFER_CAPACITY")
		}
		c.BufferCapacity = n
	}
	if val := os.Getenv("STREAMKIT_SINK_POLICY"); val != "" {
		c.Policy = OverflowPolicy(val)
	}
	if val := os.Getenv("STREAMKIT_SINK_FLUSH_INTERVAL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return errors.WrapInvalid(err, "LineSink", "LoadConfig", "parse STREAMKIT_SINK_FLUSH_INTERVAL")
		}
		c.FlushInterval = d
	}
	if val := os.Getenv("STREAMKIT_SINK_BATCH_SIZE"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return errors.WrapInvalid(err, "LineSink", "LoadConfig", "parse STREAMKIT_SINK_BATCH_SIZE")
		}
		c.BatchSize = n
	}
	if val := os.Getenv("STREAMKIT_SINK_MAX_LINE_LENGTH"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return errors.WrapInvalid(err, "LineSink", "LoadConfig", "parse STREAMKIT_SINK_MAX_LINE_LENGTH")
		}
		c.MaxLineLength = n
	}
	if val := os.Getenv("STREAMKIT_SINK_MAX_LINES_PER_SECOND"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return errors.WrapInvalid(err, "LineSink", "LoadConfig", "parse STREAMKIT_SINK_MAX_LINES_PER_SECOND")
		}
		c.MaxLinesPerSecond = n
	}
	if val := os.Getenv("STREAMKIT_SINK_METRICS_NAME"); val != "" {
		c.MetricsName = val
	}
	return nil
}
