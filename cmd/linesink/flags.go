package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath   string
	LogLevel     string
	LogFormat    string
	Debug        bool
	MetricsAddr  string
	DrainTimeout time.Duration
	Outputs      stringList
	Hex          bool
	ShowVersion  bool
	ShowHelp     bool
	Validate     bool
}

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("STREAMKIT_CONFIG", ""),
		"Path to sink configuration file, empty for defaults (env: STREAMKIT_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("STREAMKIT_CONFIG", ""),
		"Path to sink configuration file, empty for defaults (env: STREAMKIT_CONFIG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("STREAMKIT_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: STREAMKIT_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("STREAMKIT_LOG_FORMAT", "text"),
		"Log format: json, text (env: STREAMKIT_LOG_FORMAT)")

	flag.BoolVar(&cfg.Debug, "debug",
		getEnvBool("STREAMKIT_DEBUG", false),
		"Enable debug mode (env: STREAMKIT_DEBUG)")

	flag.StringVar(&cfg.MetricsAddr, "metrics-addr",
		getEnv("STREAMKIT_METRICS_ADDR", ":9090"),
		"Metrics listen address, empty to disable (env: STREAMKIT_METRICS_ADDR)")

	flag.DurationVar(&cfg.DrainTimeout, "drain-timeout",
		getEnvDuration("STREAMKIT_DRAIN_TIMEOUT", 5*time.Second),
		"Graceful drain timeout on shutdown (env: STREAMKIT_DRAIN_TIMEOUT)")

	flag.Var(&cfg.Outputs, "out",
		"Mirror lines to this file in addition to stdout, repeatable")

	flag.BoolVar(&cfg.Hex, "hex",
		getEnvBool("STREAMKIT_HEX", false),
		"Render each input line as an addressed hex dump (env: STREAMKIT_HEX)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	// Override log level if debug is set
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	// Validate config file exists when one was named
	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	// Validate log level
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	// Validate log format
	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.DrainTimeout <= 0 {
		return fmt.Errorf("invalid drain timeout: %s", cfg.DrainTimeout)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - buffered line mirror

Reads lines from stdin into a ring-buffered sink and mirrors them to
stdout and any -out files. Logs go to stderr.

Usage: %s [options] < input

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Follow a log and keep a copy
  tail -f app.log | %s -out copy.log

  # Inspect binary-ish input as addressed hex frames
  %s -hex < payload.bin

  # Tune the sink via config file
  %s -config sink.yaml < input.txt

  # Environment variables instead of flags
  export STREAMKIT_LOG_LEVEL=debug
  export STREAMKIT_SINK_BUFFER_CAPACITY=4096
  %s < input.txt

  # Validate a configuration only
  %s -config sink.yaml -validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
