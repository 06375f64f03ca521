// Package main implements the linesink entry point. linesink reads
// lines from stdin into a ring-buffered LineSink and mirrors them to
// stdout and any -out files, serving Prometheus metrics on the side.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/streamkit/metric"
	"github.com/c360/streamkit/pkg/hexdump"
	"github.com/c360/streamkit/pkg/sink"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "linesink"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Run application with proper error handling
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	// Parse and validate CLI flags
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	// Load and validate sink configuration
	cfg, err := sink.LoadConfig(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	// One registry backs both the sink instruments and the HTTP endpoint
	registry := metric.NewMetricsRegistry()
	registry.CoreMetrics().SetBuildInfo(Version)

	lineSink, err := sink.New(cfg, registry, logger)
	if err != nil {
		return fmt.Errorf("create sink: %w", err)
	}

	files, err := openOutputs(cliCfg.Outputs)
	if err != nil {
		return err
	}
	// Outputs stay open until the sink has drained; run returns only
	// after the pipeline stopped.
	defer closeOutputs(files)

	lineSink.Attach(os.Stdout)
	for _, f := range files {
		lineSink.Attach(f)
	}

	if cliCfg.MetricsAddr != "" {
		metricsServer := metric.NewServer(cliCfg.MetricsAddr, "/metrics", registry, logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer stopMetricsServer(metricsServer)
	}

	return runPipeline(context.Background(), lineSink, cliCfg)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting linesink (buffered line mirror)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// runPipeline starts the sink, pumps stdin into it, and drains on EOF
// or shutdown signal.
func runPipeline(ctx context.Context, lineSink *sink.LineSink, cliCfg *CLIConfig) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if err := lineSink.Start(signalCtx); err != nil {
		return fmt.Errorf("start sink: %w", err)
	}

	slog.Info("Mirroring stdin", "hex", cliCfg.Hex, "extra_outputs", len(cliCfg.Outputs))

	// Pump stdin from its own goroutine. A blocked stdin read cannot be
	// interrupted, so shutdown must not wait on it.
	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- pump(lineSink, os.Stdin, cliCfg.Hex)
	}()

	var pumpFailure error
	select {
	case err := <-pumpErr:
		if err != nil {
			pumpFailure = err
		} else {
			slog.Info("Input drained (EOF)")
		}
	case <-signalCtx.Done():
		slog.Info("Received shutdown signal")
	}

	// Commit a trailing partial line before the final drain
	_ = lineSink.Close()

	if err := lineSink.Stop(cliCfg.DrainTimeout); err != nil {
		return fmt.Errorf("stop sink: %w", err)
	}

	stats := lineSink.Stats()
	slog.Info("linesink shutdown complete",
		"lines_in", stats.LinesIn,
		"lines_out", stats.LinesOut,
		"truncated", stats.LinesTruncated,
		"dropped", stats.LinesDropped,
		"write_errors", stats.WriteErrors)

	if pumpFailure != nil {
		return fmt.Errorf("read stdin: %w", pumpFailure)
	}
	return nil
}

// pump copies src into the sink until EOF. In hex mode each line is
// rendered as an addressed hex dump whose offsets track the line's
// position in the stream.
func pump(dst *sink.LineSink, src io.Reader, hex bool) error {
	if !hex {
		_, err := io.Copy(dst, src)
		return err
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var offset uint32
	for scanner.Scan() {
		line := scanner.Bytes()
		_, _ = dst.Write([]byte(hexdump.String("D", "stdin", offset, line)))
		offset += uint32(len(line) + 1)
	}
	return scanner.Err()
}

// openOutputs opens each -out file for append, creating missing ones
func openOutputs(paths []string) ([]*os.File, error) {
	files := make([]*os.File, 0, len(paths))
	for _, path := range paths {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			closeOutputs(files)
			return nil, fmt.Errorf("open output %s: %w", path, err)
		}
		files = append(files, f)
	}
	return files, nil
}

func closeOutputs(files []*os.File) {
	for _, f := range files {
		if err := f.Close(); err != nil {
			slog.Warn("Close output failed", "path", f.Name(), "error", err)
		}
	}
}

func stopMetricsServer(server *metric.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		slog.Warn("Metrics server stop failed", "error", err)
	}
}
