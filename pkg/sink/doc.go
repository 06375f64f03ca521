// Package sink provides a multi-client line sink: an io.Writer that
// buffers complete output lines in a ring buffer while a background
// drain loop fans them out to attached consumers.
//
// # Overview
//
// LineSink sits between fast producers and slow transports. Producers
// write through the standard io.Writer interface (or WriteLine for a
// single line) and never block; a bounded ring.Buffer[[]byte] absorbs
// bursts and applies the configured overflow policy when consumers fall
// behind. The drain loop wakes at FlushInterval, reads lines in batches
// and writes each batch to every attached client.
//
// # Quick Start
//
//	cfg := sink.DefaultConfig()
//	cfg.FlushInterval = 50 * time.Millisecond
//
//	s, err := sink.New(cfg, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	id := s.Attach(os.Stdout)
//	defer s.Detach(id)
//
//	if err := s.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer s.Stop(5 * time.Second)
//
//	fmt.Fprintln(s, "hello")
//	s.WriteLine("world")
//
// # Line Framing
//
// Write splits its input on line feeds. A trailing fragment without a
// line feed is carried over and completed by later writes, bounded by
// MaxLineLength: a line growing past the bound is truncated at the
// bound, the excess is discarded, and the truncation is counted. Each
// complete line is stored as its own owned copy, so callers may reuse
// their buffers immediately. Close commits whatever fragment is still
// carried, which keeps io.Copy pipelines from losing an unterminated
// final line.
//
// # Clients
//
// Attach registers any io.Writer and returns a uuid handle; Detach
// removes it. Every drained line is written to every client,
// newline-terminated, concurrently per batch. Transient write errors
// are retried with short backoff; a client that keeps failing is
// detached automatically and the detachment is logged. Drain passes are
// serialized, so an individual client never sees interleaved writes.
//
// # Lifecycle
//
// Start spawns the drain loop; Stop signals it, waits for it to exit
// and performs a final synchronous drain, all bounded by the Stop
// timeout. Starting a running sink or stopping a stopped one fails with
// a classified lifecycle error. Flush drains synchronously at any time,
// with or without the loop.
//
// # Rate Limiting
//
// MaxLinesPerSecond caps drained throughput using golang.org/x/time/rate.
// The limiter paces whole batches, with a burst of one batch. Zero
// disables pacing.
//
// # Configuration
//
// Config is validated with Validate and has defaults via DefaultConfig.
// LoadConfig reads a YAML file (JSON is valid YAML) and then applies
// STREAMKIT_SINK_* environment overrides, so deployments can tune a
// sink without editing files:
//
//	buffer_capacity: 4096
//	policy: drop-oldest
//	flush_interval: 100ms
//	batch_size: 64
//
// # Observability
//
// Logging goes through log/slog (nil logger falls back to
// slog.Default()). With a metric registry and a MetricsName the sink
// exports lines_in_total, lines_out_total, lines_truncated_total,
// write_errors_total, a clients gauge and a flush_duration_seconds
// histogram, plus the underlying ring buffer metrics under the same
// name. Stats() returns the always-on counter snapshot for programmatic
// access and tests.
package sink
