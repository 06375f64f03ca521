// Package streamkit provides bounded, observable building blocks for
// line- and record-oriented streaming pipelines.
//
// # Philosophy: Bounded By Construction
//
// StreamKit is built around one primitive: a fixed-capacity mirrored
// ring buffer with an explicit overflow policy. Everything else in the
// module (the line sink, the retry helper, the metrics plumbing) exists
// to move data into and out of that primitive safely:
//
//   - Producers never block: when the buffer is full, the configured
//     policy either evicts the oldest element or rejects the newest.
//   - Consumers drain in batches and own what they read.
//   - Every loss is counted. Overwrites, rejections, and truncations
//     are visible in statistics and Prometheus metrics, never silent.
//
// StreamKit does not contain:
//   - Unbounded queues or implicit goroutine-per-element fanout
//   - Wire protocols or brokers (bring your own io.Writer)
//   - Domain assumptions about what the buffered elements mean
//
// # Architecture
//
// The core pipeline shape, as assembled by the sink package and the
// linesink binary:
//
//	┌──────────────┐   Write / WriteLine   ┌─────────────────┐
//	│  Producers   ├──────────────────────→│  ring.Buffer[T] │
//	│ (any number) │     never blocks      │  fixed capacity │
//	└──────────────┘                       └────────┬────────┘
//	                                                │ ReadTo (batch)
//	                                                ↓
//	                                       ┌─────────────────┐
//	                                       │   drain loop    │
//	                                       │ (rate, retry)   │
//	                                       └────────┬────────┘
//	                     ┌──────────────────────────┼──────────┐
//	                     ↓                          ↓          ↓
//	                ┌─────────┐                ┌─────────┐ ┌─────────┐
//	                │ stdout  │                │  file   │ │ net.Conn│
//	                │ client  │                │ client  │ │ client  │
//	                └─────────┘                └─────────┘ └─────────┘
//
// The buffer stores elements in a doubled backing array so every
// logical window is also available as one contiguous slice, which keeps
// batch reads allocation-free.
//
// # Packages
//
// Core:
//   - pkg/ring: generic mirrored ring buffer with overflow policies
//   - pkg/sink: line-oriented fanout sink built on the ring buffer
//
// Infrastructure:
//   - metric: Prometheus registry, core metrics, HTTP endpoint
//   - errors: structured error wrapping and classification
//   - pkg/retry: backoff with jitter for transient failures
//
// Utilities:
//   - pkg/hexdump: addressed hex dumps for debugging payloads
//   - testutil: deterministic fixtures shared by package tests
//
// # Usage Patterns
//
// Bounded buffering:
//
//	buf, _ := ring.New[string](1024, ring.WithPolicy[string](ring.OverwriteOldest))
//	buf.Push("hello")
//
//	batch := make([]string, 64)
//	n := buf.ReadTo(batch)
//	process(batch[:n])
//
// Line mirroring:
//
//	s, _ := sink.New(sink.DefaultConfig(), registry, logger)
//	s.Attach(os.Stdout)
//	s.Start(ctx)
//	defer s.Stop(5 * time.Second)
//
//	io.Copy(s, conn) // lines fan out to every attached writer
//
// Observability:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(":9090", "/metrics", registry, logger)
//	server.Start()
//
// # Design Principles
//
// Losses are data:
//   - Full buffers drop according to policy, and drops are counted
//   - Truncated lines are delivered truncated, and counted
//   - Statistics are cheap enough to read in hot paths
//
// Composition over configuration:
//   - The ring knows nothing about lines
//   - The sink knows nothing about transports
//   - Clients are plain io.Writers
//
// Testability:
//   - Explicit dependencies (no globals)
//   - Metrics optional via nil registry
//   - Deterministic fixtures in testutil
//
// # Binary
//
// linesink demonstrates the full stack as a stdin line mirror:
//
//	# Follow a log and keep a copy
//	tail -f app.log | linesink -out copy.log
//
//	# Inspect opaque input as addressed hex frames
//	linesink -hex < payload.bin
//
//	# Prometheus metrics while it runs
//	curl localhost:9090/metrics
//
// # Version
//
// Current: v0.1.0
package streamkit
