package sink

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/c360/streamkit/errors"
	"github.com/c360/streamkit/metric"
	"github.com/c360/streamkit/pkg/retry"
	"github.com/c360/streamkit/pkg/ring"
)

// client is one attached writer.
type client struct {
	id         uuid.UUID
	w          io.Writer
	attachedAt time.Time
}

// LineSink buffers complete lines in a ring buffer and fans them out to
// attached writers from a background drain loop.
//
// Producers write through the io.Writer interface or WriteLine; both are
// safe for concurrent use and never block on consumers. Drain passes are
// serialized, so each client sees sequential writes even when Flush
// overlaps the drain loop.
type LineSink struct {
	config   Config
	logger   *slog.Logger
	buf      *ring.Buffer[[]byte]
	limiter  *rate.Limiter
	retryCfg retry.Config
	metrics  *sinkMetrics

	// Write-side carry of an incomplete line.
	writeMu   sync.Mutex
	carry     []byte
	truncated bool

	clientsMu sync.RWMutex
	clients   map[uuid.UUID]*client

	// lifecycleMu serializes Start/Stop; mu guards the running flag
	// and the shutdown channels.
	lifecycleMu sync.Mutex
	mu          sync.RWMutex
	running     bool
	shutdown    chan struct{}
	done        chan struct{}

	// drainMu serializes drain passes; scratch and payload are reused
	// under it.
	drainMu sync.Mutex
	scratch [][]byte
	payload []byte

	linesIn        atomic.Int64
	linesOut       atomic.Int64
	linesTruncated atomic.Int64
	writeErrors    atomic.Int64
}

var _ io.WriteCloser = (*LineSink)(nil)

// New creates a LineSink from cfg. A nil registry or an empty
// Config.MetricsName disables metrics; a nil logger falls back to
// slog.Default().
func New(cfg Config, registry *metric.MetricsRegistry, logger *slog.Logger) (*LineSink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	options := []ring.Option[[]byte]{ring.WithPolicy[[]byte](cfg.Policy.ringPolicy())}
	if registry != nil && cfg.MetricsName != "" {
		options = append(options, ring.WithMetrics[[]byte](registry, cfg.MetricsName))
	}
	buf, err := ring.New[[]byte](cfg.BufferCapacity, options...)
	if err != nil {
		return nil, errors.Wrap(err, "LineSink", "New", "create line buffer")
	}

	var metrics *sinkMetrics
	if cfg.MetricsName != "" {
		metrics, err = newSinkMetrics(registry, cfg.MetricsName)
		if err != nil {
			return nil, errors.Wrap(err, "LineSink", "New", "register metrics")
		}
	}

	var limiter *rate.Limiter
	if cfg.MaxLinesPerSecond > 0 {
		// Burst must cover one full batch or WaitN can never succeed.
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxLinesPerSecond), cfg.BatchSize)
	}

	return &LineSink{
		config:  cfg,
		logger:  logger,
		buf:     buf,
		limiter: limiter,
		retryCfg: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 10 * time.Millisecond,
			MaxDelay:     100 * time.Millisecond,
			Multiplier:   2.0,
			AddJitter:    true,
		},
		metrics: metrics,
		clients: make(map[uuid.UUID]*client),
		scratch: make([][]byte, cfg.BatchSize),
	}, nil
}

// Write implements io.Writer. Bytes are split on line feeds; each
// complete line is buffered and a trailing partial line is carried over
// to the next call. Write always accepts the full slice; lines lost to
// the overflow policy are visible through Stats, not the return value.
func (s *LineSink) Write(p []byte) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	total := len(p)
	for {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			s.appendCarry(p)
			return total, nil
		}
		s.appendCarry(p[:i])
		s.commitCarry()
		p = p[i+1:]
	}
}

// WriteLine buffers one complete line directly, bypassing the carry
// state. The string must not contain a line feed. It reports whether
// the buffer accepted the line; under DropNewest a full buffer rejects
// it.
func (s *LineSink) WriteLine(line string) bool {
	truncated := false
	if len(line) > s.config.MaxLineLength {
		line = line[:s.config.MaxLineLength]
		truncated = true
	}
	return s.acceptLine([]byte(line), truncated)
}

// Close commits a partial line still held by the carry buffer, so
// pipelines built on io.Copy do not lose an unterminated final line.
// It does not stop the drain loop or detach clients; the sink stays
// usable after Close.
func (s *LineSink) Close() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if len(s.carry) > 0 {
		s.commitCarry()
	}
	return nil
}

// appendCarry extends the carried partial line, enforcing MaxLineLength.
func (s *LineSink) appendCarry(chunk []byte) {
	room := s.config.MaxLineLength - len(s.carry)
	if room <= 0 {
		if len(chunk) > 0 {
			s.truncated = true
		}
		return
	}
	if len(chunk) > room {
		chunk = chunk[:room]
		s.truncated = true
	}
	s.carry = append(s.carry, chunk...)
}

// commitCarry buffers the carried line as an owned copy and resets the
// carry state.
func (s *LineSink) commitCarry() {
	line := make([]byte, len(s.carry))
	copy(line, s.carry)
	s.carry = s.carry[:0]

	wasTruncated := s.truncated
	s.truncated = false

	s.acceptLine(line, wasTruncated)
}

// acceptLine counts and buffers one complete, owned line.
func (s *LineSink) acceptLine(line []byte, truncated bool) bool {
	s.linesIn.Add(1)
	if s.metrics != nil {
		s.metrics.recordLineIn()
	}
	if truncated {
		s.linesTruncated.Add(1)
		if s.metrics != nil {
			s.metrics.recordTruncated()
		}
	}
	return s.buf.Push(line)
}

// Attach registers a writer to receive every drained line,
// newline-terminated. The returned id detaches the client again.
func (s *LineSink) Attach(w io.Writer) uuid.UUID {
	c := &client{id: uuid.New(), w: w, attachedAt: time.Now()}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	n := len(s.clients)
	s.clientsMu.Unlock()

	if s.metrics != nil {
		s.metrics.setClients(n)
	}
	s.logger.Debug("client attached", "client", c.id, "clients", n)
	return c.id
}

// Detach removes a client. It reports whether the id was attached.
func (s *LineSink) Detach(id uuid.UUID) bool {
	s.clientsMu.Lock()
	_, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
	}
	n := len(s.clients)
	s.clientsMu.Unlock()

	if !ok {
		return false
	}
	if s.metrics != nil {
		s.metrics.setClients(n)
	}
	s.logger.Debug("client detached", "client", id, "clients", n)
	return true
}

// Start spawns the drain loop. Starting twice fails with a classified
// lifecycle error.
func (s *LineSink) Start(ctx context.Context) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if ctx == nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "LineSink", "Start", "context cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "LineSink", "Start", "context already cancelled")
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.WrapInvalid(errors.ErrAlreadyStarted, "LineSink", "Start", "drain loop already running")
	}
	s.running = true
	s.shutdown = make(chan struct{})
	s.done = make(chan struct{})
	shutdown, done := s.shutdown, s.done
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.setUp(true)
	}
	s.logger.Info("line sink started",
		"capacity", s.config.BufferCapacity,
		"policy", string(s.config.Policy),
		"flush_interval", s.config.FlushInterval)

	go s.drainLoop(ctx, shutdown, done)
	return nil
}

// Stop shuts the drain loop down and performs a final drain so lines
// accepted before Stop still reach the clients. The timeout bounds the
// whole shutdown, loop exit and final drain together. Stopping a sink
// that is not running fails with a classified lifecycle error.
func (s *LineSink) Stop(timeout time.Duration) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return errors.WrapInvalid(errors.ErrNotStarted, "LineSink", "Stop", "drain loop not running")
	}
	s.running = false
	close(s.shutdown)
	done := s.done
	s.shutdown, s.done = nil, nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("drain loop did not exit within timeout")
	}

	if s.metrics != nil {
		s.metrics.setUp(false)
	}

	drained, err := s.drainOnce(ctx)
	if err != nil {
		return errors.WrapTransient(err, "LineSink", "Stop", "final drain")
	}

	s.logger.Info("line sink stopped", "final_drain", drained)
	return nil
}

// Flush synchronously drains everything buffered right now. It does not
// require the drain loop; a sink that was never started can still be
// flushed. The returned error reports the first failed client write of
// the pass.
func (s *LineSink) Flush() error {
	_, err := s.drainOnce(context.Background())
	return err
}

// drainLoop wakes at FlushInterval and drains buffered lines until the
// context is cancelled or Stop closes the shutdown channel.
func (s *LineSink) drainLoop(ctx context.Context, shutdown <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-shutdown:
			return
		case <-ticker.C:
			if _, err := s.drainOnce(ctx); err != nil {
				s.logger.Warn("drain pass interrupted", "error", err)
			}
		}
	}
}

// drainOnce empties the buffer in batches, pacing by the rate limit and
// fanning each batch out to the attached clients. It returns the number
// of drained lines and the first client failure of the pass. Lines
// already taken from the buffer are delivered even when the rate
// limiter context expires mid-pass.
func (s *LineSink) drainOnce(ctx context.Context) (int, error) {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	var firstErr error
	total := 0
	for {
		n := s.buf.ReadTo(s.scratch)
		if n == 0 {
			return total, firstErr
		}

		if s.limiter != nil {
			if err := s.limiter.WaitN(ctx, n); err != nil {
				_ = s.deliver(ctx, s.scratch[:n])
				return total + n, errors.WrapTransient(err, "LineSink", "drainOnce", "rate limit wait")
			}
		}

		if err := s.deliver(ctx, s.scratch[:n]); err != nil && firstErr == nil {
			firstErr = err
		}
		total += n
	}
}

// deliver concatenates one batch into a single newline-terminated
// payload and fans it out. Called with drainMu held.
func (s *LineSink) deliver(ctx context.Context, lines [][]byte) error {
	start := time.Now()

	s.payload = s.payload[:0]
	for _, line := range lines {
		s.payload = append(s.payload, line...)
		s.payload = append(s.payload, '\n')
	}
	clear(lines) // drop scratch references so line memory can be reclaimed

	err := s.fanout(ctx, s.payload)

	s.linesOut.Add(int64(len(lines)))
	if s.metrics != nil {
		s.metrics.recordFlush(time.Since(start), len(lines))
	}
	return err
}

// fanout writes the payload to every attached client concurrently.
// Clients whose writes keep failing are detached. The first failure is
// returned for callers that surface it.
func (s *LineSink) fanout(ctx context.Context, payload []byte) error {
	clients := s.snapshotClients()
	if len(clients) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, c := range clients {
		c := c // per-iteration capture for the goroutine below
		g.Go(func() error {
			err := s.writeClient(ctx, c, payload)
			if err == nil {
				return nil
			}
			s.dropClient(c, err)
			return err
		})
	}
	return g.Wait()
}

// writeClient writes the payload to one client, retrying transient
// errors with backoff. Non-transient errors fail immediately.
func (s *LineSink) writeClient(ctx context.Context, c *client, payload []byte) error {
	return retry.Do(ctx, s.retryCfg, func() error {
		_, err := c.w.Write(payload)
		if err == nil {
			return nil
		}

		s.writeErrors.Add(1)
		if s.metrics != nil {
			s.metrics.recordWriteError(errors.Classify(err).String())
		}

		if !errors.IsTransient(err) {
			return retry.NonRetryable(err)
		}
		return err
	})
}

// dropClient detaches a client whose writes kept failing.
func (s *LineSink) dropClient(c *client, err error) {
	s.clientsMu.Lock()
	_, ok := s.clients[c.id]
	if ok {
		delete(s.clients, c.id)
	}
	n := len(s.clients)
	s.clientsMu.Unlock()

	if !ok {
		return // raced with Detach
	}
	if s.metrics != nil {
		s.metrics.setClients(n)
	}
	s.logger.Warn("detaching client after failed writes",
		"client", c.id,
		"attached_for", time.Since(c.attachedAt),
		"error", err)
}

// snapshotClients returns the attached clients at this instant.
func (s *LineSink) snapshotClients() []*client {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	out := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

// Stats is a point-in-time snapshot of sink activity.
type Stats struct {
	LinesIn        int64 // complete lines accepted
	LinesOut       int64 // lines drained and dispatched to clients
	LinesTruncated int64 // lines cut at MaxLineLength
	LinesDropped   int64 // lines lost to the overflow policy
	WriteErrors    int64 // failed client write attempts
	Clients        int   // currently attached clients
	Buffered       int   // lines waiting in the buffer
	Running        bool  // drain loop liveness
}

// Stats returns a snapshot of sink counters.
func (s *LineSink) Stats() Stats {
	rs := s.buf.Stats()

	s.clientsMu.RLock()
	clients := len(s.clients)
	s.clientsMu.RUnlock()

	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()

	return Stats{
		LinesIn:        s.linesIn.Load(),
		LinesOut:       s.linesOut.Load(),
		LinesTruncated: s.linesTruncated.Load(),
		LinesDropped:   rs.Drops() + rs.Rejects(),
		WriteErrors:    s.writeErrors.Load(),
		Clients:        clients,
		Buffered:       s.buf.Len(),
		Running:        running,
	}
}
