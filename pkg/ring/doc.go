// Package ring provides a generic, thread-safe, fixed-capacity FIFO ring
// buffer backed by a mirrored double-length store, with built-in
// statistics tracking and optional Prometheus metrics integration.
//
// # Overview
//
// ring.Buffer[T] holds up to a fixed number of elements and either
// overwrites the oldest data or rejects new data once full, depending on
// its policy. It is designed for data-plumbing paths where a bounded,
// allocation-free buffer sits between a fast producer and a slower
// consumer, such as log capture or protocol receive queues.
//
// # Mirrored Storage
//
// The backing store is allocated at exactly twice the requested
// capacity. Every element written to physical index p is also written to
// its mirror slot: p+capacity when p lies in the lower half, p-capacity
// otherwise. The payoff is that any window of up to capacity consecutive
// elements is physically contiguous, so indexing and span copies are
// single linear operations with no wraparound branch. Writes pay for
// this with a second copy, which for a batch push may itself split in
// two when the mirror range straddles the end of the allocation.
//
// The used span is tracked by two cursors, begin and end, with the
// invariants 0 ≤ begin < capacity and begin ≤ end ≤ begin+capacity.
// When an eviction or pop pushes begin past capacity, both cursors shift
// down by capacity in the same locked step, so callers never observe a
// denormalized cursor pair.
//
// # Quick Start
//
//	buf, err := ring.New[int](1000)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	buf.Push(42)
//	buf.PushSlice([]int{1, 2, 3})
//
//	v, ok := buf.Read()      // oldest element, removed
//	v, ok = buf.Peek()       // oldest element, kept
//	snapshot := buf.Data()   // stable copy of the whole span
//
// With policy, metrics and a drop callback:
//
//	buf, err := ring.New[[]byte](5000,
//		ring.WithPolicy[[]byte](ring.OverwriteOldest),
//		ring.WithMetrics[[]byte](registry, "udp_rx"),
//		ring.WithDropCallback[[]byte](func(b []byte) {
//			slog.Debug("evicted", "len", len(b))
//		}),
//	)
//
// # Overflow Policies
//
// Two behaviors are available when a write arrives at capacity:
//
//   - OverwriteOldest: evict the oldest elements to make room (default)
//   - PreserveOldest: reject the new elements, keeping the buffer as-is
//
// Batch pushes are all-or-nothing per policy. Under PreserveOldest a
// batch that does not fit the free space is rejected whole; there are
// no partial writes. Under OverwriteOldest a batch longer than the whole
// capacity first truncates to its last capacity elements (the oldest
// part of the batch can never survive) and then evicts as many buffered
// elements as needed.
//
// # The Invalid State
//
// A buffer constructed with a non-positive capacity, the zero value
// Buffer[T]{}, and the source left behind by Move/MoveFrom are all in
// the invalid fallback state: Valid() is false, Capacity() is 0, every
// mutation returns false or 0, and every read comes back empty. No
// operation panics on an invalid buffer. Invalidity is per-instance
// state, not a shared sentinel, so distinct invalid buffers are
// independent objects (and never compare Equal).
//
// # Ownership Transfer
//
// Clone returns a deep, immediately independent copy. CopyFrom assigns
// content only: the source span is snapshotted and re-pushed through the
// destination's own capacity and policy. Move transfers the allocation
// in O(1) and invalidates the source; MoveFrom is assignment followed by
// source invalidation (content is re-pushed, the allocation is not
// stolen). Move and MoveFrom assume a single goroutine owns the source
// for the duration of the transfer.
//
// # Thread Safety
//
// One sync.RWMutex guards each buffer. Mutations take the write lock;
// queries and snapshot reads take the read lock. Every query returns a
// point-in-time value: Len, Free, Empty, Peek, At and Data may be stale
// by the time the caller acts on them, and correctness must not depend
// on them staying true. CopyTo holds the read lock for the entire copy
// and is the sanctioned consistent read. ReadTo is CopyTo followed by a
// separately locked Pop; between the two steps a concurrent overwrite
// can replace copied elements, which single-consumer setups avoid by
// construction.
//
// There is no blocking, queueing or backpressure on any operation; a
// full PreserveOldest buffer rejects immediately. Drop callbacks run
// after the lock is released and may safely touch the buffer again.
//
// # Observability
//
// The buffer carries dual observability in the manner of the rest of the
// kit: always-on Statistics using atomic counters (available via
// Stats() with no configuration and no external dependencies) and
// optional Prometheus metrics enabled with WithMetrics(). Statistics
// provide derived values such as throughput and drop rate for
// programmatic access and tests; metrics feed dashboards and alerting.
// Both are updated inline by each operation, and metrics registration
// failure is the only error New can return.
//
// # Memory
//
// Storage is allocated once at construction; no operation allocates on
// the hot path except Data and the eviction capture for drop callbacks.
// Pop and Clear only move cursors: popped slots are not zeroed, so
// element values (and anything they reference) remain in the backing
// store until overwritten by later pushes. Buffers of pointer-like
// types that must release references promptly should overwrite or let
// the buffer turn over naturally.
//
// # Performance Characteristics
//
//   - Push: O(1); one element copy to each half
//   - PushSlice: O(n); two linear copies (at most three when split)
//   - Pop, Clear: O(1) cursor moves
//   - Read, Peek, At: O(1)
//   - Data, CopyTo, ReadTo: O(n) single linear copy
//   - Clone: O(capacity) full-allocation copy
//
// # Testing
//
// The package includes race-detector concurrency tests and randomized
// operation sequences checked against a reference model:
//
//	go test -race ./pkg/ring
//
// Benchmarks cover single and batch operation paths:
//
//	go test -bench=. ./pkg/ring
package ring
