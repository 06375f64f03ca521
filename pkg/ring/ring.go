package ring

import (
	"math"
	"sync"
	"unsafe"

	"github.com/c360/streamkit/errors"
)

// Policy defines how the buffer behaves when a write arrives at capacity.
type Policy int

const (
	// OverwriteOldest evicts the oldest elements to make room for new ones.
	OverwriteOldest Policy = iota

	// PreserveOldest rejects new elements while the buffer is full.
	PreserveOldest
)

// String returns a human-readable representation of the policy.
func (p Policy) String() string {
	switch p {
	case OverwriteOldest:
		return "OverwriteOldest"
	case PreserveOldest:
		return "PreserveOldest"
	default:
		return "Unknown"
	}
}

// DropCallback is called for each element evicted by OverwriteOldest.
// It runs after the buffer lock has been released.
type DropCallback[T any] func(item T)

// maxCapacity bounds the requested capacity so the doubled allocation
// cannot overflow int.
const maxCapacity = math.MaxInt / 2

// Buffer is a fixed-capacity FIFO ring over a mirrored backing store.
//
// The store holds exactly 2×capacity elements: every write to physical
// index p is replicated to its mirror slot (p+capacity when p < capacity,
// p-capacity otherwise). Because of the mirroring, any window of up to
// capacity consecutive elements is physically contiguous, so reads never
// branch on wraparound; only writes pay for the second copy.
//
// The used span is [begin, end) with 0 ≤ begin < capacity and
// begin ≤ end ≤ begin+capacity. Whenever begin would cross capacity,
// both cursors shift down by capacity in the same locked step.
//
// A Buffer with a nil store is in the invalid fallback state: zero
// capacity, always empty, every mutation fails, every read comes back
// empty. The zero value Buffer[T]{} is invalid; use New.
type Buffer[T any] struct {
	mu       sync.RWMutex
	store    []T // 2×capacity elements; nil marks the invalid state
	capacity int
	begin    int
	end      int

	// Immutable after construction.
	policy Policy
	dropFn DropCallback[T]

	stats   *Statistics    // always present
	metrics *bufferMetrics // optional Prometheus export
}

// New creates a buffer holding up to capacity elements of type T.
// Stats are always collected; metrics are optional via WithMetrics().
//
// A capacity outside (0, maxCapacity] degrades the buffer to the invalid
// fallback state rather than failing: construction itself never errors
// for capacity reasons. The only error return is metrics registration
// failure when WithMetrics was requested.
func New[T any](capacity int, options ...Option[T]) (*Buffer[T], error) {
	opts := applyOptions(options...)

	b := &Buffer[T]{
		policy: opts.policy,
		dropFn: opts.dropCallback,
		stats:  NewStatistics(),
	}

	if capacity > 0 && capacity <= maxCapacity {
		b.store = make([]T, 2*capacity)
		b.capacity = capacity
	}

	if opts.metricsReg != nil && opts.metricsName != "" {
		m, err := newBufferMetrics(opts.metricsReg, opts.metricsName)
		if err != nil {
			return nil, errors.WrapTransient(err, "ring", "New", "metrics registration")
		}
		b.metrics = m
	}

	return b, nil
}

// mirrorIndex returns the slot paired with physical index p.
func (b *Buffer[T]) mirrorIndex(p int) int {
	if p < b.capacity {
		return p + b.capacity
	}
	return p - b.capacity
}

// advanceLocked moves begin forward by n slots and renormalizes the
// cursors so begin stays below capacity. Caller holds the write lock;
// n must not exceed the current size.
func (b *Buffer[T]) advanceLocked(n int) {
	b.begin += n
	if b.begin >= b.capacity {
		b.begin -= b.capacity
		b.end -= b.capacity
	}
}

// aliasesStore reports whether vs shares backing memory with the store.
// In Go two slices overlap only when they derive from the same array,
// so checking the first element's address against the store's address
// range is exact.
func (b *Buffer[T]) aliasesStore(vs []T) bool {
	if b.store == nil || len(vs) == 0 {
		return false
	}
	elem := unsafe.Sizeof(vs[0])
	if elem == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(b.store)))
	hi := lo + uintptr(len(b.store))*elem
	p := uintptr(unsafe.Pointer(unsafe.SliceData(vs)))
	return p >= lo && p < hi
}

// rejectLocked records a failed write in stats and metrics. The stats
// pointer is nil only on a zero-value Buffer, which must still reject
// without panicking.
func (b *Buffer[T]) rejectLocked() {
	if b.stats != nil {
		b.stats.Reject()
	}
	if b.metrics != nil {
		b.metrics.recordReject()
	}
}

// Push appends one element to the buffer.
//
// When the buffer is full, OverwriteOldest evicts the oldest element to
// make room and PreserveOldest rejects the write. Returns false when the
// write was rejected or the buffer is invalid.
func (b *Buffer[T]) Push(v T) bool {
	ok, dropped := b.pushOne(v)
	if b.dropFn != nil {
		for _, d := range dropped {
			b.dropFn(d)
		}
	}
	return ok
}

func (b *Buffer[T]) pushOne(v T) (bool, []T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		b.rejectLocked()
		return false, nil
	}

	var dropped []T
	overflowed := false

	// Evict until a slot is free. With the size invariant intact this
	// loop runs at most once.
	for b.end-b.begin >= b.capacity {
		if b.policy == PreserveOldest {
			b.rejectLocked()
			return false, nil
		}
		overflowed = true
		if b.dropFn != nil {
			dropped = append(dropped, b.store[b.begin])
		}
		b.advanceLocked(1)
	}

	b.store[b.end] = v
	b.store[b.mirrorIndex(b.end)] = v
	b.end++

	size := b.end - b.begin
	b.stats.Write()
	b.stats.UpdateSize(int64(size))
	if overflowed {
		b.stats.Overflow()
		b.stats.AddDrops(1)
	}
	if b.metrics != nil {
		b.metrics.recordWrites(1, size, b.capacity)
		if overflowed {
			b.metrics.recordOverflow()
			b.metrics.recordDrops(1)
		}
	}

	return true, dropped
}

// PushSlice appends a batch of elements in one locked operation.
//
// The push is all-or-nothing per policy: PreserveOldest rejects the whole
// batch when it does not fit the free space. OverwriteOldest always
// succeeds: a batch longer than the capacity is truncated to its last
// capacity elements first, then enough of the oldest buffered elements
// are evicted to make room.
//
// Returns false for a nil or empty source, a source slice aliasing the
// buffer's own storage, a rejected batch, or an invalid buffer. A failed
// push leaves the buffer untouched.
func (b *Buffer[T]) PushSlice(vs []T) bool {
	ok, dropped := b.pushSlice(vs)
	if b.dropFn != nil {
		for _, d := range dropped {
			b.dropFn(d)
		}
	}
	return ok
}

func (b *Buffer[T]) pushSlice(vs []T) (bool, []T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil || len(vs) == 0 || b.aliasesStore(vs) {
		b.rejectLocked()
		return false, nil
	}

	n := len(vs)
	free := b.capacity - (b.end - b.begin)
	var dropped []T
	overflowed := false
	lost := 0

	if n > free {
		if b.policy == PreserveOldest {
			b.rejectLocked()
			return false, nil
		}
		overflowed = true

		// A batch longer than the capacity can only ever retain its
		// last capacity elements.
		if n > b.capacity {
			lost = n - b.capacity
			vs = vs[lost:]
			n = b.capacity
		}

		if evict := n - free; evict > 0 {
			// The evicted span is contiguous thanks to the mirror.
			if b.dropFn != nil {
				dropped = make([]T, evict)
				copy(dropped, b.store[b.begin:b.begin+evict])
			}
			lost += evict
			b.advanceLocked(evict)
		}
	}

	// Canonical copy at the end of the used span.
	copy(b.store[b.end:b.end+n], vs)

	// Mirrored copy. When end sits in the upper half the mirror lands in
	// one piece in the lower half; otherwise it targets the upper half
	// and may straddle the end of the allocation, requiring a split.
	switch {
	case b.end >= b.capacity:
		copy(b.store[b.end-b.capacity:], vs)
	case b.end+b.capacity+n <= 2*b.capacity:
		copy(b.store[b.end+b.capacity:], vs)
	default:
		first := b.capacity - b.end
		copy(b.store[b.end+b.capacity:], vs[:first])
		copy(b.store, vs[first:])
	}
	b.end += n

	size := b.end - b.begin
	b.stats.AddWrites(int64(n))
	b.stats.UpdateSize(int64(size))
	if overflowed {
		b.stats.Overflow()
		b.stats.AddDrops(int64(lost))
	}
	if b.metrics != nil {
		b.metrics.recordWrites(n, size, b.capacity)
		if overflowed {
			b.metrics.recordOverflow()
			b.metrics.recordDrops(lost)
		}
	}

	return true, dropped
}

// Pop removes up to n of the oldest elements and returns how many were
// removed. Popping at least the current size clears the buffer and
// returns the prior size. Returns 0 when n ≤ 0, the buffer is empty,
// or the buffer is invalid.
func (b *Buffer[T]) Pop(n int) int {
	if n <= 0 {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		return 0
	}

	removed := b.popLocked(n)
	if removed > 0 {
		b.stats.AddReads(int64(removed))
		size := b.end - b.begin
		b.stats.UpdateSize(int64(size))
		if b.metrics != nil {
			b.metrics.recordReads(removed, size, b.capacity)
		}
	}
	return removed
}

// popLocked advances the read cursor by up to n elements and returns the
// number removed. Caller holds the write lock on a valid buffer.
func (b *Buffer[T]) popLocked(n int) int {
	size := b.end - b.begin
	if size == 0 {
		return 0
	}
	if n >= size {
		b.begin, b.end = 0, 0
		return size
	}
	b.advanceLocked(n)
	return n
}

// Clear empties the buffer by resetting both cursors. The backing store
// is not zeroed and no drop callbacks fire; previously held elements are
// overwritten by subsequent pushes. Returns false when invalid.
func (b *Buffer[T]) Clear() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		return false
	}

	b.begin, b.end = 0, 0

	b.stats.UpdateSize(0)
	if b.metrics != nil {
		b.metrics.updateSize(0, b.capacity)
	}
	return true
}

// Read retrieves and removes the oldest element.
// Returns the zero value and false when the buffer is empty or invalid.
func (b *Buffer[T]) Read() (T, bool) {
	var zero T

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil || b.end == b.begin {
		return zero, false
	}

	v := b.store[b.begin]
	b.popLocked(1)

	size := b.end - b.begin
	b.stats.Read()
	b.stats.UpdateSize(int64(size))
	if b.metrics != nil {
		b.metrics.recordReads(1, size, b.capacity)
	}

	return v, true
}

// Peek retrieves the oldest element without removing it.
// Returns the zero value and false when the buffer is empty or invalid.
func (b *Buffer[T]) Peek() (T, bool) {
	var zero T

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.store == nil || b.end == b.begin {
		return zero, false
	}

	b.stats.Peek()
	if b.metrics != nil {
		b.metrics.recordPeek()
	}

	return b.store[b.begin], true
}

// At returns the i-th oldest element without removing it. The index is
// relative to the read cursor: At(0) is the element Peek returns.
// Returns the zero value and false when i is out of range or the buffer
// is invalid.
func (b *Buffer[T]) At(i int) (T, bool) {
	var zero T

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.store == nil || i < 0 || i >= b.end-b.begin {
		return zero, false
	}

	b.stats.Peek()
	if b.metrics != nil {
		b.metrics.recordPeek()
	}

	// The used span is contiguous, so no wraparound arithmetic here.
	return b.store[b.begin+i], true
}

// Len returns the current number of buffered elements. The value is a
// point-in-time snapshot and may be stale by the time the caller acts
// on it.
func (b *Buffer[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.end - b.begin
}

// Capacity returns the maximum number of elements the buffer can hold,
// or 0 for an invalid buffer.
func (b *Buffer[T]) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capacity
}

// Free returns the remaining space, Capacity()−Len(), as a
// point-in-time snapshot.
func (b *Buffer[T]) Free() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capacity - (b.end - b.begin)
}

// Empty reports whether the buffer holds no elements. Invalid buffers
// are always empty.
func (b *Buffer[T]) Empty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.end == b.begin
}

// Valid reports whether the buffer owns usable storage. A buffer is
// invalid when constructed with a non-positive capacity, when it is the
// zero value, or after its storage was stolen by Move/MoveFrom.
func (b *Buffer[T]) Valid() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.store != nil
}

// Policy returns the buffer's overflow policy.
func (b *Buffer[T]) Policy() Policy {
	return b.policy // immutable, no lock needed
}

// Stats returns the buffer's statistics tracker.
func (b *Buffer[T]) Stats() *Statistics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}

// Data returns a copy of the used span, oldest first. The copy is a
// stable snapshot: it does not alias the buffer's storage and is not
// affected by later mutations. Returns nil for an invalid buffer and an
// empty non-nil slice for a valid empty one.
func (b *Buffer[T]) Data() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.store == nil {
		return nil
	}
	out := make([]T, b.end-b.begin)
	copy(out, b.store[b.begin:b.end])
	return out
}

// CopyTo copies up to len(dst) of the oldest elements into dst without
// removing them and returns the number copied. The read lock is held for
// the whole copy, so the result is a consistent snapshot. Returns 0 when
// dst is empty or the buffer is invalid.
func (b *Buffer[T]) CopyTo(dst []T) int {
	if len(dst) == 0 {
		return 0
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.store == nil {
		return 0
	}

	n := b.end - b.begin
	if n > len(dst) {
		n = len(dst)
	}
	copy(dst, b.store[b.begin:b.begin+n])
	return n
}

// ReadTo copies up to len(dst) of the oldest elements into dst and then
// removes the copied count, returning it. The copy and the removal are
// two separately locked steps: a concurrent overwrite landing between
// them can evict elements that were just copied, in which case the pop
// consumes their replacements. Callers needing strict once-only delivery
// must have a single consumer.
func (b *Buffer[T]) ReadTo(dst []T) int {
	n := b.CopyTo(dst)
	if n > 0 {
		b.Pop(n)
	}
	return n
}

// Equal reports whether two buffers hold equal spans: both valid, equal
// length, element-wise equal in FIFO order. Capacity and policy do not
// participate. Invalid buffers compare unequal to everything, including
// other invalid buffers.
func Equal[T comparable](a, b *Buffer[T]) bool {
	if a == nil || b == nil {
		return false
	}
	da, db := a.Data(), b.Data()
	if da == nil || db == nil || len(da) != len(db) {
		return false
	}
	for i := range da {
		if da[i] != db[i] {
			return false
		}
	}
	return true
}

// EqualFunc is Equal with a caller-supplied element comparison, for
// element types that are not comparable.
func EqualFunc[T any](a, b *Buffer[T], eq func(T, T) bool) bool {
	if a == nil || b == nil || eq == nil {
		return false
	}
	da, db := a.Data(), b.Data()
	if da == nil || db == nil || len(da) != len(db) {
		return false
	}
	for i := range da {
		if !eq(da[i], db[i]) {
			return false
		}
	}
	return true
}
