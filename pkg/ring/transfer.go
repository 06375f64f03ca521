package ring

// Ownership transfer between buffers: deep copies, content assignment
// and move semantics. Clone and Move mirror copy/move construction;
// CopyFrom and MoveFrom mirror assignment. Assignment transfers content
// only (the destination keeps its own capacity and policy) while Move
// steals the allocation outright.
//
// Move and MoveFrom assume the single-writer discipline for ownership
// transfer: no other goroutine may use the source concurrently with the
// transfer or after it.

// Clone returns a deep copy of the buffer: the entire mirrored
// allocation is duplicated and the cursors are carried over, so the
// clone is immediately independent of the original. The clone shares
// the capacity and policy but starts with fresh statistics and no
// metrics registration or drop callback. Cloning an invalid buffer
// yields an invalid clone.
func (b *Buffer[T]) Clone() *Buffer[T] {
	b.mu.RLock()
	defer b.mu.RUnlock()

	c := &Buffer[T]{
		capacity: b.capacity,
		begin:    b.begin,
		end:      b.end,
		policy:   b.policy,
		stats:    NewStatistics(),
	}
	if b.store != nil {
		c.store = make([]T, len(b.store))
		copy(c.store, b.store)
		c.stats.UpdateSize(int64(c.end - c.begin))
	}
	return c
}

// CopyFrom replaces the buffer's content with a snapshot of src's used
// span. The span is re-pushed through the batch-push path, so the
// destination's own capacity and policy apply: an OverwriteOldest
// destination keeps the newest elements that fit, a PreserveOldest
// destination that cannot fit the whole span rejects it and is left
// cleared. Capacity and policy are not copied.
//
// Returns false, touching nothing, when either buffer is invalid.
// Copying a buffer from itself preserves its content.
func (b *Buffer[T]) CopyFrom(src *Buffer[T]) bool {
	if src == nil {
		return false
	}

	// Snapshot before clearing so self-assignment keeps the content.
	span := src.Data()
	if span == nil {
		return false
	}

	if !b.Clear() {
		return false
	}
	if len(span) > 0 {
		b.PushSlice(span)
	}
	return true
}

// Move transfers ownership of the storage to a new handle in O(1): the
// store, cursors, capacity, policy, statistics, metrics and drop
// callback all move. The source is left in the invalid fallback state
// with fresh zeroed statistics. Moving an invalid buffer yields an
// invalid handle.
func (b *Buffer[T]) Move() *Buffer[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := &Buffer[T]{
		store:    b.store,
		capacity: b.capacity,
		begin:    b.begin,
		end:      b.end,
		policy:   b.policy,
		dropFn:   b.dropFn,
		stats:    b.stats,
		metrics:  b.metrics,
	}
	if n.stats == nil {
		n.stats = NewStatistics()
	}
	b.invalidateLocked()
	return n
}

// MoveFrom assigns src's content to the buffer (CopyFrom semantics,
// honoring the destination's capacity and policy) and then invalidates
// src. The allocation is not stolen; content is re-pushed, matching
// copy assignment. Returns false and leaves src valid when either
// buffer is invalid. A buffer cannot be move-assigned from itself.
func (b *Buffer[T]) MoveFrom(src *Buffer[T]) bool {
	if src == b {
		return false
	}
	if !b.CopyFrom(src) {
		return false
	}

	src.mu.Lock()
	src.invalidateLocked()
	src.mu.Unlock()
	return true
}

// invalidateLocked puts the buffer into the invalid fallback state.
// Caller holds the write lock.
func (b *Buffer[T]) invalidateLocked() {
	b.store = nil
	b.capacity = 0
	b.begin, b.end = 0, 0
	b.stats = NewStatistics()
	b.metrics = nil
}
