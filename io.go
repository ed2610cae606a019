package tracering

import "sync/atomic"

// Append writes rec into the next ring slot. It claims a slot by atomic
// fetch-and-increment of the write cursor, so concurrent appends never
// share a slot; the 128-byte copy itself takes no lock and is not atomic
// as a unit. Once the cursor wraps, the oldest record is silently
// overwritten. Never blocks, never allocates, never fails.
func (b *TraceBuffer) Append(rec *TraceRecord) {
	if b == nil || b.readOnly {
		return
	}
	idx := atomic.AddUint64(b.hdr.cursorAddr(), 1) - 1
	slot := idx % b.capacity
	copy(b.records[slot*RecordSize:(slot+1)*RecordSize], rec[:])
}

// NextRequestID allocates the next identifier from the per-buffer counter,
// starting at 0. The counter is independent of the write cursor; callers
// typically take an id when a request starts and append a record carrying
// it when the request completes, if ever.
func (b *TraceBuffer) NextRequestID() uint64 {
	if b == nil || b.readOnly {
		return 0
	}
	return atomic.AddUint64(b.hdr.requestIDAddr(), 1) - 1
}
