package tracering

import "sync/atomic"

// Stats is a point-in-time snapshot of a buffer's counters. Taken with
// atomic loads only; values may already be stale by the time they are read.
type Stats struct {
	Capacity    uint64 // record slots in the ring
	Appended    uint64 // records ever appended (write cursor)
	RequestIDs  uint64 // identifiers ever allocated
	TargetCount uint32 // reserved external target-table size
	Wrapped     bool   // true once old records have been overwritten
	FileSize    int64  // backing file size in bytes
}

// Stats returns a snapshot of the buffer's counters.
func (b *TraceBuffer) Stats() Stats {
	appended := atomic.LoadUint64(b.hdr.cursorAddr())
	return Stats{
		Capacity:    b.capacity,
		Appended:    appended,
		RequestIDs:  atomic.LoadUint64(b.hdr.requestIDAddr()),
		TargetCount: b.hdr.targetCount(),
		Wrapped:     appended > b.capacity,
		FileSize:    int64(len(b.mapped)),
	}
}
