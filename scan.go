package tracering

import "sync/atomic"

// Cursor returns the current write cursor: the count of records ever
// appended to this file.
func (b *TraceBuffer) Cursor() uint64 {
	return atomic.LoadUint64(b.hdr.cursorAddr())
}

// Read decodes the record physically stored at slot index mod capacity.
// Nothing checks that the slot still holds that logical index; Recent and
// Filter are the bounded patterns that make Read safe to call.
func (b *TraceBuffer) Read(index uint64) TraceRecord {
	var rec TraceRecord
	slot := index % b.capacity
	copy(rec[:], b.records[slot*RecordSize:(slot+1)*RecordSize])
	return rec
}

// Recent returns up to n records, most recently appended first. The result
// is bounded by both the number of records ever appended and the ring
// capacity, so it never reaches slots the ring no longer retains.
func (b *TraceBuffer) Recent(n int) []TraceRecord {
	if b == nil || n <= 0 {
		return nil
	}
	cursor := b.Cursor()
	limit := uint64(n)
	if cursor < limit {
		limit = cursor
	}
	if b.capacity < limit {
		limit = b.capacity
	}
	out := make([]TraceRecord, 0, limit)
	for i := uint64(0); i < limit; i++ {
		out = append(out, b.Read(cursor-1-i))
	}
	return out
}

// Filter scans backward from the latest record, collecting up to n records
// for which keep returns true, in recency order. The scan inspects at most
// min(capacity, cursor) records; it is a best-effort look at what the ring
// currently retains, not a full-history search, so fewer than n matches may
// come back.
func (b *TraceBuffer) Filter(n int, keep func(*TraceRecord) bool) []TraceRecord {
	if b == nil || n <= 0 || keep == nil {
		return nil
	}
	cursor := b.Cursor()
	window := b.capacity
	if cursor < window {
		window = cursor
	}
	out := make([]TraceRecord, 0, n)
	for i := uint64(0); i < window && len(out) < n; i++ {
		rec := b.Read(cursor - 1 - i)
		if keep(&rec) {
			out = append(out, rec)
		}
	}
	return out
}
