package tracering

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

// HeaderSize is the fixed size of the file header preceding the record ring.
const HeaderSize = 64

// formatVersion is bumped on any incompatible change to the record or
// header layout.
const formatVersion = 1

// traceMagic identifies a file as a trace ring buffer.
var traceMagic = [8]byte{'T', 'R', 'A', 'C', 'E', 'R', 'N', 'G'}

// Header layout (little-endian, naturally aligned):
//
//	0..7   magic "TRACERNG"
//	8..11  format version (= 1)
//	12..15 record size (= 128)
//	16..23 capacity, record slots
//	24..31 write cursor (atomic)
//	32..39 request-id counter (atomic)
//	40..43 reserved target count
//	44..63 reserved, zero
const (
	hdrOffMagic       = 0
	hdrOffVersion     = 8
	hdrOffRecordSize  = 12
	hdrOffCapacity    = 16
	hdrOffCursor      = 24
	hdrOffRequestID   = 32
	hdrOffTargetCount = 40
)

// header is a view over the first HeaderSize bytes of the mapping. The
// cursor and request-id fields are mutated in place with atomics; the
// remaining fields are written once at initialization and only read after.
type header struct {
	b []byte
}

// cursorAddr returns the write cursor as an atomically addressable word.
// The mapping is page-aligned, so offset 24 is 8-byte aligned.
func (h header) cursorAddr() *uint64 {
	return (*uint64)(unsafe.Pointer(&h.b[hdrOffCursor]))
}

func (h header) requestIDAddr() *uint64 {
	return (*uint64)(unsafe.Pointer(&h.b[hdrOffRequestID]))
}

func (h header) capacity() uint64 {
	return binary.LittleEndian.Uint64(h.b[hdrOffCapacity : hdrOffCapacity+8])
}

func (h header) version() uint32 {
	return binary.LittleEndian.Uint32(h.b[hdrOffVersion : hdrOffVersion+4])
}

func (h header) recordSize() uint32 {
	return binary.LittleEndian.Uint32(h.b[hdrOffRecordSize : hdrOffRecordSize+4])
}

func (h header) targetCount() uint32 {
	return binary.LittleEndian.Uint32(h.b[hdrOffTargetCount : hdrOffTargetCount+4])
}

// valid reports whether the header matches the expected format identifiers
// and the capacity derived from the file size. Any mismatch means the file
// was produced by a different layout (or is brand new) and the header must
// be reinitialized before use.
func (h header) valid(capacity uint64) bool {
	return bytes.Equal(h.b[hdrOffMagic:hdrOffMagic+8], traceMagic[:]) &&
		h.version() == formatVersion &&
		h.recordSize() == RecordSize &&
		h.capacity() == capacity
}

// initialize rewrites every header field, resetting both counters. Record
// bytes are deliberately left untouched: the reset is bookkeeping only, and
// stale slot contents are overwritten as the cursor advances.
func (h header) initialize(capacity uint64) {
	copy(h.b[hdrOffMagic:hdrOffMagic+8], traceMagic[:])
	binary.LittleEndian.PutUint32(h.b[hdrOffVersion:hdrOffVersion+4], formatVersion)
	binary.LittleEndian.PutUint32(h.b[hdrOffRecordSize:hdrOffRecordSize+4], RecordSize)
	binary.LittleEndian.PutUint64(h.b[hdrOffCapacity:hdrOffCapacity+8], capacity)
	binary.LittleEndian.PutUint64(h.b[hdrOffCursor:hdrOffCursor+8], 0)
	binary.LittleEndian.PutUint64(h.b[hdrOffRequestID:hdrOffRequestID+8], 0)
	for i := hdrOffTargetCount; i < HeaderSize; i++ {
		h.b[i] = 0
	}
}
