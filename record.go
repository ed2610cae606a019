package tracering

import (
	"encoding/binary"
	"unicode/utf8"
)

// RecordSize is the fixed on-disk size of one trace record.
const RecordSize = 128

// PathCap is the maximum number of path bytes stored per record. Longer
// paths are truncated; PathHash still covers the full path.
const PathCap = 64

// Record word layout (eight little-endian 64-bit words, then path bytes):
//
//	word 0 @0   monotonic timestamp, nanoseconds
//	word 1 @8   request id
//	word 2 @16  latency_us(32) | status(16) | method(8) | flags(8)
//	word 3 @24  bytes_in(32) | bytes_out(32)
//	word 4 @32  target_idx(8) | path_len(8) | trace id bits 64..111 (48)
//	word 5 @40  trace id bits 0..63
//	word 6 @48  path hash (FNV-1a 64 of the full path)
//	word 7 @56  upstream_latency_us(32) | reserved(32)
//	@64..127    path bytes, UTF-8, zero-padded
const (
	offTimestamp  = 0
	offRequestID  = 8
	offLatency    = 16
	offBytes      = 24
	offTarget     = 32
	offTraceLow   = 40
	offPathHash   = 48
	offUpstream   = 56
	offPath       = 64
)

// Method is the HTTP method of a traced request, stored as one byte.
type Method uint8

const (
	MethodUnknown Method = iota
	MethodGet
	MethodPost
	MethodPut
	MethodDelete
	MethodPatch
	MethodHead
	MethodOptions
	MethodConnect
	MethodTrace
)

var methodNames = [...]string{
	"UNKNOWN", "GET", "POST", "PUT", "DELETE",
	"PATCH", "HEAD", "OPTIONS", "CONNECT", "TRACE",
}

func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return methodNames[MethodUnknown]
}

// MethodFromString maps a request method string to its enum value,
// case-insensitively. Anything unrecognised becomes MethodUnknown.
// The canonical upper-case spellings are matched without allocating.
func MethodFromString(s string) Method {
	switch s {
	case "GET":
		return MethodGet
	case "POST":
		return MethodPost
	case "PUT":
		return MethodPut
	case "DELETE":
		return MethodDelete
	case "PATCH":
		return MethodPatch
	case "HEAD":
		return MethodHead
	case "OPTIONS":
		return MethodOptions
	case "CONNECT":
		return MethodConnect
	case "TRACE":
		return MethodTrace
	}
	for i, name := range methodNames {
		if i != 0 && equalFold(s, name) {
			return Method(i)
		}
	}
	return MethodUnknown
}

// equalFold reports ASCII case-insensitive equality without allocating.
func equalFold(s, t string) bool {
	if len(s) != len(t) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c, d := s[i], t[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if d >= 'a' && d <= 'z' {
			d -= 'a' - 'A'
		}
		if c != d {
			return false
		}
	}
	return true
}

// TraceRecord is one completed request in its packed wire form. The zero
// value is a valid, empty record. Setters mask out-of-range inputs to
// their field width instead of failing; the hot path never branches into
// error handling.
type TraceRecord [RecordSize]byte

func (r *TraceRecord) word(off int) uint64 {
	return binary.LittleEndian.Uint64(r[off : off+8])
}

func (r *TraceRecord) setWord(off int, v uint64) {
	binary.LittleEndian.PutUint64(r[off:off+8], v)
}

// setBits replaces width bits at shift within the word at off.
func (r *TraceRecord) setBits(off, shift, width int, v uint64) {
	mask := (uint64(1)<<width - 1) << shift
	w := r.word(off)
	w = (w &^ mask) | (v<<shift)&mask
	r.setWord(off, w)
}

func (r *TraceRecord) bits(off, shift, width int) uint64 {
	return (r.word(off) >> shift) & (uint64(1)<<width - 1)
}

func (r *TraceRecord) SetTimestamp(ns uint64) { r.setWord(offTimestamp, ns) }
func (r *TraceRecord) Timestamp() uint64      { return r.word(offTimestamp) }

func (r *TraceRecord) SetRequestID(id uint64) { r.setWord(offRequestID, id) }
func (r *TraceRecord) RequestID() uint64      { return r.word(offRequestID) }

// SetLatencyUS records the request latency in microseconds. Values wider
// than 32 bits wrap.
func (r *TraceRecord) SetLatencyUS(us uint64) { r.setBits(offLatency, 0, 32, us) }
func (r *TraceRecord) LatencyUS() uint32      { return uint32(r.bits(offLatency, 0, 32)) }

func (r *TraceRecord) SetStatus(status uint32) { r.setBits(offLatency, 32, 16, uint64(status)) }
func (r *TraceRecord) Status() uint16          { return uint16(r.bits(offLatency, 32, 16)) }

func (r *TraceRecord) SetMethod(m Method) { r.setBits(offLatency, 48, 8, uint64(m)) }
func (r *TraceRecord) Method() Method     { return Method(r.bits(offLatency, 48, 8)) }

func (r *TraceRecord) SetFlags(f uint8) { r.setBits(offLatency, 56, 8, uint64(f)) }
func (r *TraceRecord) Flags() uint8     { return uint8(r.bits(offLatency, 56, 8)) }

func (r *TraceRecord) SetBytesIn(n uint64) { r.setBits(offBytes, 0, 32, n) }
func (r *TraceRecord) BytesIn() uint32     { return uint32(r.bits(offBytes, 0, 32)) }

func (r *TraceRecord) SetBytesOut(n uint64) { r.setBits(offBytes, 32, 32, n) }
func (r *TraceRecord) BytesOut() uint32     { return uint32(r.bits(offBytes, 32, 32)) }

func (r *TraceRecord) SetTargetIdx(i uint8) { r.setBits(offTarget, 0, 8, uint64(i)) }
func (r *TraceRecord) TargetIdx() uint8     { return uint8(r.bits(offTarget, 0, 8)) }

func (r *TraceRecord) PathLen() uint8 { return uint8(r.bits(offTarget, 8, 8)) }

// SetTraceID stores a 128-bit trace identifier as two words. Only the low
// 112 bits survive: the top 16 bits of hi share a word with target_idx and
// path_len and are discarded. Known lossy; kept for wire compatibility.
func (r *TraceRecord) SetTraceID(hi, lo uint64) {
	r.setBits(offTarget, 16, 48, hi)
	r.setWord(offTraceLow, lo)
}

// TraceID returns the stored identifier. hi carries at most 48 bits.
func (r *TraceRecord) TraceID() (hi, lo uint64) {
	return r.bits(offTarget, 16, 48), r.word(offTraceLow)
}

func (r *TraceRecord) SetPathHash(h uint64) { r.setWord(offPathHash, h) }
func (r *TraceRecord) PathHash() uint64     { return r.word(offPathHash) }

func (r *TraceRecord) SetUpstreamLatencyUS(us uint64) { r.setBits(offUpstream, 0, 32, us) }
func (r *TraceRecord) UpstreamLatencyUS() uint32      { return uint32(r.bits(offUpstream, 0, 32)) }

// SetPath copies at most PathCap raw bytes of path into the record and
// records the stored length. The cut is byte-exact, not UTF-8 aware: a
// truncated multi-byte character makes Path() return "" on read.
func (r *TraceRecord) SetPath(path string) {
	n := len(path)
	if n > PathCap {
		n = PathCap
	}
	copy(r[offPath:offPath+n], path[:n])
	for i := offPath + n; i < RecordSize; i++ {
		r[i] = 0
	}
	r.setBits(offTarget, 8, 8, uint64(n))
}

// Path returns the stored (possibly truncated) path. A span that is not
// valid UTF-8 decodes as the empty string. path_len values beyond PathCap
// (only seen in torn records) are clamped rather than trusted.
func (r *TraceRecord) Path() string {
	n := int(r.PathLen())
	if n > PathCap {
		n = PathCap
	}
	b := r[offPath : offPath+n]
	if !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// TruncatedPathBytes returns the raw stored path span, valid UTF-8 or not,
// so readers can render something for paths Path() refuses to decode.
func (r *TraceRecord) TruncatedPathBytes() []byte {
	n := int(r.PathLen())
	if n > PathCap {
		n = PathCap
	}
	out := make([]byte, n)
	copy(out, r[offPath:offPath+n])
	return out
}

// IsError reports whether the response status is 400 or above.
func (r *TraceRecord) IsError() bool { return r.Status() >= 400 }

// IsSlow reports whether latency exceeded threshold milliseconds.
func (r *TraceRecord) IsSlow(thresholdMS uint32) bool {
	return uint64(r.LatencyUS()) > uint64(thresholdMS)*1000
}
