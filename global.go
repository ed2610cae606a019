package tracering

import (
	"sync"
	"sync/atomic"
)

// Process-wide buffer. Absence is a valid, permanent state: tracing off.
// The hot-path free functions read only the atomic pointer; the mutex
// guards initialization alone.
var (
	globalBuf atomic.Pointer[TraceBuffer]
	initMu    sync.Mutex
	initDone  bool
)

// Init creates the process-wide trace buffer on first call; later calls
// are no-ops regardless of options or outcome. An error means tracing
// stays disabled for the process lifetime — Record and NextRequestID
// become cheap no-ops — and the host should carry on regardless.
func Init(opts Options) error {
	initMu.Lock()
	defer initMu.Unlock()
	if initDone {
		return nil
	}
	initDone = true

	b, err := Open(opts)
	if err != nil {
		return err
	}
	globalBuf.Store(b)
	return nil
}

// Enabled reports whether the process-wide buffer exists.
func Enabled() bool { return globalBuf.Load() != nil }

// Buffer returns the process-wide buffer, or nil when tracing is disabled.
// Read-side callers use it for Recent and Filter.
func Buffer() *TraceBuffer { return globalBuf.Load() }

// Record appends rec to the process-wide buffer. A no-op when tracing was
// never initialized.
func Record(rec *TraceRecord) {
	if b := globalBuf.Load(); b != nil {
		b.Append(rec)
	}
}

// NextRequestID allocates a correlation identifier from the process-wide
// buffer, or returns 0 when tracing is disabled. Callers must not read
// meaning into the zero value beyond "tracing may be off".
func NextRequestID() uint64 {
	if b := globalBuf.Load(); b != nil {
		return b.NextRequestID()
	}
	return 0
}
