package tracering

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// ErrUnavailable marks initialization failures. Tracing is best-effort:
// hosts that see it run on with tracing disabled, never aborted.
var ErrUnavailable = errors.New("tracing unavailable")

// TraceBuffer is the live handle over one mapped trace file. It owns the
// mapping exclusively and is safe to share across goroutines: all mutation
// goes through atomic counters or independent 128-byte slot writes.
type TraceBuffer struct {
	file     *os.File
	mapped   []byte
	records  []byte // mapped[HeaderSize:]
	hdr      header
	capacity uint64
	filePath string
	readOnly bool
	openedAt time.Time // local reference instant, display only
}

// FilePath returns the path of the backing file.
func (b *TraceBuffer) FilePath() string { return b.filePath }

// Capacity returns the number of record slots, fixed for the file lifetime.
func (b *TraceBuffer) Capacity() uint64 { return b.capacity }

// OpenedAt returns the local wall-clock instant this handle was created.
// It is for human display only; record timestamps use the monotonic clock.
func (b *TraceBuffer) OpenedAt() time.Time { return b.openedAt }

// Open creates or reuses this process's trace file under opts.Dir, sizes it
// to opts.Size bytes and maps it shared read-write. A file whose header
// already matches the expected magic, version, record size and capacity is
// reused as-is, counters included; anything else gets its header
// reinitialized. All failures are returned as soft errors wrapping
// ErrUnavailable.
func Open(opts Options) (*TraceBuffer, error) {
	opts = opts.withDefaults()

	capacity := uint64(0)
	if opts.Size > HeaderSize {
		capacity = uint64(opts.Size-HeaderSize) / RecordSize
	}
	if capacity == 0 {
		return nil, fmt.Errorf("%w: size %d bytes leaves no record slots", ErrUnavailable, opts.Size)
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create trace dir: %v", ErrUnavailable, err)
	}

	path := filepath.Join(opts.Dir, fmt.Sprintf("trace.%d.bin", os.Getpid()))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}

	if err := f.Truncate(opts.Size); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: size %s: %v", ErrUnavailable, path, err)
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(opts.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrUnavailable, path, err)
	}

	b := &TraceBuffer{
		file:     f,
		mapped:   mapped,
		records:  mapped[HeaderSize:],
		hdr:      header{b: mapped[:HeaderSize]},
		capacity: capacity,
		filePath: path,
		openedAt: time.Now(),
	}
	if !b.hdr.valid(capacity) {
		b.hdr.initialize(capacity)
	}
	return b, nil
}

// OpenFile maps an existing trace file read-only for inspection, at
// whatever size it has on disk. Unlike Open it never rewrites a header:
// a file that does not carry a valid one is rejected. Append is a no-op
// on the returned handle; NextRequestID returns 0.
func OpenFile(path string) (*TraceBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := info.Size()
	if size < HeaderSize+RecordSize {
		f.Close()
		return nil, fmt.Errorf("%s: %d bytes is too small for a trace file", path, size)
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	capacity := uint64(size-HeaderSize) / RecordSize
	b := &TraceBuffer{
		file:     f,
		mapped:   mapped,
		records:  mapped[HeaderSize:],
		hdr:      header{b: mapped[:HeaderSize]},
		capacity: capacity,
		filePath: path,
		readOnly: true,
		openedAt: time.Now(),
	}
	if !b.hdr.valid(capacity) {
		b.Close()
		return nil, fmt.Errorf("%s: not a trace file (bad magic, version or layout)", path)
	}
	return b, nil
}

// Flush schedules the mapped region out to disk. Best effort only; the
// append/read contract does not depend on it ever being called.
func (b *TraceBuffer) Flush() error {
	if err := unix.Msync(b.mapped, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync %s: %w", b.filePath, err)
	}
	return nil
}

// Close releases the mapping and the file descriptor. The handle must not
// be used afterwards.
func (b *TraceBuffer) Close() error {
	var firstErr error
	if b.mapped != nil {
		if err := unix.Munmap(b.mapped); err != nil {
			firstErr = fmt.Errorf("munmap %s: %w", b.filePath, err)
		}
		b.mapped = nil
		b.records = nil
		b.hdr = header{}
	}
	if b.file != nil {
		if err := b.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", b.filePath, err)
		}
		b.file = nil
	}
	return firstErr
}
