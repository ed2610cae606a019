package tracering

import (
	"os"
	"path/filepath"
)

// DefaultSize is the default total backing file size: 16 MiB, roughly
// 131,000 record slots after the header.
const DefaultSize int64 = 16 << 20

// Options configures the backing file for a trace buffer.
//
//   - Dir:  directory holding the per-process trace files (created if
//     missing; default is a per-tool config subdirectory)
//   - Size: total file size in bytes, header included (default 16 MiB)
//
// A zero value means use the default. A Size too small to hold the header
// plus one record makes Open fail with ErrUnavailable.
type Options struct {
	Dir  string
	Size int64
}

// DefaultOptions returns the configuration Open applies for zero fields.
func DefaultOptions() Options {
	return Options{
		Dir:  defaultDir(),
		Size: DefaultSize,
	}
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = defaultDir()
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	return o
}

// defaultDir is the per-tool config subdirectory, falling back to the
// system temp dir when no user config dir is resolvable.
func defaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "tracering")
}
