package tracering

import "golang.org/x/sys/unix"

// Now reads the operating system's monotonic clock in nanoseconds.
//
// This is deliberately not time.Since of some process-start instant: the
// raw CLOCK_MONOTONIC reading is the same time base for every process on
// the machine, so an external tool can merge trace files from several
// proxy processes and order their records. It never goes backwards and is
// unrelated to the wall clock. Not comparable across machines.
func Now() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Nano())
}
