// Package tracering provides a zero-allocation, lock-free request-tracing
// ring buffer backed by a memory-mapped file. A reverse proxy records one
// fixed 128-byte record per completed HTTP request; an out-of-process
// diagnostic tool decodes the same file to inspect recent traffic without
// the proxy pausing, locking, or allocating on the hot path.
//
// The library is organised into several files for clarity:
//
//	options.go – configuration struct & defaults
//	config.go  – optional TOML config file shared with the reader CLI
//	record.go  – 128-byte packed record codec (setters/getters)
//	header.go  – 64-byte file header & atomic counters in the mapping
//	buffer.go  – create/open/map lifecycle, Close & Flush
//	io.go      – lock-free Append & request-id allocation
//	scan.go    – Read, Recent and Filter read patterns
//	clock.go   – cross-process monotonic timestamps
//	hash.go    – FNV-1a path hashing
//	global.go  – process-wide buffer & free functions
//	stats.go   – lightweight stats accessors
//
// Each operating-system process owns exactly one backing file, named
// trace.<pid>.bin. Records may be overwritten once the ring wraps and a
// reader may observe torn records under extreme concurrency; both are
// accepted costs of having no locks. See the cmd/tracering reader for the
// decoding side.
package tracering
