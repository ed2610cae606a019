package tracering

// FNV-1a 64-bit parameters.
const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// HashPath returns the 64-bit FNV-1a hash of the full request path.
//
// Records store at most PathCap path bytes, but the hash always covers the
// whole path, so exact-path filtering works even for truncated entries.
// Computed inline rather than through hash/fnv to keep the append path
// allocation-free.
func HashPath(path string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(path); i++ {
		h ^= uint64(path[i])
		h *= fnvPrime64
	}
	return h
}
