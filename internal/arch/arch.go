// Package arch holds the handful of hardware constants used by alloc and
// internal/bufpool: the native word size the allocator aligns blocks to,
// and the cache line size bufpool uses to spread neighboring pool slots
// across different lines.
package arch

// WordSize is the unit the allocator grows the heap and aligns blocks by.
// The original C allocator used sizeof(long); this module fixes it at the
// spec's 4-byte word regardless of host pointer width, so block layout is
// reproducible across architectures.
const WordSize = 4

// CacheLineSize is the L1 cache line size for the build architecture. It is
// not required for correctness anywhere in this module; it only controls
// how internal/bufpool remaps consecutive slot indices onto distinct cache
// lines to avoid false sharing.
const CacheLineSize = cacheLineSize
