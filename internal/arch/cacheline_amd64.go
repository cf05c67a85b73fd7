//go:build amd64

package arch

// Intel/AMD x86-64 parts use 64-byte L1 cache lines.
const cacheLineSize = 64
