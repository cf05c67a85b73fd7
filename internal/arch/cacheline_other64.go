//go:build !amd64 && !arm64

package arch

// Default for remaining 64-bit architectures (riscv64, loong64, ppc64,
// ppc64le, s390x, mips64, mips64le, wasm): 64 bytes is the common case.
const cacheLineSize = 64
