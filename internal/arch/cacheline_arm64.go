//go:build arm64

package arch

// Apple Silicon uses a 128-byte L2 line; 64 bytes would false-share on it,
// so arm64 pads conservatively to 128 even though most Cortex-A L1 lines
// are 64 bytes.
const cacheLineSize = 128
