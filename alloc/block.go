// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

import (
	"encoding/binary"

	"github.com/oskit-go/oskit/internal/arch"
)

// Ptr is an offset into a Heap's backing buffer, one word past a block's
// header — i.e. the address of the block's payload. The zero Ptr is never
// valid (it would fall inside the prologue) and is used as "null".
type Ptr uint32

const (
	wordSize      = arch.WordSize // 4
	allocatedBit  = 1
	minBlockSize  = 24
	prologueSize  = 8
	epilogueSize  = wordSize
	chunkSize     = 4096
	heapStart     = prologueSize // first real block's header offset
)

func align8(n int) int {
	return (n + 7) &^ 7
}

// pack encodes a block size and allocated flag into the word stored in a
// header or footer.
func pack(size uint32, allocated bool) uint32 {
	if allocated {
		return size | allocatedBit
	}
	return size
}

func unpackSize(word uint32) uint32 {
	return word &^ allocatedBit
}

func unpackAllocated(word uint32) bool {
	return word&allocatedBit != 0
}

func (h *Heap) getWord(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(h.mem[offset : offset+4])
}

func (h *Heap) setWord(offset uint32, word uint32) {
	binary.LittleEndian.PutUint32(h.mem[offset:offset+4], word)
}

func (h *Heap) blockSize(headerOffset uint32) uint32 {
	return unpackSize(h.getWord(headerOffset))
}

func (h *Heap) isAllocated(headerOffset uint32) bool {
	return unpackAllocated(h.getWord(headerOffset))
}

func (h *Heap) footerOffset(headerOffset, size uint32) uint32 {
	return headerOffset + size - wordSize
}

// writeBlock sets both the header and footer of the block starting at
// headerOffset — the boundary-tag invariant (header == footer) is
// maintained by construction, never by a separate check.
func (h *Heap) writeBlock(headerOffset, size uint32, allocated bool) {
	word := pack(size, allocated)
	h.setWord(headerOffset, word)
	h.setWord(h.footerOffset(headerOffset, size), word)
}

// payloadOffset returns the Ptr (payload address) for a block header.
func payloadOffset(headerOffset uint32) Ptr {
	return Ptr(headerOffset + wordSize)
}

// headerOffsetOf is the inverse of payloadOffset.
func headerOffsetOf(p Ptr) uint32 {
	return uint32(p) - wordSize
}

// adjustSize applies the spec's rounding rule: requests of 16 bytes or
// less round up to the 24-byte minimum block payload; larger requests add
// the 8 bytes of header+footer overhead and round up to a multiple of 8.
// A size of 0 is invalid and returns 0.
func adjustSize(size int) uint32 {
	if size <= 0 {
		return 0
	}
	if size <= 16 {
		return minBlockSize
	}
	return uint32(align8(size + wordSize + wordSize))
}
