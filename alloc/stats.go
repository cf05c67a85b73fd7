// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

// Stats summarizes a Heap's current bookkeeping, used by tests and by
// cmd/allocbench to report allocator behavior without exposing internal
// offsets.
type Stats struct {
	HeapSize     int
	FreeListLen  int
	BlockCount   int
	UsedBytes    int
	FreeBytes    int
}

// Stats computes a point-in-time snapshot by walking the heap.
func (h *Heap) Stats() Stats {
	var s Stats
	s.HeapSize = len(h.mem)
	s.FreeListLen = h.freeListLen()
	h.Walk(func(b BlockInfo) bool {
		s.BlockCount++
		if b.Allocated {
			s.UsedBytes += int(b.Size)
		} else {
			s.FreeBytes += int(b.Size)
		}
		return true
	})
	return s
}

// BlockInfo describes one block for Walk's callback.
type BlockInfo struct {
	Offset    uint32
	Size      uint32
	Allocated bool
}

// Walk visits every block between the prologue and epilogue in address
// order, stopping early if visit returns false. It is read-only and
// intended for invariant-checking tests (header==footer, no two adjacent
// free blocks, sum of sizes == heap size).
func (h *Heap) Walk(visit func(BlockInfo) bool) {
	epilogue := h.epilogueOffset()
	for offset := uint32(heapStart); offset < epilogue; {
		size := h.blockSize(offset)
		if size == 0 {
			break // malformed heap; avoid an infinite loop
		}
		info := BlockInfo{Offset: offset, Size: size, Allocated: h.isAllocated(offset)}
		if !visit(info) {
			return
		}
		offset += size
	}
}

// headerEqualsFooter reports whether the block at offset has matching
// header and footer words — true for every well-formed block. It is
// unexported; tests outside the package compare the words through Bytes
// and the offsets Walk reports.
func (h *Heap) headerEqualsFooter(offset uint32) bool {
	size := h.blockSize(offset)
	return h.getWord(offset) == h.getWord(h.footerOffset(offset, size))
}
