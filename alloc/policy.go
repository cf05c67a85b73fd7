// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

// findFit locates a free block of at least asize bytes according to the
// heap's configured policy, returning its header offset or 0 if none
// fits in the heap's current footprint (the caller then extends the heap).
func (h *Heap) findFit(asize uint32) uint32 {
	switch h.policy {
	case NextFit:
		return h.findFitNext(asize)
	case BestFit:
		return h.findFitBest(asize)
	default:
		return h.findFitFirst(asize)
	}
}

// findFitFirst walks the free list head to tail and returns the first
// block whose size is at least asize.
func (h *Heap) findFitFirst(asize uint32) uint32 {
	for b := h.freeListHead; b != 0; b = h.getSucc(b) {
		if h.blockSize(b) >= asize {
			return b
		}
	}
	return 0
}

// findFitBest walks the free list and returns the smallest block whose
// size is at least asize, tracking the candidate BLOCK's own size as the
// running best — not the requested asize, which is the bug spec.md §4.1
// flags in the source and directs this rewrite to correct.
func (h *Heap) findFitBest(asize uint32) uint32 {
	var best uint32
	var bestSize uint32
	for b := h.freeListHead; b != 0; b = h.getSucc(b) {
		sz := h.blockSize(b)
		if sz < asize {
			continue
		}
		if best == 0 || sz < bestSize {
			best = b
			bestSize = sz
		}
	}
	return best
}

// findFitNext walks the heap in address order starting from the rover,
// wrapping around at the epilogue at most once, and returns the first
// free block encountered with size >= asize. The rover is left pointing
// at the returned block; place/coalesce advance or redirect it from there.
func (h *Heap) findFitNext(asize uint32) uint32 {
	epilogue := h.epilogueOffset()
	start := h.rover
	if start < heapStart || start >= epilogue {
		start = heapStart
	}

	offset := start
	wrapped := false
	for {
		if offset >= epilogue {
			if wrapped {
				return 0
			}
			offset = heapStart
			wrapped = true
		}
		if wrapped && offset >= start {
			// Back where we started (or past it): the first pass
			// already covered this block, nothing new to find.
			return 0
		}
		if !h.isAllocated(offset) && h.blockSize(offset) >= asize {
			h.rover = offset
			return offset
		}
		offset += h.blockSize(offset)
	}
}
