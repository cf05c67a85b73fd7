// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

// Allocate reserves a block able to hold size bytes and returns a Ptr to
// its payload. A size of 0 returns (0, ErrInvalidArgument). If no free
// block is large enough, the heap is extended by max(adjusted size,
// 4096 bytes); if that would exceed a configured size limit, Allocate
// returns (0, ErrOutOfMemory) and leaves the heap unchanged.
func (h *Heap) Allocate(size int) (Ptr, error) {
	asize := adjustSize(size)
	if asize == 0 {
		return 0, ErrInvalidArgument
	}

	offset := h.findFit(asize)
	if offset == 0 {
		extend := asize
		if extend < chunkSize {
			extend = chunkSize
		}
		newOffset, err := h.extendHeap(extend)
		if err != nil {
			return 0, err
		}
		offset = newOffset
	}

	h.place(offset, asize)
	return payloadOffset(offset), nil
}

// place carves an allocated block of exactly asize bytes out of the free
// block at offset (which must have size >= asize). If the remainder is at
// least the minimum block size it is split off and reinserted into the
// free list at the position the original block occupied — its captured
// predecessor/successor, not the list head. Otherwise the whole block
// (including the slack) is marked allocated.
func (h *Heap) place(offset, asize uint32) {
	pred := h.getPred(offset)
	succ := h.getSucc(offset)
	h.unlink(offset)

	total := h.blockSize(offset)
	remainder := total - asize

	if remainder >= minBlockSize {
		h.writeBlock(offset, asize, true)
		remOffset := offset + asize
		h.writeBlock(remOffset, remainder, false)
		h.insertBetween(pred, succ, remOffset)
		h.advanceRoverAfterPlace(offset, total, remOffset)
	} else {
		h.writeBlock(offset, total, true)
		h.advanceRoverAfterPlace(offset, total, 0)
	}
}

// advanceRoverAfterPlace keeps the next-fit rover pointing at a block the
// free-list/heap-walk machinery can legally land on: if the rover was
// sitting on the block place just consumed, move it to the split
// remainder (if any) or past the block entirely.
func (h *Heap) advanceRoverAfterPlace(offset, total, remOffset uint32) {
	if h.policy != NextFit || h.rover != offset {
		return
	}
	if remOffset != 0 {
		h.rover = remOffset
	} else {
		h.rover = offset + total
	}
}
