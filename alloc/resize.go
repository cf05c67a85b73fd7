// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

// Resize changes the block at p to hold at least newSize bytes, returning
// the (possibly unchanged) Ptr to use going forward. A newSize <= 0 frees
// p and returns (0, nil). A 0 Ptr is treated as Allocate(newSize).
//
// If the current block already holds enough payload, it is returned
// unchanged (no split, matching spec.md §4.1: "If the current block is
// large enough, return it unchanged"). If the immediately following block
// is free and the combined size suffices, Resize grows in place by
// splitting that neighbor's head off — no data is copied. Otherwise a
// fresh block is allocated, the lesser of the old and new usable sizes is
// copied, and the old block is freed.
func (h *Heap) Resize(p Ptr, newSize int) (Ptr, error) {
	if newSize <= 0 {
		h.Free(p)
		return 0, nil
	}
	if p == 0 {
		return h.Allocate(newSize)
	}

	asize := adjustSize(newSize)
	offset := headerOffsetOf(p)
	oldSize := h.blockSize(offset)

	if oldSize >= asize {
		return p, nil
	}

	nextOffset := offset + oldSize
	if !h.isAllocated(nextOffset) {
		nextSize := h.blockSize(nextOffset)
		combined := oldSize + nextSize
		if combined >= asize {
			h.unlink(nextOffset)
			remainder := combined - asize
			if remainder >= minBlockSize {
				h.writeBlock(offset, asize, true)
				remOffset := offset + asize
				h.writeBlock(remOffset, remainder, false)
				h.insertHead(remOffset)
				if h.policy == NextFit && h.rover == nextOffset {
					h.rover = remOffset
				}
			} else {
				h.writeBlock(offset, combined, true)
				if h.policy == NextFit && h.rover == nextOffset {
					h.rover = offset + combined
				}
			}
			return p, nil
		}
	}

	newPtr, err := h.Allocate(newSize)
	if err != nil {
		return 0, err
	}
	oldPayload := int(oldSize) - 2*wordSize
	newPayload := int(h.blockSize(headerOffsetOf(newPtr))) - 2*wordSize
	n := oldPayload
	if newPayload < n {
		n = newPayload
	}
	copy(h.mem[newPtr:int(newPtr)+n], h.mem[p:int(p)+n])
	h.Free(p)
	return newPtr, nil
}
