// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

// The explicit free list lives in-band: a free block's payload opens with
// two words, pred then succ, each a header offset (0 meaning "none"). Only
// free blocks are ever read through these accessors — once a block is
// marked allocated its payload belongs entirely to the caller.

func (h *Heap) getPred(headerOffset uint32) uint32 {
	return h.getWord(headerOffset + wordSize)
}

func (h *Heap) setPred(headerOffset, pred uint32) {
	h.setWord(headerOffset+wordSize, pred)
}

func (h *Heap) getSucc(headerOffset uint32) uint32 {
	return h.getWord(headerOffset + 2*wordSize)
}

func (h *Heap) setSucc(headerOffset, succ uint32) {
	h.setWord(headerOffset+2*wordSize, succ)
}

// insertBetween links block into the free list directly between pred and
// succ (either may be 0, meaning "the list head" / "the list tail"). This
// is how place reinstates a split remainder at the position its parent
// block occupied, preserving the locality hint instead of pushing it to
// the list head.
func (h *Heap) insertBetween(pred, succ, block uint32) {
	h.setPred(block, pred)
	h.setSucc(block, succ)
	if pred != 0 {
		h.setSucc(pred, block)
	} else {
		h.freeListHead = block
	}
	if succ != 0 {
		h.setPred(succ, block)
	}
}

// insertHead pushes block onto the front of the free list — the default
// for newly freed and newly coalesced blocks.
func (h *Heap) insertHead(block uint32) {
	h.insertBetween(0, h.freeListHead, block)
}

// unlink removes block from the free list using its own current pred/succ
// links. Callers that need the removed position (place's split, resize's
// in-place growth) must read getPred/getSucc before calling unlink.
func (h *Heap) unlink(block uint32) {
	pred := h.getPred(block)
	succ := h.getSucc(block)
	if pred != 0 {
		h.setSucc(pred, succ)
	} else {
		h.freeListHead = succ
	}
	if succ != 0 {
		h.setPred(succ, pred)
	}
}

// freeListLen counts the current free list length. Used by tests and
// Stats; O(n) in the number of free blocks, not called from any hot path.
func (h *Heap) freeListLen() int {
	n := 0
	for b := h.freeListHead; b != 0; b = h.getSucc(b) {
		n++
	}
	return n
}
