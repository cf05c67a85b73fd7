// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

// Policy selects which free block a search picks among those large enough
// to satisfy a request.
type Policy int

const (
	// FirstFit returns the first sufficient block walking the free list
	// head to tail.
	FirstFit Policy = iota
	// NextFit returns the first sufficient free block walking the heap
	// in address order from a persistent rover, wrapping at most once.
	NextFit
	// BestFit returns the smallest sufficient block in the free list.
	BestFit
)

func (p Policy) String() string {
	switch p {
	case FirstFit:
		return "first-fit"
	case NextFit:
		return "next-fit"
	case BestFit:
		return "best-fit"
	default:
		return "unknown"
	}
}

// Heap is a single contiguous byte region handed out as variable-size
// blocks. The zero value is not usable; construct one with NewHeap.
//
// Heap is not safe for concurrent use; callers must serialize access
// externally, exactly as spec.md documents for the original C allocator.
type Heap struct {
	mem          []byte
	freeListHead uint32 // header offset of the first free block, 0 = empty
	rover        uint32 // next-fit cursor; only meaningful under NextFit
	policy       Policy

	// maxSize bounds how large the heap may grow; 0 means unbounded.
	// Exceeding it is what ErrOutOfMemory reports — the original C
	// allocator is bounded only by the host's mmap/sbrk limits, which
	// this in-process simulation has no equivalent of, so tests can
	// exercise OutOfMemory deterministically by setting a small cap.
	maxSize uint32
}

// NewHeap creates an empty heap (just prologue and epilogue, no free
// blocks) using the given fit policy. The heap grows on demand as
// Allocate requires more space.
func NewHeap(policy Policy) *Heap {
	return NewHeapWithLimit(policy, 0)
}

// NewHeapWithLimit is like NewHeap but caps the heap at maxSize bytes
// (including the prologue/epilogue); 0 means unbounded. Extension requests
// that would exceed the cap return ErrOutOfMemory instead of growing.
func NewHeapWithLimit(policy Policy, maxSize int) *Heap {
	h := &Heap{
		mem:     make([]byte, prologueSize+epilogueSize),
		rover:   heapStart,
		policy:  policy,
		maxSize: uint32(maxSize),
	}
	h.writeBlock(0, prologueSize, true)
	// Epilogue: a zero-size allocated header with no matching footer.
	h.setWord(prologueSize, pack(0, true))
	return h
}

// Policy reports the fit policy this heap was constructed with.
func (h *Heap) Policy() Policy { return h.policy }

// Size returns the current total heap size in bytes, including the
// prologue and epilogue.
func (h *Heap) Size() int { return len(h.mem) }

// Bytes exposes the heap's backing buffer directly, indexed by the same
// Ptr values Allocate returns. It exists for callers that need to read or
// write a block's payload (the allocator itself has no notion of "the
// caller's data", only block metadata) and for tests exercising the
// put/get round-trip laws in spec.md §8.
func (h *Heap) Bytes() []byte { return h.mem }

func (h *Heap) epilogueOffset() uint32 {
	return uint32(len(h.mem)) - epilogueSize
}

// extendHeap grows the heap by at least bytes (rounded up to a multiple of
// 8 to preserve alignment), writes a new free block header/footer in the
// space vacated by the old epilogue, writes a fresh epilogue at the new
// end, and coalesces the new block with its predecessor if possible.
// Returns the header offset of the (possibly coalesced) free block.
func (h *Heap) extendHeap(bytes uint32) (uint32, error) {
	grow := uint32(align8(int(bytes)))
	if grow == 0 {
		grow = wordSize * 2
	}
	if h.maxSize != 0 && uint32(len(h.mem))+grow > h.maxSize {
		return 0, ErrOutOfMemory
	}

	oldLen := uint32(len(h.mem))
	newBlockOffset := oldLen - epilogueSize
	h.mem = append(h.mem, make([]byte, grow)...)
	newLen := uint32(len(h.mem))

	h.writeBlock(newBlockOffset, grow, false)
	h.setWord(newLen-epilogueSize, pack(0, true))

	return h.coalesce(newBlockOffset), nil
}

// coalesce merges the free block at offset with any free neighbors,
// unlinking every absorbed neighbor before relinking the single merged
// block at the free list head. It returns the header offset of the
// resulting block (which may equal offset, or may have moved left if the
// previous block was absorbed).
func (h *Heap) coalesce(offset uint32) uint32 {
	size := h.blockSize(offset)

	prevFooter := offset - wordSize
	prevWord := h.getWord(prevFooter)
	prevAlloc := unpackAllocated(prevWord)
	prevSize := unpackSize(prevWord)
	prevOffset := offset - prevSize

	nextOffset := offset + size
	nextAlloc := h.isAllocated(nextOffset)
	nextSize := h.blockSize(nextOffset)

	merged := offset
	mergedSize := size

	switch {
	case prevAlloc && nextAlloc:
		// Nothing to merge.
	case prevAlloc && !nextAlloc:
		h.unlink(nextOffset)
		mergedSize += nextSize
	case !prevAlloc && nextAlloc:
		h.unlink(prevOffset)
		merged = prevOffset
		mergedSize += prevSize
	default: // both free
		h.unlink(prevOffset)
		h.unlink(nextOffset)
		merged = prevOffset
		mergedSize += prevSize + nextSize
	}

	h.writeBlock(merged, mergedSize, false)
	h.insertHead(merged)
	h.redirectRover(offset, size, prevOffset, prevSize, nextOffset, nextSize, merged)
	return merged
}

// redirectRover moves the next-fit rover to the merged block's start if it
// previously pointed inside any of the (up to three) blocks that were just
// absorbed into it.
func (h *Heap) redirectRover(offset, size, prevOffset, prevSize, nextOffset, nextSize, merged uint32) {
	if h.policy != NextFit {
		return
	}
	r := h.rover
	if (r >= offset && r < offset+size) ||
		(r >= prevOffset && r < prevOffset+prevSize) ||
		(r >= nextOffset && r < nextOffset+nextSize) {
		h.rover = merged
	}
}
