// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

// Free releases the block p points at, coalescing it with any free
// neighbors. Freeing the zero Ptr is a documented no-op, matching the
// spec's "null pointer to free" case.
func (h *Heap) Free(p Ptr) {
	if p == 0 {
		return
	}
	offset := headerOffsetOf(p)
	size := h.blockSize(offset)
	h.writeBlock(offset, size, false)
	h.coalesce(offset)
}
