// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package alloc implements a boundary-tagged heap allocator with an
// explicit, in-band free list and three selectable fit policies.
//
// # Layout
//
// The heap is a single contiguous byte buffer. A one-block prologue of size
// 8 (permanently allocated) sits at the start, and a zero-size allocated
// epilogue header sits at the end; both bound coalescing so free-block
// merging never needs to special-case the ends of the heap. Every block in
// between carries a header word and a footer word, each encoding the
// block's size (always a multiple of 8, always at least 24) and its
// allocated bit. While a block is free, the first two payload words store
// the offsets (not pointers — see below) of the previous and next free
// block, forming a doubly linked explicit free list.
//
// # Offsets, not pointers
//
// The heap is Go-owned ([]byte), not malloc'd C memory, so free-list links
// are stored as byte offsets into that buffer (0 meaning "none" — offset 0
// always falls inside the prologue, which is never free) rather than raw
// pointers. This sidesteps the pointer/payload aliasing the original C
// allocator relies on while keeping the exact same bit layout and
// algorithms.
//
// # Fit policies
//
// FirstFit walks the free list head to tail and returns the first block
// large enough. NextFit walks the heap in address order from a persistent
// rover, wrapping at most once. BestFit walks the free list and returns the
// smallest sufficient block, tracked by the candidate block's own size.
//
// # Concurrency
//
// Heap is not safe for concurrent use — exactly like the C original, it
// takes no internal lock. Callers that share a Heap across goroutines must
// serialize access themselves.
package alloc
