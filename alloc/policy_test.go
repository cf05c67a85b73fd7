// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oskit-go/oskit/alloc"
)

func TestNextFit_WrapsToFindEarlierFreeBlock(t *testing.T) {
	// Cap the heap at exactly one chunk so next-fit cannot sidestep the
	// wraparound case by simply extending into fresh space.
	h := alloc.NewHeapWithLimit(alloc.NextFit, 12+4096)

	first, err := h.Allocate(40)
	require.NoError(t, err)

	// Consume the rest of the chunk so nothing ahead of the rover is
	// large enough once `first` is freed — the only path back to it is
	// a wraparound scan.
	for h.Stats().FreeBytes >= 48 {
		_, err := h.Allocate(40)
		require.NoError(t, err)
	}

	h.Free(first)

	got, err := h.Allocate(40)
	require.NoError(t, err)
	require.Equal(t, first, got, "next-fit must wrap around to find the earlier freed block")
}

// Boundary behavior from spec.md §8: a request that exactly fills the
// last free block triggers no split.
func TestAllocator_ExactFitTriggersNoSplit(t *testing.T) {
	h := alloc.NewHeap(alloc.FirstFit)
	a, err := h.Allocate(40)
	require.NoError(t, err)
	h.Free(a)

	before := h.Stats()
	exactSize := before.FreeBytes - 8 // payload that consumes the whole free block, header+footer already counted in FreeBytes
	if exactSize < 1 {
		exactSize = 1
	}
	got, err := h.Allocate(exactSize)
	require.NoError(t, err)
	require.Equal(t, a, got)
	require.Equal(t, 0, h.Stats().FreeListLen, "an exact fit must not leave a split remainder")
}
