// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oskit-go/oskit/alloc"
)

func TestResize_NonPositiveFreesAndReturnsZero(t *testing.T) {
	h := alloc.NewHeap(alloc.FirstFit)
	p, err := h.Allocate(64)
	require.NoError(t, err)

	got, err := h.Resize(p, 0)
	require.NoError(t, err)
	require.Zero(t, got)
}

func TestResize_NullActsLikeAllocate(t *testing.T) {
	h := alloc.NewHeap(alloc.FirstFit)
	p, err := h.Resize(0, 32)
	require.NoError(t, err)
	require.NotZero(t, p)
}

func TestResize_SufficientBlockReturnsSamePointer(t *testing.T) {
	h := alloc.NewHeap(alloc.FirstFit)
	p, err := h.Allocate(100)
	require.NoError(t, err)

	got, err := h.Resize(p, 50)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestResize_GrowsInPlaceIntoFreeNeighbor(t *testing.T) {
	h := alloc.NewHeap(alloc.FirstFit)
	a, err := h.Allocate(32)
	require.NoError(t, err)
	b, err := h.Allocate(32)
	require.NoError(t, err)
	_, err = h.Allocate(8) // anchor so b's neighbor can be freed cleanly
	require.NoError(t, err)

	h.Free(b)

	got, err := h.Resize(a, 60)
	require.NoError(t, err)
	require.Equal(t, a, got, "should grow in place without moving")
}

func TestResize_CopiesOnMove(t *testing.T) {
	h := alloc.NewHeap(alloc.FirstFit)
	a, err := h.Allocate(16)
	require.NoError(t, err)
	b, err := h.Allocate(16)
	require.NoError(t, err)
	_ = b // keep adjacent so a cannot grow in place

	payload := []byte("hello, world!!!!")[:16]
	writePayload(h, a, payload)

	grown, err := h.Resize(a, 512)
	require.NoError(t, err)
	require.NotEqual(t, a, grown)
	require.Equal(t, payload, readPayload(h, grown, 16))
}

// writePayload/readPayload poke directly at the heap's exported Ptr
// addressing for round-trip tests; they do not reach into any
// unexported field.
func writePayload(h *alloc.Heap, p alloc.Ptr, data []byte) {
	buf := h.Bytes()
	copy(buf[p:int(p)+len(data)], data)
}

func readPayload(h *alloc.Heap, p alloc.Ptr, n int) []byte {
	buf := h.Bytes()
	out := make([]byte, n)
	copy(out, buf[p:int(p)+n])
	return out
}
