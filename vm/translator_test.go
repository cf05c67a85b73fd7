// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oskit-go/oskit/vm"
)

// Scenario 3 from spec.md §8: a three-page malloc, then a put/get
// round-trip into the second page.
func TestVM_ThreePageRoundTrip(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	va, err := tr.TMalloc(cfg.PageSize * 3)
	require.NoError(t, err)
	require.Equal(t, uint32(cfg.PageSize), va, "first run starts one page above the reserved VPN 0 base")

	err = tr.PutValue(va+uint32(cfg.PageSize), []byte("hi"))
	require.NoError(t, err)

	buf := make([]byte, 2)
	err = tr.GetValue(va+uint32(cfg.PageSize), buf)
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), buf)
}

// Scenario 4 from spec.md §8: t_free after t_malloc returns both bitmaps to
// their post-init state.
func TestVM_FreeRestoresPostInitBitmaps(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	physBefore, virtBefore := tr.DumpBitmaps()

	va, err := tr.TMalloc(cfg.PageSize * 3)
	require.NoError(t, err)

	err = tr.TFree(va, cfg.PageSize*3)
	require.NoError(t, err)

	physAfter, virtAfter := tr.DumpBitmaps()
	require.Equal(t, physBefore, physAfter)
	require.Equal(t, virtBefore, virtAfter)
}

func TestVM_PutValueRoundTrip_AnySizeWithinAllocation(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	va, err := tr.TMalloc(cfg.PageSize * 2)
	require.NoError(t, err)

	src := make([]byte, cfg.PageSize+37)
	for i := range src {
		src[i] = byte(i)
	}
	require.NoError(t, tr.PutValue(va, src))

	dst := make([]byte, len(src))
	require.NoError(t, tr.GetValue(va, dst))
	require.Equal(t, src, dst)
}

func TestVM_AllocateOneByte_AllocatesOnePage(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	va, err := tr.TMalloc(1)
	require.NoError(t, err)

	err = tr.TFree(va, cfg.PageSize+1) // would span two pages if one page wasn't enough
	require.ErrorIs(t, err, vm.ErrInvalidAddress, "only one page was ever allocated")
}

func TestVM_AllocationCrossingPTBoundary_GrowsPageDirectory(t *testing.T) {
	cfg := vm.DefaultConfig()
	// 64 data frames plus two page-table frames do not fit in the default
	// 64 frames, so this test gives the translator more physical memory.
	cfg.PhysicalPages = 128
	tr := vm.New(cfg)

	// cfg.PTEntries pages, starting right after the reserved VPN 0, spans
	// two page-table groups (pdIndex 0 and pdIndex 1).
	va, err := tr.TMalloc(cfg.PageSize * cfg.PTEntries)
	require.NoError(t, err)

	far := va + uint32((cfg.PTEntries-1)*cfg.PageSize)
	require.NoError(t, tr.PutValue(far, []byte("x")))

	buf := make([]byte, 1)
	require.NoError(t, tr.GetValue(far, buf))
	require.Equal(t, []byte("x"), buf)
}

func TestVM_FreeingLastVPNOfPageTable_ReclaimsItsFrame(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	physBefore, _ := tr.DumpBitmaps()

	va, err := tr.TMalloc(cfg.PageSize)
	require.NoError(t, err)
	require.NoError(t, tr.TFree(va, cfg.PageSize))

	physAfter, _ := tr.DumpBitmaps()
	require.Equal(t, physBefore, physAfter, "both the data frame and its now-empty page table frame must be reclaimed")
}

func TestVM_TMalloc_ZeroOrNegativeIsInvalidArgument(t *testing.T) {
	tr := vm.New(vm.DefaultConfig())
	_, err := tr.TMalloc(0)
	require.ErrorIs(t, err, vm.ErrInvalidArgument)
}

func TestVM_TFree_UnallocatedVPNRefusesEntireRequest(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	va, err := tr.TMalloc(cfg.PageSize)
	require.NoError(t, err)

	err = tr.TFree(va, cfg.PageSize*2) // second page was never allocated
	require.ErrorIs(t, err, vm.ErrInvalidAddress)

	// The refusal must be all-or-nothing: the first page is still there.
	require.NoError(t, tr.PutValue(va, []byte("still mapped")))
}

func TestVM_GetValue_PreValidatesAllocation(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	buf := make([]byte, 4)
	err := tr.GetValue(0, buf) // VPN 0 is reserved, never allocated to a caller
	require.ErrorIs(t, err, vm.ErrInvalidAddress)
}

func TestVM_OutOfMemory_RollsBackPartialAllocation(t *testing.T) {
	cfg := vm.DefaultConfig()
	cfg.PhysicalPages = 4 // frame 0 (directory) + only 3 usable frames
	tr := vm.New(cfg)

	physBefore, virtBefore := tr.DumpBitmaps()

	// Needs a new page-table frame plus several data frames: more than the
	// 3 remaining physical frames can satisfy.
	_, err := tr.TMalloc(cfg.PageSize * 10)
	require.ErrorIs(t, err, vm.ErrOutOfMemory)

	physAfter, virtAfter := tr.DumpBitmaps()
	require.Equal(t, physBefore, physAfter, "a failed allocation must leave the physical bitmap untouched")
	require.Equal(t, virtBefore, virtAfter, "a failed allocation must leave the virtual bitmap untouched")
}

func TestVM_Stats_TracksLookupsAndMisses(t *testing.T) {
	cfg := vm.DefaultConfig()
	tr := vm.New(cfg)

	va, err := tr.TMalloc(cfg.PageSize)
	require.NoError(t, err)

	require.NoError(t, tr.PutValue(va, []byte("x")))
	buf := make([]byte, 1)
	require.NoError(t, tr.GetValue(va, buf))

	stats := tr.Stats()
	require.Positive(t, stats.Lookups)
	require.GreaterOrEqual(t, stats.MissRate, 0.0)
	require.LessOrEqual(t, stats.MissRate, 1.0)
}
