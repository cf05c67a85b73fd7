// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oskit-go/oskit/cache"
)

func directMapped(policy cache.Policy) cache.Config {
	// 4 sets, 1 way each, 16-byte blocks: 64 bytes total.
	return cache.Config{Size: 64, Assoc: 1, BlockSize: 16, Policy: policy}
}

func TestCache_ColdMissThenHit(t *testing.T) {
	c := cache.New(directMapped(cache.LRU))

	r := c.Access(cache.Read, 0x00)
	require.False(t, r.Hit)

	r = c.Access(cache.Read, 0x00)
	require.True(t, r.Hit)

	s := c.Stats()
	require.Equal(t, uint64(2), s.Reads)
	require.Equal(t, uint64(1), s.Hits)
	require.Equal(t, uint64(1), s.Misses)
}

func TestCache_DirectMappedConflictAlwaysEvicts(t *testing.T) {
	c := cache.New(directMapped(cache.LRU))

	// Offset bits = 4 (16-byte block), set bits = 2 (4 sets): addr 0x00
	// and 0x40 share set 0 but differ in tag, so the second access must
	// evict the first.
	c.Access(cache.Write, 0x00)
	r := c.Access(cache.Read, 0x40)
	require.False(t, r.Hit)
	require.True(t, r.Evicted)

	// 0x00 is gone now.
	r = c.Access(cache.Read, 0x00)
	require.False(t, r.Hit)
}

func twoWay(policy cache.Policy) cache.Config {
	// 2 sets, 2 ways, 16-byte blocks: 64 bytes total.
	return cache.Config{Size: 64, Assoc: 2, BlockSize: 16, Policy: policy}
}

func TestCache_LRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := cache.New(twoWay(cache.LRU))

	// Three distinct tags mapping to the same set (stride = setCount *
	// blockSize = 32 bytes), filling both ways then forcing an eviction.
	c.Access(cache.Read, 0x00) // tag A, fills way 0
	c.Access(cache.Read, 0x20) // tag B, fills way 1
	c.Access(cache.Read, 0x00) // touch A: A now more recent than B
	c.Access(cache.Read, 0x40) // tag C: set is full, B (LRU) must be evicted

	// A should still be resident (it was touched most recently before C
	// arrived); B should not be.
	require.True(t, c.Access(cache.Read, 0x00).Hit)
	require.False(t, c.Access(cache.Read, 0x20).Hit)
}

func TestCache_FIFO_EvictsInsertionOrder_NotRecency(t *testing.T) {
	c := cache.New(twoWay(cache.FIFO))

	c.Access(cache.Read, 0x00) // tag A, fills way 0 (first in)
	c.Access(cache.Read, 0x20) // tag B, fills way 1
	c.Access(cache.Read, 0x00) // touch A — FIFO must NOT reorder on this
	c.Access(cache.Read, 0x40) // tag C: A was first in, so A is evicted

	require.False(t, c.Access(cache.Read, 0x00).Hit, "FIFO must evict insertion order, ignoring the touch")
}

func TestParsePolicy_UnrecognizedStringFallsBackToFIFO(t *testing.T) {
	require.Equal(t, cache.LRU, cache.ParsePolicy("lru"))
	require.Equal(t, cache.FIFO, cache.ParsePolicy("fifo"))
	require.Equal(t, cache.FIFO, cache.ParsePolicy("lr"))
	require.Equal(t, cache.FIFO, cache.ParsePolicy(""))
}

func TestTwoLevel_L2HitInvalidatesAndPromotesToL1(t *testing.T) {
	tl := cache.NewTwoLevel(
		cache.Config{Size: 32, Assoc: 1, BlockSize: 16, Policy: cache.LRU},  // L1: 2 sets
		cache.Config{Size: 128, Assoc: 1, BlockSize: 16, Policy: cache.LRU}, // L2: 8 sets
	)

	// Fill L1 set 0 with tag A (0x00), then evict it via a conflicting
	// access (0x20, same L1 set, different tag) so A lands in L2.
	tl.Access(cache.Read, 0x00)
	res := tl.Access(cache.Read, 0x20)
	require.True(t, res.L1.Evicted, "L1 conflict must evict")
	require.NotNil(t, res.L2, "L1 miss must consult L2")

	// A (0x00) must now be served by L2, which then invalidates its own
	// copy (it is back in L1 -- single-copy inclusion).
	res = tl.Access(cache.Read, 0x00)
	require.False(t, res.L1.Hit, "A was evicted from L1 by 0x20")
	require.NotNil(t, res.L2)
	require.True(t, res.L2.Hit, "A should have been pushed down to L2 by the earlier eviction")
}

func TestTwoLevel_ColdMissDoesNotPopulateL2(t *testing.T) {
	tl := cache.NewTwoLevel(
		cache.Config{Size: 16, Assoc: 1, BlockSize: 16, Policy: cache.LRU}, // L1: 1 set, 1 way
		cache.Config{Size: 32, Assoc: 1, BlockSize: 16, Policy: cache.LRU}, // L2: 2 sets
	)

	// A brand-new address misses both levels. L1 gets filled directly;
	// L2 must be left empty since it was only probed, not accessed --
	// only an L1 eviction may populate it.
	res := tl.Access(cache.Read, 0x00)
	require.False(t, res.L1.Hit)
	require.False(t, res.L1.Evicted, "L1's only line was free, nothing to evict")
	require.NotNil(t, res.L2)
	require.False(t, res.L2.Hit, "L2 must not have been populated by a direct access")

	stats := tl.L2.Stats()
	require.Equal(t, uint64(0), stats.Hits, "L2 should still be empty")
	require.Equal(t, uint64(1), stats.Misses, "the probe itself still counts as an L2 miss")
}

func TestTwoLevel_L1EvictionInsertedIntoL2(t *testing.T) {
	tl := cache.NewTwoLevel(
		cache.Config{Size: 16, Assoc: 1, BlockSize: 16, Policy: cache.LRU}, // L1: 1 set, 1 way
		cache.Config{Size: 32, Assoc: 1, BlockSize: 16, Policy: cache.LRU}, // L2: 2 sets
	)

	tl.Access(cache.Read, 0x00)           // resident in L1 only
	res := tl.Access(cache.Read, 0x10)    // evicts 0x00's line from L1's only set
	require.True(t, res.L1.Evicted)

	// 0x00 must now be found in L2 (inserted by the L1 eviction), not
	// main memory (an L2 miss).
	res = tl.Access(cache.Read, 0x00)
	require.False(t, res.L1.Hit)
	require.NotNil(t, res.L2)
	require.True(t, res.L2.Hit, "evicted L1 line must have been inserted into L2")
}

func TestReadTrace_ParsesReadsAndWrites(t *testing.T) {
	in := "R 0x10\nW 20\n\n  R 0xFF  \n"
	entries, err := cache.ReadTrace(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []cache.Entry{
		{Op: cache.Read, Addr: 0x10},
		{Op: cache.Write, Addr: 0x20},
		{Op: cache.Read, Addr: 0xFF},
	}, entries)
}

func TestReadTrace_RejectsMalformedLine(t *testing.T) {
	_, err := cache.ReadTrace(strings.NewReader("X 0x10\n"))
	require.Error(t, err)

	_, err = cache.ReadTrace(strings.NewReader("R notHex\n"))
	require.Error(t, err)
}
