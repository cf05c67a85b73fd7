// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

// TwoLevel wraps an L1 and L2 Cache and implements the pinned refill
// ordering: every L1 miss probes L2; an L2 hit invalidates the L2 line
// (it now lives in L1, an inclusive hierarchy keeps it in exactly one
// place at a time); an L1 eviction is inserted into L2 at the evicted
// line's own (tag, set) under L2's geometry. L2 is never filled directly
// from an access — it is only ever probed (Cache.Probe, which never
// installs a missing line) — only L1 evictions populate it, via insert,
// which is what keeps the hierarchy inclusive without a second
// independent fill path.
type TwoLevel struct {
	L1, L2 *Cache
}

// NewTwoLevel constructs a two-level hierarchy. L1 and L2 must share a
// block size for the evicted-line address reconstruction to decode
// correctly under L2's geometry.
func NewTwoLevel(l1, l2 Config) *TwoLevel {
	return &TwoLevel{L1: New(l1), L2: New(l2)}
}

// TwoLevelResult reports both levels' outcomes for one Access. L2 is nil
// when the access hit in L1 and L2 was never consulted.
type TwoLevelResult struct {
	L1 Result
	L2 *Result
}

// Access decodes addr against L1 first, falling through to L2 on an L1
// miss per the refill ordering documented on TwoLevel.
func (tl *TwoLevel) Access(op Op, addr uint64) TwoLevelResult {
	r1 := tl.L1.Access(op, addr)
	res := TwoLevelResult{L1: r1}
	if r1.Hit {
		return res
	}

	r2 := tl.L2.Probe(addr)
	res.L2 = &r2
	if r2.Hit {
		tl.L2.invalidate(r2.Tag, r2.Set)
	}
	if r1.Evicted {
		evAddr := tl.L1.AddressOf(r1.EvictedTag, r1.EvictedSet)
		tl.L2.insert(evAddr)
	}
	return res
}
