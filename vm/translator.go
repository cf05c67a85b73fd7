// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vm

import (
	"encoding/binary"
	"sync"
)

// tlbEntry is one direct-mapped slot: tag is the VPN it caches, pfn is the
// resolved frame; pfn == 0 marks the slot empty (frame 0 permanently holds
// the page directory and is never handed out as a data frame, so 0 is a
// safe "empty" sentinel).
type tlbEntry struct {
	tag uint32
	pfn uint32
}

// Translator is a simulated two-level software MMU: a page directory held
// in frame 0, per-process page tables allocated on demand, and a
// direct-mapped TLB. Construct one with New.
type Translator struct {
	mu  sync.Mutex
	cfg Config

	mem  []byte
	phys *bitmap
	virt *bitmap
	tlb  []tlbEntry

	initialized bool

	lookups uint64
	misses  uint64
}

// New constructs a Translator with the given sizing configuration. Physical
// memory is allocated immediately, but the page directory and bitmaps are
// only initialized lazily, on the first TMalloc, TFree, PutValue, GetValue
// or DumpBitmaps call — matching the source's
// lazy-init-on-first-use behavior. An invalid Config is a caller bug and
// panics, consistent with this component's "library is free to abort"
// contract for malformed setup.
func New(cfg Config) *Translator {
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return &Translator{
		cfg: cfg,
		mem: make([]byte, cfg.MemSize()),
		tlb: make([]tlbEntry, cfg.TLBEntries),
	}
}

func (t *Translator) ensureInit() {
	if t.initialized {
		return
	}
	t.phys = newBitmap(t.cfg.PhysicalPages)
	t.virt = newBitmap(t.cfg.VirtualPages)
	t.phys.Set(0) // frame 0 holds the page directory, permanently claimed
	t.virt.Set(0) // VPN 0 is reserved
	for i := range t.tlb {
		t.tlb[i] = tlbEntry{}
	}
	t.initialized = true
}

func (t *Translator) decompose(vpn int) (pdIndex, ptIndex int) {
	return vpn / t.cfg.PTEntries, vpn % t.cfg.PTEntries
}

func (t *Translator) readPDE(pdIndex int) uint32 {
	return binary.LittleEndian.Uint32(t.mem[pdIndex*4:])
}

func (t *Translator) writePDE(pdIndex int, frame uint32) {
	binary.LittleEndian.PutUint32(t.mem[pdIndex*4:], frame)
}

func (t *Translator) readPTE(ptFrame uint32, ptIndex int) uint32 {
	off := int(ptFrame)*t.cfg.PageSize + ptIndex*4
	return binary.LittleEndian.Uint32(t.mem[off:])
}

func (t *Translator) writePTE(ptFrame uint32, ptIndex int, frame uint32) {
	off := int(ptFrame)*t.cfg.PageSize + ptIndex*4
	binary.LittleEndian.PutUint32(t.mem[off:], frame)
}

// pageMap writes the PTE for vpn iff it is currently absent, and seeds the
// TLB with the new translation. It fails with ErrAlreadyMapped if the PTE
// is already live.
func (t *Translator) pageMap(ptFrame uint32, ptIndex, vpn int, pfn uint32) error {
	if t.readPTE(ptFrame, ptIndex) != 0 {
		return ErrAlreadyMapped
	}
	t.writePTE(ptFrame, ptIndex, pfn)
	t.tlbInsert(vpn, pfn)
	return nil
}

func (t *Translator) tlbInsert(vpn int, pfn uint32) {
	t.tlb[vpn%t.cfg.TLBEntries] = tlbEntry{tag: uint32(vpn), pfn: pfn}
}

func (t *Translator) tlbInvalidate(vpn int) {
	slot := vpn % t.cfg.TLBEntries
	if int(t.tlb[slot].tag) == vpn {
		t.tlb[slot] = tlbEntry{}
	}
}

// translate resolves vpn to a physical frame number, consulting and
// maintaining the TLB and the lookup/miss counters. The second return
// value is false if vpn has no live mapping.
func (t *Translator) translate(vpn int) (uint32, bool) {
	t.lookups++
	slot := vpn % t.cfg.TLBEntries
	if e := t.tlb[slot]; e.pfn != 0 && int(e.tag) == vpn {
		return e.pfn, true
	}
	t.misses++
	pdIndex, ptIndex := t.decompose(vpn)
	ptFrame := t.readPDE(pdIndex)
	if ptFrame == 0 {
		return 0, false
	}
	pfn := t.readPTE(ptFrame, ptIndex)
	if pfn == 0 {
		return 0, false
	}
	t.tlbInsert(vpn, pfn)
	return pfn, true
}

// ptFrameEmpty reports whether every PTE slot in the page table held by
// ptFrame is clear.
func (t *Translator) ptFrameEmpty(ptFrame uint32) bool {
	for i := 0; i < t.cfg.PTEntries; i++ {
		if t.readPTE(ptFrame, i) != 0 {
			return false
		}
	}
	return true
}

func (t *Translator) pagesForRange(va uint32, n int) []int {
	if n <= 0 {
		return nil
	}
	first := int(va) / t.cfg.PageSize
	last := (int(va) + n - 1) / t.cfg.PageSize
	vpns := make([]int, 0, last-first+1)
	for vpn := first; vpn <= last; vpn++ {
		vpns = append(vpns, vpn)
	}
	return vpns
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Stats summarizes TLB behavior for reporting, matching spec.md §6's
// "TLB miss rate" stderr line.
type Stats struct {
	Lookups  uint64
	Misses   uint64
	MissRate float64
}

func (t *Translator) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Stats{Lookups: t.lookups, Misses: t.misses}
	if s.Lookups > 0 {
		s.MissRate = float64(s.Misses) / float64(s.Lookups)
	}
	return s
}

// DumpBitmaps returns defensive copies of the physical and virtual bitmaps,
// for round-trip tests asserting they return to their post-init state.
func (t *Translator) DumpBitmaps() (phys, virt []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureInit()
	return t.phys.bytesCopy(), t.virt.bytesCopy()
}
