// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vm

// TMalloc reserves a run of virtual pages covering at least bytes and maps
// each to a freshly allocated physical frame, growing the page directory
// with new page-table frames as needed. On any mid-way failure every frame
// and PTE installed by this call is rolled back before returning
// ErrOutOfMemory, so a failed TMalloc never leaves the bitmaps or page
// tables in a mixed state.
func (t *Translator) TMalloc(bytes int) (uint32, error) {
	if bytes <= 0 {
		return 0, ErrInvalidArgument
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureInit()

	numPages := ceilDiv(bytes, t.cfg.PageSize)
	startVPN, ok := t.virt.findClearRun(numPages)
	if !ok {
		return 0, ErrOutOfMemory
	}

	var undo []func()
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}

	for i := 0; i < numPages; i++ {
		vpn := startVPN + i
		pdIndex, ptIndex := t.decompose(vpn)

		ptFrame := t.readPDE(pdIndex)
		if ptFrame == 0 {
			f, ok := t.phys.findFirstClear()
			if !ok {
				rollback()
				return 0, ErrOutOfMemory
			}
			t.phys.Set(f)
			clear(t.mem[f*t.cfg.PageSize : (f+1)*t.cfg.PageSize])
			t.writePDE(pdIndex, uint32(f))
			ptFrame = uint32(f)
			undo = append(undo, func() {
				t.writePDE(pdIndex, 0)
				t.phys.Clear(f)
			})
		}

		pfn, ok := t.phys.findFirstClear()
		if !ok {
			rollback()
			return 0, ErrOutOfMemory
		}
		if err := t.pageMap(ptFrame, ptIndex, vpn, uint32(pfn)); err != nil {
			rollback()
			return 0, err
		}
		t.phys.Set(pfn)
		t.virt.Set(vpn)

		undo = append(undo, func() {
			t.virt.Clear(vpn)
			t.phys.Clear(pfn)
			t.writePTE(ptFrame, ptIndex, 0)
			t.tlbInvalidate(vpn)
		})
	}

	return uint32(startVPN * t.cfg.PageSize), nil
}

// TFree releases the numPages pages covering [va, va+bytes). It refuses the
// entire request if any covered VPN is not currently allocated, and
// reclaims a page table's frame once freeing leaves it entirely unused.
func (t *Translator) TFree(va uint32, bytes int) error {
	if bytes <= 0 {
		return ErrInvalidArgument
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureInit()

	startVPN := int(va) / t.cfg.PageSize
	numPages := ceilDiv(bytes, t.cfg.PageSize)

	for i := 0; i < numPages; i++ {
		if !t.virt.Get(startVPN + i) {
			return ErrInvalidAddress
		}
	}

	for i := 0; i < numPages; i++ {
		vpn := startVPN + i
		pdIndex, ptIndex := t.decompose(vpn)
		ptFrame := t.readPDE(pdIndex)
		pfn := t.readPTE(ptFrame, ptIndex)

		t.writePTE(ptFrame, ptIndex, 0)
		t.phys.Clear(int(pfn))
		t.virt.Clear(vpn)
		t.tlbInvalidate(vpn)

		if t.ptFrameEmpty(ptFrame) {
			t.writePDE(pdIndex, 0)
			t.phys.Clear(int(ptFrame))
		}
	}
	return nil
}
