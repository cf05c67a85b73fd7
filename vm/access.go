// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vm

// PutValue copies src into the bytes starting at va, translating one
// virtual page at a time. Every VPN the write touches is validated as
// allocated before any byte is copied, so a failure leaves memory
// untouched.
func (t *Translator) PutValue(va uint32, src []byte) error {
	return t.copyPage(va, src, true)
}

// GetValue copies len(dst) bytes starting at va into dst, translating one
// virtual page at a time. Like PutValue, every covered VPN is validated as
// allocated before any byte is copied — the source's get_value skips this
// check, a latent fault this translator does not reproduce.
func (t *Translator) GetValue(va uint32, dst []byte) error {
	return t.copyPage(va, dst, false)
}

func (t *Translator) copyPage(va uint32, buf []byte, write bool) error {
	if len(buf) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensureInit()

	for _, vpn := range t.pagesForRange(va, len(buf)) {
		if !t.virt.Get(vpn) {
			return ErrInvalidAddress
		}
	}

	done := 0
	for done < len(buf) {
		cur := int(va) + done
		vpn := cur / t.cfg.PageSize
		pageOff := cur % t.cfg.PageSize

		pfn, ok := t.translate(vpn)
		if !ok {
			// Reached for VPN 0: it is marked in the virtual bitmap as
			// reserved, so it passes the pre-validation above, but it is
			// never mapped.
			return ErrInvalidAddress
		}

		n := len(buf) - done
		if residual := t.cfg.PageSize - pageOff; n > residual {
			n = residual
		}

		physOff := int(pfn)*t.cfg.PageSize + pageOff
		if write {
			copy(t.mem[physOff:physOff+n], buf[done:done+n])
		} else {
			copy(buf[done:done+n], t.mem[physOff:physOff+n])
		}
		done += n
	}
	return nil
}
