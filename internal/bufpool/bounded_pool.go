// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bufpool

import (
	"math"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"

	"github.com/oskit-go/oskit/internal/arch"
)

// noCopy is a sentinel used to prevent copying of synchronization
// primitives; go vet flags any type embedding it that is passed by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// BoundedPool is a generic bounded MPMC pool. Items are retrieved and
// returned by an "indirect" int index rather than by value, so large
// items (e.g. a scratch []byte) are never copied through the pool itself
// — only the index moves between the lock-free head/tail cursors.
//
// If the pool is empty, Get blocks (via iox.Backoff) until Put makes an
// item available, unless SetNonblock(true) is set, in which case it
// returns iox.ErrWouldBlock immediately. BoundedPool is safe for
// concurrent use.
//
// The implementation is based on the algorithm in
// https://nikitakoval.org/publications/ppopp20-queues.pdf
type BoundedPool[T any] struct {
	_ noCopy

	items      []T
	capacity   uint32
	mask       uint32
	entries    []atomic.Uint64
	remapM     uint32
	remapN     uint32
	remapMask  uint32
	head, tail atomic.Uint32

	nonblocking bool
}

// NewBoundedPool constructs a BoundedPool with the given capacity, rounded
// up to the next power of two. capacity must be in [1, math.MaxUint32].
func NewBoundedPool[T any](capacity int) *BoundedPool[T] {
	if capacity < 1 || capacity > math.MaxUint32 {
		panic("bufpool: capacity must be between 1 and MaxUint32")
	}
	capacity--
	capacity |= capacity >> 1
	capacity |= capacity >> 2
	capacity |= capacity >> 4
	capacity |= capacity >> 8
	capacity |= capacity >> 16
	capacity++

	items := make([]T, 0, capacity)

	remapM := min(uintptr(arch.CacheLineSize)/unsafe.Sizeof(atomic.Uint64{}), uintptr(capacity))
	remapN := max(1, uintptr(capacity)/remapM)
	remapMask := remapN - 1

	return &BoundedPool[T]{
		items:     items,
		capacity:  uint32(capacity),
		mask:      uint32(capacity - 1),
		remapM:    uint32(remapM),
		remapN:    uint32(remapN),
		remapMask: uint32(remapMask),
	}
}

// Fill initializes the pool, calling newFunc once per slot to populate it.
// Must be called before Get/Put/Value/SetValue.
func (pool *BoundedPool[T]) Fill(newFunc func() T) {
	for range pool.capacity {
		pool.items = append(pool.items, newFunc())
	}
	pool.entries = make([]atomic.Uint64, pool.capacity)
	for i := range pool.capacity {
		pool.entries[i].Store(uint64(i))
	}
	pool.tail.Store(pool.capacity)
}

// SetNonblock toggles whether Get/Put return iox.ErrWouldBlock instead of
// blocking when the pool is empty/full, respectively.
func (pool *BoundedPool[T]) SetNonblock(nonblocking bool) {
	pool.nonblocking = nonblocking
}

// Value returns the item at the given indirect index, acquired via Get.
func (pool *BoundedPool[T]) Value(indirect int) T {
	pool.checkFilled()
	pool.checkIndirect(indirect)
	return pool.items[indirect]
}

// SetValue updates the item at the given indirect index, acquired via Get.
func (pool *BoundedPool[T]) SetValue(indirect int, value T) {
	pool.checkFilled()
	pool.checkIndirect(indirect)
	pool.items[indirect] = value
}

func (pool *BoundedPool[T]) checkFilled() {
	if len(pool.items) != int(pool.capacity) {
		panic("bufpool: must Fill the pool before using it")
	}
}

func (pool *BoundedPool[T]) checkIndirect(indirect int) {
	if indirect&boundedPoolEntryEmpty == boundedPoolEntryEmpty {
		panic("bufpool: invalid indirect index")
	}
	if indirect < 0 || indirect >= int(pool.capacity) {
		panic("bufpool: invalid indirect index")
	}
}

// Get acquires an item's indirect index from the pool, blocking (or
// returning iox.ErrWouldBlock in nonblocking mode) while the pool is
// empty.
func (pool *BoundedPool[T]) Get() (indirect int, err error) {
	pool.checkFilled()
	var aw iox.Backoff
	for {
		entry, err := pool.tryGet()
		if err == nil {
			return int(entry & uint64(pool.mask)), nil
		}
		if err == iox.ErrWouldBlock {
			if pool.nonblocking {
				return boundedPoolEntryEmpty, err
			}
			aw.Wait()
			continue
		}
		return boundedPoolEntryEmpty, err
	}
}

// Put returns indirect to the pool, blocking (or returning
// iox.ErrWouldBlock in nonblocking mode) while the pool is full.
func (pool *BoundedPool[T]) Put(indirect int) error {
	pool.checkFilled()
	entry := uint64(indirect)
	var aw iox.Backoff
	for {
		err := pool.tryPut(entry)
		if err == nil {
			return nil
		}
		if err == iox.ErrWouldBlock {
			if pool.nonblocking {
				return err
			}
			aw.Wait()
			continue
		}
		return err
	}
}

// Cap returns the pool's capacity.
func (pool *BoundedPool[T]) Cap() int {
	return int(pool.capacity)
}

const (
	boundedPoolEntryEmpty    = 1 << 62
	boundedPoolEntryTurnMask = boundedPoolEntryEmpty>>32 - 1
)

func (pool *BoundedPool[T]) tryGet() (entry uint64, err error) {
	sw := spin.Wait{}
	for {
		h, t := pool.head.Load(), pool.tail.Load()
		hi := pool.remap(h & pool.mask)
		e := pool.entries[hi].Load()

		if h != pool.head.Load() {
			sw.Once()
			continue
		}

		if h == t {
			return boundedPoolEntryEmpty, iox.ErrWouldBlock
		}

		nextTurn := (h/pool.capacity + 1) & boundedPoolEntryTurnMask
		if e == pool.empty(nextTurn) {
			pool.head.CompareAndSwap(h, h+1)
			sw.Once()
			continue
		}
		ok := pool.entries[hi].CompareAndSwap(e, pool.empty(nextTurn))
		pool.head.CompareAndSwap(h, h+1)
		if ok {
			return e, nil
		}
		sw.Once()
	}
}

func (pool *BoundedPool[T]) tryPut(e uint64) error {
	sw := spin.Wait{}
	for {
		h, t := pool.head.Load(), pool.tail.Load()
		if t != pool.tail.Load() {
			sw.Once()
			continue
		}
		if t == h+pool.capacity {
			return iox.ErrWouldBlock
		}
		turn, ti := (t/pool.capacity)&boundedPoolEntryTurnMask, pool.remap(t)
		ok := pool.entries[ti].CompareAndSwap(pool.empty(turn), e)
		pool.tail.CompareAndSwap(t, t+1)
		if ok {
			return nil
		}
		sw.Once()
	}
}

func (pool *BoundedPool[T]) remap(cursor uint32) int {
	p, q := cursor/pool.remapN, cursor&pool.remapMask
	return int(q*pool.remapM + p%pool.remapM)
}

func (pool *BoundedPool[T]) empty(turn uint32) uint64 {
	return boundedPoolEntryEmpty | uint64(turn&boundedPoolEntryTurnMask)
}
