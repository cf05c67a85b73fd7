// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thread

import (
	"sync/atomic"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// spinAttempts bounds how many times Lock spins on the test-and-set flag
// before parking the caller — the teacher's tryGet/tryPut bound contention
// retries the same way, via spin.Wait, before falling back to a blocking
// wait strategy.
const spinAttempts = 32

// Mutex is a test-and-set lock with an intrusive wait queue, scoped to a
// single Runtime. Unlock wakes every waiter at once ("wake all on
// release"); the re-lock contest reissues the test-and-set on each
// waiter's next dispatch, which is acceptable thundering-herd behavior for
// this teaching target.
type Mutex struct {
	rt *Runtime

	locked  atomic.Bool
	owner   int
	waiters []*tcb
}

// NewMutex constructs a Mutex scoped to rt.
func NewMutex(rt *Runtime) *Mutex {
	return &Mutex{rt: rt, owner: -1}
}

// Lock acquires the mutex, spinning on the test-and-set flag first and
// parking self on the wait queue if contention persists.
func (m *Mutex) Lock(self *Thread) {
	var sw spin.Wait
	for i := 0; i < spinAttempts; i++ {
		if m.locked.CompareAndSwap(false, true) {
			m.owner = self.id
			return
		}
		sw.Once()
	}
	for {
		if m.locked.CompareAndSwap(false, true) {
			m.owner = self.id
			return
		}
		m.park(self)
	}
}

// TryLock attempts to acquire the mutex without blocking, returning
// iox.ErrWouldBlock if it is currently held.
func (m *Mutex) TryLock(self *Thread) error {
	if m.locked.CompareAndSwap(false, true) {
		m.owner = self.id
		return nil
	}
	return iox.ErrWouldBlock
}

func (m *Mutex) park(self *Thread) {
	rt := m.rt
	rt.mu.Lock()
	t := rt.tcbs[self.id]
	t.status = Blocked
	m.waiters = append(m.waiters, t)
	rt.current = -1
	rt.dispatchLocked()
	rt.mu.Unlock()
	<-t.resume
}

// Unlock releases the mutex and moves every waiter back to runqueue 0,
// READY to re-contend.
func (m *Mutex) Unlock() {
	m.owner = -1
	m.locked.Store(false)

	rt := m.rt
	rt.mu.Lock()
	waiters := m.waiters
	m.waiters = nil
	for _, t := range waiters {
		t.status = Ready
		t.priority = 0
		rt.runqueues[0] = append(rt.runqueues[0], t)
	}
	rt.mu.Unlock()
}

// Destroy requires an unowned mutex; the runtime does not detect owner
// violations beyond this check, matching the source's contract.
func (m *Mutex) Destroy() {
	if m.locked.Load() {
		panic("thread: destroy of a locked mutex")
	}
}
