// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thread

// Thread is a handle a running body uses to interact with its own
// scheduling: yielding, checking for pending preemption, and joining
// other threads. Every Create call and Runtime.Main hand out exactly one
// Thread per tcb.
type Thread struct {
	rt *Runtime
	id int
}

// ID returns this thread's id.
func (th *Thread) ID() int { return th.id }

// Yield voluntarily cedes the CPU: the thread is re-enqueued READY at its
// current priority (PSJF ignores priority entirely) and blocks until the
// scheduler dispatches it again.
func (th *Thread) Yield() {
	rt := th.rt
	rt.mu.Lock()
	t := rt.tcbs[th.id]
	rt.cedeLocked(t, false)
	rt.mu.Unlock()
	<-t.resume
}

// Checkpoint is the safe point a thread body calls periodically so the
// preemption timer can actually take effect — Go offers no supported way
// to interrupt arbitrary running code, so the timer only sets a sticky
// flag and this is where it is consulted and acted on. A Checkpoint call
// is a no-op unless the flag is set; it is cleared only by the Checkpoint
// that consumes it, not on dispatch, so a timer expiry no thread consumed
// makes the next Checkpoint by any thread cede. Unlike a voluntary Yield,
// the thread was still RUNNING when
// the timer fired, so under MLFQ it is demoted one priority level.
func (th *Thread) Checkpoint() {
	if !th.rt.needResched.CompareAndSwap(true, false) {
		return
	}
	rt := th.rt
	rt.mu.Lock()
	t := rt.tcbs[th.id]
	rt.cedeLocked(t, true)
	rt.mu.Unlock()
	<-t.resume
}

// Join blocks until tid has exited, then returns its exit(retval). If tid
// has already exited, Join returns immediately. An unknown tid is a
// caller bug and panics (out-of-range tcb index), matching this
// component's "fatal conditions are the caller's bug" contract.
func (th *Thread) Join(tid int) any {
	rt := th.rt

	rt.mu.Lock()
	target := rt.tcbs[tid]
	if target.status == Exited {
		ret := target.retval
		rt.mu.Unlock()
		return ret
	}

	target.waiterID = th.id
	me := rt.tcbs[th.id]
	me.status = Blocked
	rt.current = -1
	rt.dispatchLocked()
	rt.mu.Unlock()

	<-me.resume // resumed only once finish() has marked target EXITED

	rt.mu.Lock()
	ret := target.retval
	rt.mu.Unlock()
	return ret
}
