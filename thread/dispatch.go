// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thread

import "time"

// dispatchLocked picks the next runnable thread per policy and hands it
// the run token. Callers must hold rt.mu and must have already set
// rt.current = -1 (no thread RUNNING). If nothing is runnable, it leaves
// rt.current at -1 — the runtime goes idle until some other event
// (a join target exiting, a mutex unlock) enqueues someone.
func (rt *Runtime) dispatchLocked() {
	var next *tcb
	switch rt.policy {
	case PSJF:
		next = rt.popPSJFLocked()
	case MLFQ:
		next = rt.popMLFQLocked()
	}
	if next == nil {
		return
	}

	next.status = Running
	rt.current = next.id
	rt.totalSwitches++
	if next.startTime.IsZero() {
		next.startTime = time.Now()
	}
	rt.armTimerLocked()
	rt.logger.Debug().Int("tid", next.id).Uint64("switch", rt.totalSwitches).Msg("dispatch")
	next.resume <- struct{}{}
}

// popPSJFLocked removes and returns the queue-0 entry with the smallest
// quantum count, the first such entry encountered breaking ties by
// insertion order.
func (rt *Runtime) popPSJFLocked() *tcb {
	q := rt.runqueues[0]
	if len(q) == 0 {
		return nil
	}
	best := 0
	for i, t := range q {
		if t.quantum < q[best].quantum {
			best = i
		}
	}
	picked := q[best]
	rt.runqueues[0] = append(q[:best], q[best+1:]...)
	return picked
}

// popMLFQLocked removes and returns the head of the highest non-empty
// priority queue.
func (rt *Runtime) popMLFQLocked() *tcb {
	for p := 0; p < rt.totalQueues; p++ {
		q := rt.runqueues[p]
		if len(q) > 0 {
			rt.runqueues[p] = q[1:]
			return q[0]
		}
	}
	return nil
}

// cedeLocked re-enqueues a thread that is giving up the run token and
// immediately dispatches its replacement, marking t READY either way.
// preempted distinguishes a timer-forced reclaim at a Checkpoint from a
// voluntary Yield: under
// MLFQ only the preempted case is demoted one priority level; a
// voluntary yield requeues at the thread's current priority. Callers
// must hold rt.mu.
func (rt *Runtime) cedeLocked(t *tcb, preempted bool) {
	t.quantum++
	rt.globalTicks++

	target := t.priority
	if rt.policy == MLFQ && preempted {
		target = min(t.priority+1, rt.totalQueues-1)
	}
	t.priority = target
	t.status = Ready
	rt.runqueues[target] = append(rt.runqueues[target], t)

	if rt.policy == MLFQ && rt.agingQuanta > 0 && rt.globalTicks%uint64(rt.agingQuanta) == 0 {
		rt.ageLocked()
	}

	rt.current = -1
	rt.dispatchLocked()
}

// ageLocked flushes every non-zero priority queue back into queue 0,
// resetting each moved thread's priority.
func (rt *Runtime) ageLocked() {
	for p := 1; p < rt.totalQueues; p++ {
		for _, t := range rt.runqueues[p] {
			t.priority = 0
			rt.runqueues[0] = append(rt.runqueues[0], t)
		}
		rt.runqueues[p] = nil
	}
}

func (rt *Runtime) armTimerLocked() {
	if rt.timer != nil {
		rt.timer.Stop()
	}
	needResched := &rt.needResched
	rt.timer = time.AfterFunc(rt.timeQuantum, func() { needResched.Store(true) })
}
