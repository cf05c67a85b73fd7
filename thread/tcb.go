// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thread

import "time"

// MainThreadID is the reserved id of the thread that constructs the
// Runtime and calls Create for the first time. It is never freed by the
// runtime.
const MainThreadID = 0

// Status is a TCB's position in the state machine: READY <-> RUNNING (via
// dispatch/preempt); RUNNING -> BLOCKED (lock-fail, join-on-unexited);
// BLOCKED -> READY (unlock, target-exited); RUNNING -> EXITED (exit). No
// other edges exist.
type Status int

const (
	Ready Status = iota
	Running
	Blocked
	Exited
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Blocked:
		return "blocked"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// tcb is a thread control block. Every field is guarded by the owning
// Runtime's mutex except resume, a single-producer-single-consumer
// channel only the scheduling logic sends on and only this thread's
// goroutine receives from.
type tcb struct {
	id     int
	status Status

	priority int // MLFQ queue index this thread last ran from; unused by PSJF
	quantum  int // total quanta consumed so far; PSJF's "job length"

	createTime time.Time
	startTime  time.Time // zero until first dispatch
	endTime    time.Time

	retval any

	waiterID int // id of the thread blocked in Join on this one, or -1

	resume chan struct{} // buffered 1; the run token
}

func newTCB(id int) *tcb {
	return &tcb{id: id, status: Ready, waiterID: -1, resume: make(chan struct{}, 1)}
}
