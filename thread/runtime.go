// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thread

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTotalQueues = 4
	defaultAgingQuanta = 5
	defaultTimeQuantum = 10 * time.Millisecond
)

// Runtime is a user-level preemptive thread scheduler. Construct one with
// New; it initializes its own state lazily on the first Main or Create call, the
// same moment the original wraps the calling goroutine as the main thread.
//
// Runtime is not a singleton: every instance is independent, per spec's
// "package each core as an explicit instance" design note.
type Runtime struct {
	mu sync.Mutex

	policy      Policy
	totalQueues int
	agingQuanta int
	timeQuantum time.Duration
	logger      zerolog.Logger

	started   bool
	tcbs      []*tcb
	runqueues [][]*tcb
	current   int // id of the RUNNING tcb, or -1 if none

	totalSwitches uint64
	globalTicks   uint64
	needResched   atomic.Bool
	timer         *time.Timer

	exitedNonMain int
	turnaroundSum time.Duration
	responseSum   time.Duration
}

// Option configures a Runtime at construction time.
type Option func(*Runtime)

// WithTotalQueues sets the number of MLFQ priority levels (ignored by
// PSJF, which only ever uses level 0). Default 4.
func WithTotalQueues(n int) Option {
	return func(rt *Runtime) { rt.totalQueues = n }
}

// WithAgingQuanta sets how many global ticks elapse between MLFQ
// promotion sweeps. Default 5.
func WithAgingQuanta(n int) Option {
	return func(rt *Runtime) { rt.agingQuanta = n }
}

// WithTimeQuantum sets the simulated preemption timer period. Default
// 10ms.
func WithTimeQuantum(d time.Duration) Option {
	return func(rt *Runtime) { rt.timeQuantum = d }
}

// WithLogger attaches a zerolog.Logger for per-dispatch debug logging.
// The default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// New constructs a Runtime under the given scheduling policy.
func New(policy Policy, opts ...Option) *Runtime {
	rt := &Runtime{
		policy:      policy,
		totalQueues: defaultTotalQueues,
		agingQuanta: defaultAgingQuanta,
		timeQuantum: defaultTimeQuantum,
		logger:      zerolog.Nop(),
		current:     -1,
	}
	for _, o := range opts {
		o(rt)
	}
	if rt.totalQueues < 1 {
		rt.totalQueues = 1
	}
	return rt
}

// ensureStartedLocked performs the one-time setup the original defers to
// the first create() call: allocate the runqueues, wrap the caller as the
// main TCB (reserved id, status RUNNING), and start the preemption timer.
// Callers must hold rt.mu.
func (rt *Runtime) ensureStartedLocked() {
	if rt.started {
		return
	}
	rt.runqueues = make([][]*tcb, rt.totalQueues)
	now := time.Now()
	main := newTCB(MainThreadID)
	main.status = Running
	main.createTime = now
	main.startTime = now
	rt.tcbs = append(rt.tcbs, main)
	rt.current = MainThreadID
	rt.armTimerLocked()
	rt.started = true
	rt.logger.Debug().Str("policy", rt.policy.String()).Msg("runtime started")
}

// Main returns the handle for the calling goroutine's thread, initializing
// the runtime if this is the first call made against it.
func (rt *Runtime) Main() *Thread {
	rt.mu.Lock()
	rt.ensureStartedLocked()
	rt.mu.Unlock()
	return &Thread{rt: rt, id: MainThreadID}
}

// Create allocates a new thread running fn(self, arg) on its own goroutine,
// enqueues it READY at priority 0, and returns its id. fn's return value is
// the thread's exit(retval).
func (rt *Runtime) Create(fn func(self *Thread, arg any) any, arg any) int {
	rt.mu.Lock()
	rt.ensureStartedLocked()

	id := len(rt.tcbs)
	t := newTCB(id)
	t.createTime = time.Now()
	rt.tcbs = append(rt.tcbs, t)
	rt.runqueues[0] = append(rt.runqueues[0], t)
	rt.mu.Unlock()

	go rt.runBody(t, fn, arg)
	return id
}

func (rt *Runtime) runBody(t *tcb, fn func(self *Thread, arg any) any, arg any) {
	<-t.resume
	ret := fn(&Thread{rt: rt, id: t.id}, arg)
	rt.finish(t, ret)
}

// finish records a thread's exit, wakes its joiner if one is registered,
// and dispatches the next runnable thread — exactly one of the state
// transitions that may leave the CPU idle-of-current, always repaired by
// a dispatch before returning.
func (rt *Runtime) finish(t *tcb, ret any) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	t.retval = ret
	t.endTime = time.Now()
	t.status = Exited

	rt.exitedNonMain++
	rt.turnaroundSum += t.endTime.Sub(t.createTime)
	rt.responseSum += t.startTime.Sub(t.createTime)

	if waiter := t.waiterID; waiter >= 0 {
		t.waiterID = -1
		w := rt.tcbs[waiter]
		w.status = Ready
		w.priority = 0
		rt.runqueues[0] = append(rt.runqueues[0], w)
	}

	rt.current = -1
	rt.dispatchLocked()
}
