// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thread

import (
	"fmt"
	"io"
	"time"
)

// Stats is a snapshot of runtime-wide scheduling counters.
type Stats struct {
	TotalContextSwitches uint64
	ExitedThreads        int
	AvgTurnaround        time.Duration
	AvgResponse          time.Duration
}

// Stats returns a snapshot of the current counters.
func (rt *Runtime) Stats() Stats {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	s := Stats{
		TotalContextSwitches: rt.totalSwitches,
		ExitedThreads:        rt.exitedNonMain,
	}
	if rt.exitedNonMain > 0 {
		s.AvgTurnaround = rt.turnaroundSum / time.Duration(rt.exitedNonMain)
		s.AvgResponse = rt.responseSum / time.Duration(rt.exitedNonMain)
	}
	return s
}

// PrintStats writes the end-of-run summary to w, one metric per line.
func (rt *Runtime) PrintStats(w io.Writer) {
	s := rt.Stats()
	fmt.Fprintf(w, "total context switches: %d\n", s.TotalContextSwitches)
	fmt.Fprintf(w, "average turnaround (ms): %.3f\n", float64(s.AvgTurnaround)/float64(time.Millisecond))
	fmt.Fprintf(w, "average response time (ms): %.3f\n", float64(s.AvgResponse)/float64(time.Millisecond))
}

// PriorityOf returns tid's current MLFQ priority level, for test
// observability. Unused by PSJF.
func (rt *Runtime) PriorityOf(tid int) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tcbs[tid].priority
}

// QuantumOf returns the total quanta tid has consumed so far, for test
// observability.
func (rt *Runtime) QuantumOf(tid int) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tcbs[tid].quantum
}

// StatusOf returns tid's current status, for test observability.
func (rt *Runtime) StatusOf(tid int) Status {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tcbs[tid].status
}
