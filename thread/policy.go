// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package thread

// Policy selects the scheduling discipline a Runtime dispatches under.
type Policy int

const (
	// PSJF is preemptive shortest-job-first: all runnable threads sit in
	// a single queue; the dispatcher always picks the one with the
	// fewest total quanta consumed so far, ties broken by insertion
	// order.
	PSJF Policy = iota
	// MLFQ is a multi-level feedback queue: a thread the timer preempts
	// while RUNNING is demoted one priority level (capped); a thread that
	// voluntarily yields keeps its current priority. Every AgingQuanta
	// global ticks every non-zero queue is flushed back to priority 0.
	MLFQ
)

func (p Policy) String() string {
	switch p {
	case PSJF:
		return "psjf"
	case MLFQ:
		return "mlfq"
	default:
		return "unknown"
	}
}
