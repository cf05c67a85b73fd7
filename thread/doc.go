// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package thread implements a user-level preemptive thread runtime with two
// scheduling disciplines — preemptive shortest-job-first (PSJF) and
// multi-level feedback queue with aging (MLFQ) — plus mutexes and join.
//
// Go cannot context-switch out of arbitrary user code the way a POSIX
// interval-timer signal handler can, so this runtime does not attempt to.
// Instead each created thread runs on its own goroutine gated by a
// per-thread run token (a buffered channel): a goroutine blocks on its
// token before running and blocks again the moment it cedes control. The
// scheduling decision — which token to hand out next — is made
// synchronously, under one mutex, by whichever thread is ceding control;
// there is no separate OS thread driving dispatch. This is the "host each
// thread as a real OS thread pinned by an internal mutex, so at most one
// runs" strategy, with the mutex modeled as token ownership instead of a
// literal lock.
//
// Preemption is simulated the same honest way: a periodic timer sets a
// sticky need-resched flag, and the running thread discovers it only when
// it calls Checkpoint at a safe point of its own choosing. Nothing runs on
// the timer goroutine beyond flipping that flag.
package thread
