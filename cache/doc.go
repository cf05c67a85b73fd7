// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cache implements a set-associative CPU cache simulator,
// single-level or as a two-level inclusive hierarchy, driven by a trace of
// read/write addresses.
//
// A Cache is an explicit instance, not a singleton, following this
// module's package design throughout: construct one with New, feed it
// addresses with Access, and read its counters with Stats. It takes no
// lock of its own — a trace is replayed sequentially by a single
// goroutine, matching the reference driver this simulator was modeled on.
package cache
