// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package vm simulates a two-level software page table over a byte slice
// standing in for physical memory. It provides page-granular allocation
// (TMalloc/TFree) and byte-granular access (PutValue/GetValue) through
// virtual addresses, backed by a page directory, per-process page tables,
// and a direct-mapped TLB.
//
// A Translator owns its physical memory and bitmaps outright; there is no
// package-level singleton. All public methods are safe for concurrent use:
// a single coarse mutex serializes every operation, matching the "no
// operation suspends while holding the lock" contract this component is
// specified against.
package vm
