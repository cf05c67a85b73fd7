// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bufpool is a lock-free bounded MPMC object pool, used to reuse
// fixed-size scratch buffers across concurrent workers instead of
// allocating one per iteration.
package bufpool
