// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alloc

import "errors"

// Sentinel errors, comparable with errors.Is, following the sentinel-error
// idiom code.hybscloud.com/iox uses for ErrWouldBlock rather than ad hoc
// string errors.
var (
	// ErrOutOfMemory is returned when extending the heap to satisfy a
	// request would exceed the configured maximum heap size.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrInvalidArgument is returned by Allocate for a size of zero or
	// less. No operation checks whether a Ptr was handed out by this Heap.
	ErrInvalidArgument = errors.New("alloc: invalid argument")
)
