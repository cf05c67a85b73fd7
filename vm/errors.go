// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vm

import "errors"

var (
	// ErrOutOfMemory is returned when no free physical frame or virtual
	// page run is available to satisfy an allocation.
	ErrOutOfMemory = errors.New("vm: out of memory")
	// ErrInvalidAddress is returned by TFree, PutValue and GetValue when
	// a covered virtual page is not currently allocated.
	ErrInvalidAddress = errors.New("vm: invalid address")
	// ErrAlreadyMapped is returned by pageMap, and passed on by TMalloc,
	// when the target PTE is already installed.
	ErrAlreadyMapped = errors.New("vm: page already mapped")
	// ErrInvalidArgument is returned for non-positive byte counts.
	ErrInvalidArgument = errors.New("vm: invalid argument")
)
