// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import "errors"

var (
	ErrNotFound      = errors.New("fs: no such file or directory")
	ErrExists        = errors.New("fs: file exists")
	ErrNotDir        = errors.New("fs: not a directory")
	ErrIsDir         = errors.New("fs: is a directory")
	ErrNotEmpty      = errors.New("fs: directory not empty")
	ErrNoSpace       = errors.New("fs: no space left on device")
	ErrInvalidPath   = errors.New("fs: invalid path")
	ErrNameTooLong   = errors.New("fs: name too long")
	ErrBadSuperblock = errors.New("fs: bad superblock")
)
