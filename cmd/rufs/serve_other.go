// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package main

import (
	"fmt"

	"github.com/oskit-go/oskit/fs"
)

func serve(fsys *fs.FileSystem, mountpoint string, debug bool) error {
	return fmt.Errorf("rufs: FUSE serving is only supported on linux")
}
