// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fs implements a small inode-based file system over a
// block-addressed device: a superblock, inode and data bitmaps, a fixed
// inode table, and data blocks reached through direct and (single,
// double) indirect pointers. Every FileSystem operation takes the
// filesystem's one coarse mutex — there is no per-inode locking.
package fs
