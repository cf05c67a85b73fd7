// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMkdir_CreateReaddirLifecycle(t *testing.T) {
	fsys := newFormatted(t, 128, 64)

	require.NoError(t, fsys.Mkdir("/etc", 0o755))
	require.NoError(t, fsys.Create("/etc/hosts", 0o644))

	entries, err := fsys.Readdir("/etc")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "hosts", entries[0].Name)
	require.False(t, entries[0].IsDir)

	root, err := fsys.Readdir("/")
	require.NoError(t, err)
	require.Len(t, root, 1)
	require.Equal(t, "etc", root[0].Name)
	require.True(t, root[0].IsDir)
}

func TestMkdir_RejectsDuplicateName(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	require.NoError(t, fsys.Mkdir("/a", 0o755))
	require.ErrorIs(t, fsys.Mkdir("/a", 0o755), ErrExists)
	require.ErrorIs(t, fsys.Create("/a", 0o644), ErrExists)
}

func TestResolve_MissingPathComponent(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	_, err := fsys.Getattr("/nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = fsys.Getattr("/nope/also-nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_NonDirectoryInMiddleOfPath(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	require.NoError(t, fsys.Create("/f", 0o644))
	_, err := fsys.Getattr("/f/child")
	require.ErrorIs(t, err, ErrNotDir)
}

func TestWriteRead_RoundTripsWithinOneBlock(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	require.NoError(t, fsys.Create("/f", 0o644))

	payload := []byte("hello, filesystem")
	n, err := fsys.Write("/f", payload, 0)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)

	buf := make([]byte, 64)
	n, err = fsys.Read("/f", buf, 0)
	require.NoError(t, err)
	require.Equal(t, payload, buf[:n])

	a, err := fsys.Getattr("/f")
	require.NoError(t, err)
	require.Equal(t, uint64(len(payload)), a.Size)
}

func TestWriteRead_CrossesIntoSingleIndirectBlocks(t *testing.T) {
	fsys := newFormatted(t, 2048, 64)
	require.NoError(t, fsys.Create("/big", 0o644))

	// NumDirect(16) blocks covers offsets [0, 16*BlockSize). Writing a
	// byte at logical block 20 forces resolution through the
	// single-indirect pointer block.
	off := int64(20 * BlockSize)
	payload := []byte{0xAB}
	_, err := fsys.Write("/big", payload, off)
	require.NoError(t, err)

	a, err := fsys.Getattr("/big")
	require.NoError(t, err)
	require.Equal(t, uint64(off)+1, a.Size)

	buf := make([]byte, 1)
	n, err := fsys.Read("/big", buf, off)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(0xAB), buf[0])

	// A block never written within the file's size reads back as
	// zeros (a hole).
	holeBuf := make([]byte, 1)
	n, err = fsys.Read("/big", holeBuf, int64(5*BlockSize))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(0), holeBuf[0])
}

func TestWriteRead_CrossesIntoDoubleIndirectBlocks(t *testing.T) {
	fsys := newFormatted(t, 6000, 64)
	require.NoError(t, fsys.Create("/huge", 0o644))

	// NumDirect(16) + pointersPerBlock(1024) = 1040 blocks are covered
	// by direct + single-indirect. Block 1040 is the first one that
	// requires the double-indirect tree.
	off := int64(1040 * BlockSize)
	payload := []byte("double-indirect byte")
	_, err := fsys.Write("/huge", payload, off)
	require.NoError(t, err)

	buf := make([]byte, len(payload))
	n, err := fsys.Read("/huge", buf, off)
	require.NoError(t, err)
	require.Equal(t, payload, buf[:n])
}

func TestRead_PastEndOfFileReturnsZero(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	require.NoError(t, fsys.Create("/f", 0o644))
	_, err := fsys.Write("/f", []byte("abc"), 0)
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := fsys.Read("/f", buf, 100)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestRmdir_RejectsNonEmptyDirectory(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	require.NoError(t, fsys.Mkdir("/d", 0o755))
	require.NoError(t, fsys.Create("/d/f", 0o644))
	require.ErrorIs(t, fsys.Rmdir("/d"), ErrNotEmpty)

	require.NoError(t, fsys.Unlink("/d/f"))
	require.NoError(t, fsys.Rmdir("/d"))

	_, err := fsys.Getattr("/d")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRmdir_RejectsNonDirectory(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	require.NoError(t, fsys.Create("/f", 0o644))
	require.ErrorIs(t, fsys.Rmdir("/f"), ErrNotDir)
}

func TestUnlink_RejectsDirectory(t *testing.T) {
	fsys := newFormatted(t, 128, 64)
	require.NoError(t, fsys.Mkdir("/d", 0o755))
	require.ErrorIs(t, fsys.Unlink("/d"), ErrIsDir)
}

func TestUnlink_FreesSpaceForReuse(t *testing.T) {
	// 8 blocks with 16 inodes (one inode-table block) leave 4 data
	// blocks: one for the root directory and exactly three for the file.
	fsys := newFormatted(t, 8, 16)
	require.NoError(t, fsys.Create("/a", 0o644))
	_, err := fsys.Write("/a", make([]byte, BlockSize*3), 0)
	require.NoError(t, err)
	require.NoError(t, fsys.Unlink("/a"))

	// Re-creating and writing the same amount of data must not run out
	// of blocks if Unlink actually freed them.
	require.NoError(t, fsys.Create("/b", 0o644))
	_, err = fsys.Write("/b", make([]byte, BlockSize*3), 0)
	require.NoError(t, err)
}

func TestSplitPath_DoesNotMutateCallerString(t *testing.T) {
	original := "/a/b/c"
	path := original
	_, err := splitPath(path)
	require.NoError(t, err)
	require.Equal(t, original, path)
}

func TestSplitPath_RejectsRelativePath(t *testing.T) {
	_, err := splitPath("a/b")
	require.ErrorIs(t, err, ErrInvalidPath)
}
