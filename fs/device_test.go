// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDevice_ReadWriteRoundTrip(t *testing.T) {
	d := NewMemDevice(4, BlockSize)
	buf := make([]byte, BlockSize)
	buf[0] = 0xFF
	require.NoError(t, d.WriteBlock(2, buf))

	got, err := d.ReadBlock(2)
	require.NoError(t, err)
	require.Equal(t, byte(0xFF), got[0])

	_, err = d.ReadBlock(4)
	require.Error(t, err)
}

func TestFileDevice_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")

	d1, err := OpenFileDevice(path, 4, BlockSize)
	require.NoError(t, err)
	buf := make([]byte, BlockSize)
	buf[10] = 0x42
	require.NoError(t, d1.WriteBlock(1, buf))
	require.NoError(t, d1.Close())

	d2, err := OpenFileDevice(path, 4, BlockSize)
	require.NoError(t, err)
	defer d2.Close()
	got, err := d2.ReadBlock(1)
	require.NoError(t, err)
	require.Equal(t, byte(0x42), got[10])
}

func TestWrite_ErrNoSpaceWhenDataBlocksExhausted(t *testing.T) {
	// inodeTableStart(3) + 1 inode block + a handful of data blocks:
	// just enough for the root dir, not enough for a large write.
	fsys := newFormatted(t, 6, 16)
	require.NoError(t, fsys.Create("/f", 0o644))

	_, err := fsys.Write("/f", make([]byte, BlockSize*10), 0)
	require.ErrorIs(t, err, ErrNoSpace)
}
