// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import (
	"fmt"
	"os"
)

// BlockDevice is a fixed-block-size random-access device: every read or
// write is a whole block, addressed by integer block number.
type BlockDevice interface {
	ReadBlock(blkno uint32) ([]byte, error)
	WriteBlock(blkno uint32, buf []byte) error
	BlockSize() int
	NumBlocks() uint32
}

// MemDevice is an in-memory BlockDevice, used by tests and anywhere a
// disk image isn't actually wanted.
type MemDevice struct {
	blockSize int
	blocks    [][]byte
}

// NewMemDevice constructs a zeroed MemDevice of numBlocks blocks.
func NewMemDevice(numBlocks, blockSize int) *MemDevice {
	d := &MemDevice{blockSize: blockSize, blocks: make([][]byte, numBlocks)}
	for i := range d.blocks {
		d.blocks[i] = make([]byte, blockSize)
	}
	return d
}

func (d *MemDevice) ReadBlock(blkno uint32) ([]byte, error) {
	if int(blkno) >= len(d.blocks) {
		return nil, fmt.Errorf("fs: block %d out of range (%d blocks)", blkno, len(d.blocks))
	}
	out := make([]byte, d.blockSize)
	copy(out, d.blocks[blkno])
	return out, nil
}

func (d *MemDevice) WriteBlock(blkno uint32, buf []byte) error {
	if int(blkno) >= len(d.blocks) {
		return fmt.Errorf("fs: block %d out of range (%d blocks)", blkno, len(d.blocks))
	}
	copy(d.blocks[blkno], buf)
	return nil
}

func (d *MemDevice) BlockSize() int    { return d.blockSize }
func (d *MemDevice) NumBlocks() uint32 { return uint32(len(d.blocks)) }

// FileDevice is a BlockDevice backed by a regular file — one disk image,
// used by cmd/rufs.
type FileDevice struct {
	f         *os.File
	blockSize int
	numBlocks uint32
}

// OpenFileDevice opens (creating if absent) a file-backed device sized
// to exactly numBlocks*blockSize bytes.
func OpenFileDevice(path string, numBlocks, blockSize int) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("fs: open device file: %w", err)
	}
	size := int64(numBlocks) * int64(blockSize)
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("fs: size device file: %w", err)
	}
	return &FileDevice{f: f, blockSize: blockSize, numBlocks: uint32(numBlocks)}, nil
}

func (d *FileDevice) ReadBlock(blkno uint32) ([]byte, error) {
	if blkno >= d.numBlocks {
		return nil, fmt.Errorf("fs: block %d out of range (%d blocks)", blkno, d.numBlocks)
	}
	buf := make([]byte, d.blockSize)
	if _, err := d.f.ReadAt(buf, int64(blkno)*int64(d.blockSize)); err != nil {
		return nil, fmt.Errorf("fs: read block %d: %w", blkno, err)
	}
	return buf, nil
}

func (d *FileDevice) WriteBlock(blkno uint32, buf []byte) error {
	if blkno >= d.numBlocks {
		return fmt.Errorf("fs: block %d out of range (%d blocks)", blkno, d.numBlocks)
	}
	if _, err := d.f.WriteAt(buf[:d.blockSize], int64(blkno)*int64(d.blockSize)); err != nil {
		return fmt.Errorf("fs: write block %d: %w", blkno, err)
	}
	return nil
}

func (d *FileDevice) BlockSize() int    { return d.blockSize }
func (d *FileDevice) NumBlocks() uint32 { return d.numBlocks }

// Close flushes and closes the backing file.
func (d *FileDevice) Close() error {
	if err := d.f.Sync(); err != nil {
		d.f.Close()
		return fmt.Errorf("fs: sync device file: %w", err)
	}
	return d.f.Close()
}
