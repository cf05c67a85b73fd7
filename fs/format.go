// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import "fmt"

// maxBitmapEntries is the hard cap on inodes (or data blocks) this
// layout can track: the inode and data bitmaps are each exactly one
// block, per the fixed "block 1 inode bitmap, block 2 data bitmap"
// layout.
const maxBitmapEntries = BlockSize * 8

// Config describes the geometry Format lays out on a fresh device.
type Config struct {
	NumInodes int
}

// Format writes a fresh superblock, inode/data bitmaps, inode table, and
// an empty root directory to dev, exactly as laid out on-disk: block 0
// superblock, block 1 inode bitmap, block 2 data bitmap, blocks
// 3..3+InodeBlocks-1 inode table, then data blocks.
func Format(dev BlockDevice, cfg Config) error {
	if dev.BlockSize() != BlockSize {
		return fmt.Errorf("fs: device block size %d, want %d", dev.BlockSize(), BlockSize)
	}
	if cfg.NumInodes < 2 || cfg.NumInodes > maxBitmapEntries {
		return fmt.Errorf("fs: num_inodes must be in [2, %d], got %d", maxBitmapEntries, cfg.NumInodes)
	}

	inodeBlocks := ceilDiv(cfg.NumInodes, inodesPerBlock)
	dataBlockStart := uint32(inodeTableStart + inodeBlocks)
	if dev.NumBlocks() <= dataBlockStart {
		return fmt.Errorf("fs: device too small: %d blocks, need at least %d for metadata alone", dev.NumBlocks(), dataBlockStart+1)
	}
	numDataBlocks := dev.NumBlocks() - dataBlockStart
	if numDataBlocks > maxBitmapEntries {
		return fmt.Errorf("fs: %d data blocks exceeds the single-block data bitmap's capacity of %d", numDataBlocks, maxBitmapEntries)
	}

	sb := superblock{
		Magic:           magic,
		NumInodes:       uint32(cfg.NumInodes),
		NumBlocks:       dev.NumBlocks(),
		InodeTableStart: inodeTableStart,
		InodeBlocks:     uint32(inodeBlocks),
		DataBlockStart:  dataBlockStart,
		RootIno:         RootIno,
	}
	if err := dev.WriteBlock(superblockBlkno, sb.marshal()); err != nil {
		return err
	}

	inodeBitmap := newBitmap(cfg.NumInodes)
	inodeBitmap.set(0) // inode 0 is never allocated
	inodeBitmap.set(RootIno)
	if err := dev.WriteBlock(inodeBitmapBlkno, inodeBitmap.bytes()); err != nil {
		return err
	}

	dataBitmap := newBitmap(int(numDataBlocks))
	if err := dev.WriteBlock(dataBitmapBlkno, dataBitmap.bytes()); err != nil {
		return err
	}

	zeroBlock := make([]byte, BlockSize)
	for i := 0; i < inodeBlocks; i++ {
		if err := dev.WriteBlock(uint32(inodeTableStart+i), zeroBlock); err != nil {
			return err
		}
	}

	root := newInode(ModeDir)
	root.Links = 2 // itself, plus "." from a child's perspective
	if err := writeInodeTo(dev, RootIno, root); err != nil {
		return err
	}

	return nil
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// writeInodeTo writes inode ino's on-disk record directly, without going
// through a mounted FileSystem — used by Format before a superblock
// exists in memory to read back from.
func writeInodeTo(dev BlockDevice, ino uint32, in diskInode) error {
	blkno := uint32(inodeTableStart) + ino/uint32(inodesPerBlock)
	buf, err := dev.ReadBlock(blkno)
	if err != nil {
		return err
	}
	slot := int(ino) % inodesPerBlock
	copy(buf[slot*InodeSize:(slot+1)*InodeSize], in.marshal())
	return dev.WriteBlock(blkno, buf)
}
