// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import (
	"encoding/binary"
	"time"
)

const (
	// BlockSize is fixed for every device this package formats or
	// mounts; it is not a per-filesystem parameter.
	BlockSize = 4096

	magic = 0x52554653 // "RUFS"

	superblockBlkno  = 0
	inodeBitmapBlkno = 1
	dataBitmapBlkno  = 2
	inodeTableStart  = 3

	// RootIno is the inode number of the filesystem root, created by
	// Format. Inode 0 is never allocated — a zero inode number in a
	// directory entry or pointer slot means "absent."
	RootIno = 1

	InodeSize      = 256
	NumDirect      = 16
	NumIndirect    = 8
	indirectSingle = 0
	indirectDouble = 1

	DirEntrySize = 256
	MaxNameLen   = DirEntrySize - 4 - 1 - 1 // ino(4) + valid(1) + len(1)

	inodesPerBlock   = BlockSize / InodeSize
	pointersPerBlock = BlockSize / 4
	dirEntsPerBlock  = BlockSize / DirEntrySize
)

const (
	ModeDir  uint32 = 1 << 31
	ModeFile uint32 = 0
)

// superblock is the on-disk layout of block 0.
type superblock struct {
	Magic           uint32
	NumInodes       uint32
	NumBlocks       uint32
	InodeTableStart uint32
	InodeBlocks     uint32
	DataBlockStart  uint32
	RootIno         uint32
}

func (sb *superblock) marshal() []byte {
	buf := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(buf[0:], sb.Magic)
	binary.LittleEndian.PutUint32(buf[4:], sb.NumInodes)
	binary.LittleEndian.PutUint32(buf[8:], sb.NumBlocks)
	binary.LittleEndian.PutUint32(buf[12:], sb.InodeTableStart)
	binary.LittleEndian.PutUint32(buf[16:], sb.InodeBlocks)
	binary.LittleEndian.PutUint32(buf[20:], sb.DataBlockStart)
	binary.LittleEndian.PutUint32(buf[24:], sb.RootIno)
	return buf
}

func unmarshalSuperblock(buf []byte) (superblock, error) {
	var sb superblock
	sb.Magic = binary.LittleEndian.Uint32(buf[0:])
	if sb.Magic != magic {
		return superblock{}, ErrBadSuperblock
	}
	sb.NumInodes = binary.LittleEndian.Uint32(buf[4:])
	sb.NumBlocks = binary.LittleEndian.Uint32(buf[8:])
	sb.InodeTableStart = binary.LittleEndian.Uint32(buf[12:])
	sb.InodeBlocks = binary.LittleEndian.Uint32(buf[16:])
	sb.DataBlockStart = binary.LittleEndian.Uint32(buf[20:])
	sb.RootIno = binary.LittleEndian.Uint32(buf[24:])
	return sb, nil
}

// diskInode is the on-disk 256-byte inode layout: 16 direct pointers, 8
// indirect-pointer slots (only [0] single and [1] double are ever
// populated), size, link count, mode, and a modification time.
type diskInode struct {
	Valid    bool
	Mode     uint32
	Size     uint64
	Links    uint32
	Mtime    int64
	Direct   [NumDirect]uint32
	Indirect [NumIndirect]uint32
}

func (in *diskInode) isDir() bool { return in.Mode&ModeDir != 0 }

func (in *diskInode) marshal() []byte {
	buf := make([]byte, InodeSize)
	if in.Valid {
		buf[0] = 1
	}
	binary.LittleEndian.PutUint32(buf[4:], in.Mode)
	binary.LittleEndian.PutUint64(buf[8:], in.Size)
	binary.LittleEndian.PutUint32(buf[16:], in.Links)
	binary.LittleEndian.PutUint64(buf[20:], uint64(in.Mtime))
	off := 28
	for i := 0; i < NumDirect; i++ {
		binary.LittleEndian.PutUint32(buf[off+4*i:], in.Direct[i])
	}
	off += 4 * NumDirect
	for i := 0; i < NumIndirect; i++ {
		binary.LittleEndian.PutUint32(buf[off+4*i:], in.Indirect[i])
	}
	return buf
}

func unmarshalInode(buf []byte) diskInode {
	var in diskInode
	in.Valid = buf[0] != 0
	in.Mode = binary.LittleEndian.Uint32(buf[4:])
	in.Size = binary.LittleEndian.Uint64(buf[8:])
	in.Links = binary.LittleEndian.Uint32(buf[16:])
	in.Mtime = int64(binary.LittleEndian.Uint64(buf[20:]))
	off := 28
	for i := 0; i < NumDirect; i++ {
		in.Direct[i] = binary.LittleEndian.Uint32(buf[off+4*i:])
	}
	off += 4 * NumDirect
	for i := 0; i < NumIndirect; i++ {
		in.Indirect[i] = binary.LittleEndian.Uint32(buf[off+4*i:])
	}
	return in
}

func newInode(mode uint32) diskInode {
	return diskInode{Valid: true, Mode: mode, Links: 1, Mtime: time.Now().Unix()}
}

// dirEntry is the on-disk 256-byte directory entry layout.
type dirEntry struct {
	Ino   uint32
	Valid bool
	Name  string
}

func (e *dirEntry) marshal() []byte {
	buf := make([]byte, DirEntrySize)
	binary.LittleEndian.PutUint32(buf[0:], e.Ino)
	if e.Valid {
		buf[4] = 1
	}
	buf[5] = byte(len(e.Name))
	copy(buf[6:], e.Name)
	return buf
}

func unmarshalDirEntry(buf []byte) dirEntry {
	var e dirEntry
	e.Ino = binary.LittleEndian.Uint32(buf[0:])
	e.Valid = buf[4] != 0
	n := int(buf[5])
	if n > MaxNameLen {
		n = MaxNameLen
	}
	e.Name = string(buf[6 : 6+n])
	return e
}

func pointerBlock(buf []byte) []uint32 {
	out := make([]uint32, pointersPerBlock)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return out
}

func marshalPointerBlock(ptrs []uint32) []byte {
	buf := make([]byte, BlockSize)
	for i, p := range ptrs {
		binary.LittleEndian.PutUint32(buf[4*i:], p)
	}
	return buf
}
