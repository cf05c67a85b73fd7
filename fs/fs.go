// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import (
	"fmt"
	"strings"
	"sync"
)

// FileSystem is a mounted handle onto a BlockDevice formatted by Format.
// Every exported method takes fs.mu — a single coarse lock, not one per
// inode — matching this component's "all operations acquire one coarse
// lock" contract.
type FileSystem struct {
	mu sync.Mutex

	dev         BlockDevice
	sb          superblock
	inodeBitmap *bitmap
	dataBitmap  *bitmap
}

// Mount reads dev's superblock and bitmaps and returns a handle ready
// for Getattr/Readdir/.../Unlink calls.
func Mount(dev BlockDevice) (*FileSystem, error) {
	if dev.BlockSize() != BlockSize {
		return nil, fmt.Errorf("fs: device block size %d, want %d", dev.BlockSize(), BlockSize)
	}
	sbBuf, err := dev.ReadBlock(superblockBlkno)
	if err != nil {
		return nil, err
	}
	sb, err := unmarshalSuperblock(sbBuf)
	if err != nil {
		return nil, err
	}
	ibBuf, err := dev.ReadBlock(inodeBitmapBlkno)
	if err != nil {
		return nil, err
	}
	dbBuf, err := dev.ReadBlock(dataBitmapBlkno)
	if err != nil {
		return nil, err
	}
	numDataBlocks := int(sb.NumBlocks - sb.DataBlockStart)
	return &FileSystem{
		dev:         dev,
		sb:          sb,
		inodeBitmap: wrapBitmap(ibBuf, int(sb.NumInodes)),
		dataBitmap:  wrapBitmap(dbBuf, numDataBlocks),
	}, nil
}

// ── inode table I/O ─────────────────────────────────────────────────────

func (f *FileSystem) readInode(ino uint32) (diskInode, error) {
	blkno := f.sb.InodeTableStart + ino/uint32(inodesPerBlock)
	buf, err := f.dev.ReadBlock(blkno)
	if err != nil {
		return diskInode{}, err
	}
	slot := int(ino) % inodesPerBlock
	return unmarshalInode(buf[slot*InodeSize : (slot+1)*InodeSize]), nil
}

func (f *FileSystem) writeInode(ino uint32, in diskInode) error {
	blkno := f.sb.InodeTableStart + ino/uint32(inodesPerBlock)
	buf, err := f.dev.ReadBlock(blkno)
	if err != nil {
		return err
	}
	slot := int(ino) % inodesPerBlock
	copy(buf[slot*InodeSize:(slot+1)*InodeSize], in.marshal())
	return f.dev.WriteBlock(blkno, buf)
}

// ── bitmap-backed allocation ─────────────────────────────────────────────

func (f *FileSystem) allocInode() (uint32, error) {
	i, ok := f.inodeBitmap.findFirstClear()
	if !ok {
		return 0, ErrNoSpace
	}
	f.inodeBitmap.set(i)
	if err := f.dev.WriteBlock(inodeBitmapBlkno, f.inodeBitmap.bytes()); err != nil {
		return 0, err
	}
	return uint32(i), nil
}

func (f *FileSystem) freeInode(ino uint32) error {
	f.inodeBitmap.clear(int(ino))
	return f.dev.WriteBlock(inodeBitmapBlkno, f.inodeBitmap.bytes())
}

// allocBlock returns a fresh, zeroed data block's absolute block number.
func (f *FileSystem) allocBlock() (uint32, error) {
	i, ok := f.dataBitmap.findFirstClear()
	if !ok {
		return 0, ErrNoSpace
	}
	f.dataBitmap.set(i)
	if err := f.dev.WriteBlock(dataBitmapBlkno, f.dataBitmap.bytes()); err != nil {
		return 0, err
	}
	blkno := f.sb.DataBlockStart + uint32(i)
	if err := f.dev.WriteBlock(blkno, make([]byte, BlockSize)); err != nil {
		return 0, err
	}
	return blkno, nil
}

func (f *FileSystem) freeBlock(blkno uint32) error {
	idx := int(blkno - f.sb.DataBlockStart)
	f.dataBitmap.clear(idx)
	return f.dev.WriteBlock(dataBitmapBlkno, f.dataBitmap.bytes())
}

// ── direct / single-indirect / double-indirect pointer resolution ───────

// ensureBlock returns *slot, allocating a fresh block into it first if
// it is empty and alloc is requested. Returns 0 with no error if the
// slot is empty and alloc is false (a "hole").
func (f *FileSystem) ensureBlock(slot *uint32, alloc bool) (uint32, error) {
	if *slot != 0 {
		return *slot, nil
	}
	if !alloc {
		return 0, nil
	}
	nb, err := f.allocBlock()
	if err != nil {
		return 0, err
	}
	*slot = nb
	return nb, nil
}

// ptrAt returns the idx'th pointer stored in pointer-block blkno,
// allocating a fresh target block for that slot if it is empty and
// alloc is requested.
func (f *FileSystem) ptrAt(blkno uint32, idx int, alloc bool) (uint32, error) {
	buf, err := f.dev.ReadBlock(blkno)
	if err != nil {
		return 0, err
	}
	ptrs := pointerBlock(buf)
	if ptrs[idx] != 0 {
		return ptrs[idx], nil
	}
	if !alloc {
		return 0, nil
	}
	nb, err := f.allocBlock()
	if err != nil {
		return 0, err
	}
	ptrs[idx] = nb
	if err := f.dev.WriteBlock(blkno, marshalPointerBlock(ptrs)); err != nil {
		return 0, err
	}
	return nb, nil
}

// blockPointer resolves the idx'th logical block of in's data (0-based),
// through direct pointers, then the single-indirect slot, then the
// double-indirect slot — the only two indirect slots this layout ever
// populates.
func (f *FileSystem) blockPointer(in *diskInode, idx int, alloc bool) (uint32, error) {
	if idx < NumDirect {
		return f.ensureBlock(&in.Direct[idx], alloc)
	}
	idx -= NumDirect

	if idx < pointersPerBlock {
		blkno, err := f.ensureBlock(&in.Indirect[indirectSingle], alloc)
		if err != nil || blkno == 0 {
			return 0, err
		}
		return f.ptrAt(blkno, idx, alloc)
	}
	idx -= pointersPerBlock

	if idx < pointersPerBlock*pointersPerBlock {
		outerIdx, innerIdx := idx/pointersPerBlock, idx%pointersPerBlock
		outerBlkno, err := f.ensureBlock(&in.Indirect[indirectDouble], alloc)
		if err != nil || outerBlkno == 0 {
			return 0, err
		}
		innerBlkno, err := f.ptrAt(outerBlkno, outerIdx, alloc)
		if err != nil || innerBlkno == 0 {
			return 0, err
		}
		return f.ptrAt(innerBlkno, innerIdx, alloc)
	}

	return 0, fmt.Errorf("fs: offset exceeds maximum file size (direct+single+double indirect)")
}

// ── path resolution ──────────────────────────────────────────────────────

// splitPath copies path before tokenizing it, so resolution never
// mutates caller-owned memory — the one specific repair this component
// makes over the reference tokenizer-on-caller-buffer approach.
func splitPath(path string) ([]string, error) {
	cp := strings.Clone(path)
	if !strings.HasPrefix(cp, "/") {
		return nil, ErrInvalidPath
	}
	var parts []string
	for _, p := range strings.Split(cp, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts, nil
}

// resolve walks path from the root, returning the inode number and
// record of the final component. "/" resolves to the root; a path that
// does not start with "/", including the empty path, is ErrInvalidPath.
func (f *FileSystem) resolve(path string) (uint32, diskInode, error) {
	parts, err := splitPath(path)
	if err != nil {
		return 0, diskInode{}, err
	}

	ino := uint32(f.sb.RootIno)
	in, err := f.readInode(ino)
	if err != nil {
		return 0, diskInode{}, err
	}

	for _, name := range parts {
		if !in.isDir() {
			return 0, diskInode{}, ErrNotDir
		}
		childIno, ok, err := f.lookupInDir(&in, name)
		if err != nil {
			return 0, diskInode{}, err
		}
		if !ok {
			return 0, diskInode{}, ErrNotFound
		}
		ino = childIno
		in, err = f.readInode(ino)
		if err != nil {
			return 0, diskInode{}, err
		}
	}
	return ino, in, nil
}

// resolveParent resolves path's parent directory and returns it along
// with the final path component's name.
func (f *FileSystem) resolveParent(path string) (uint32, diskInode, string, error) {
	parts, err := splitPath(path)
	if err != nil {
		return 0, diskInode{}, "", err
	}
	if len(parts) == 0 {
		return 0, diskInode{}, "", ErrInvalidPath
	}
	name := parts[len(parts)-1]
	parentPath := "/" + strings.Join(parts[:len(parts)-1], "/")
	ino, in, err := f.resolve(parentPath)
	if err != nil {
		return 0, diskInode{}, "", err
	}
	if !in.isDir() {
		return 0, diskInode{}, "", ErrNotDir
	}
	return ino, in, name, nil
}
