// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

import "time"

// Attr is the subset of inode metadata exposed to callers (and, via the
// FUSE adapter, to the kernel).
type Attr struct {
	Ino   uint32
	Size  uint64
	Mode  uint32
	Links uint32
	Mtime int64
	IsDir bool
}

func attrFrom(ino uint32, in diskInode) Attr {
	return Attr{Ino: ino, Size: in.Size, Mode: in.Mode, Links: in.Links, Mtime: in.Mtime, IsDir: in.isDir()}
}

// DirEntryInfo is one Readdir result.
type DirEntryInfo struct {
	Name  string
	Ino   uint32
	IsDir bool
}

// Getattr resolves path and returns its metadata.
func (f *FileSystem) Getattr(path string) (Attr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ino, in, err := f.resolve(path)
	if err != nil {
		return Attr{}, err
	}
	return attrFrom(ino, in), nil
}

// Readdir lists path's immediate children. path must name a directory.
func (f *FileSystem) Readdir(path string) ([]DirEntryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, in, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	if !in.isDir() {
		return nil, ErrNotDir
	}
	entries, err := f.listDir(&in)
	if err != nil {
		return nil, err
	}
	out := make([]DirEntryInfo, 0, len(entries))
	for _, e := range entries {
		child, err := f.readInode(e.Ino)
		if err != nil {
			return nil, err
		}
		out = append(out, DirEntryInfo{Name: e.Name, Ino: e.Ino, IsDir: child.isDir()})
	}
	return out, nil
}

// Mkdir creates an empty directory at path.
func (f *FileSystem) Mkdir(path string, mode uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parentIno, parentIn, name, err := f.resolveParent(path)
	if err != nil {
		return err
	}
	if _, ok, err := f.lookupInDir(&parentIn, name); err != nil {
		return err
	} else if ok {
		return ErrExists
	}

	childIno, err := f.allocInode()
	if err != nil {
		return err
	}
	child := newInode(ModeDir | mode)
	child.Links = 2
	if err := f.writeInode(childIno, child); err != nil {
		return err
	}
	return f.addDirEntry(parentIno, &parentIn, name, childIno)
}

// Rmdir removes an empty directory at path.
func (f *FileSystem) Rmdir(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parentIno, parentIn, name, err := f.resolveParent(path)
	if err != nil {
		return err
	}
	childIno, ok, err := f.lookupInDir(&parentIn, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	child, err := f.readInode(childIno)
	if err != nil {
		return err
	}
	if !child.isDir() {
		return ErrNotDir
	}
	empty, err := f.dirIsEmpty(&child)
	if err != nil {
		return err
	}
	if !empty {
		return ErrNotEmpty
	}

	if err := f.freeInodeBlocks(&child); err != nil {
		return err
	}
	if err := f.freeInode(childIno); err != nil {
		return err
	}
	return f.removeDirEntry(&parentIn, name)
}

// Create makes an empty regular file at path.
func (f *FileSystem) Create(path string, mode uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parentIno, parentIn, name, err := f.resolveParent(path)
	if err != nil {
		return err
	}
	if _, ok, err := f.lookupInDir(&parentIn, name); err != nil {
		return err
	} else if ok {
		return ErrExists
	}

	childIno, err := f.allocInode()
	if err != nil {
		return err
	}
	child := newInode(ModeFile | mode)
	if err := f.writeInode(childIno, child); err != nil {
		return err
	}
	return f.addDirEntry(parentIno, &parentIn, name, childIno)
}

// Open just validates that path names an existing regular file — this
// filesystem has no open file table; every Read/Write re-resolves path.
func (f *FileSystem) Open(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, in, err := f.resolve(path)
	if err != nil {
		return err
	}
	if in.isDir() {
		return ErrIsDir
	}
	return nil
}

// Read fills buf from path's data starting at offset, returning the
// number of bytes actually read (short of len(buf) at end-of-file).
func (f *FileSystem) Read(path string, buf []byte, offset int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, in, err := f.resolve(path)
	if err != nil {
		return 0, err
	}
	if in.isDir() {
		return 0, ErrIsDir
	}
	return f.readFileData(&in, buf, offset)
}

// Write stores buf into path's data starting at offset, extending the
// file (and zero-filling any hole before offset) as needed.
func (f *FileSystem) Write(path string, buf []byte, offset int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ino, in, err := f.resolve(path)
	if err != nil {
		return 0, err
	}
	if in.isDir() {
		return 0, ErrIsDir
	}
	return f.writeFileData(ino, &in, buf, offset)
}

// Unlink removes a regular file at path and releases its blocks.
func (f *FileSystem) Unlink(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	parentIno, parentIn, name, err := f.resolveParent(path)
	if err != nil {
		return err
	}
	childIno, ok, err := f.lookupInDir(&parentIn, name)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	child, err := f.readInode(childIno)
	if err != nil {
		return err
	}
	if child.isDir() {
		return ErrIsDir
	}

	if err := f.freeInodeBlocks(&child); err != nil {
		return err
	}
	if err := f.freeInode(childIno); err != nil {
		return err
	}
	_ = parentIno
	return f.removeDirEntry(&parentIn, name)
}

// ── file data I/O ─────────────────────────────────────────────────────────

func (f *FileSystem) readFileData(in *diskInode, buf []byte, offset int64) (int, error) {
	if offset >= int64(in.Size) {
		return 0, nil
	}
	remaining := int64(in.Size) - offset
	if int64(len(buf)) > remaining {
		buf = buf[:remaining]
	}

	n := 0
	for n < len(buf) {
		blockIdx := int((offset + int64(n)) / BlockSize)
		blockOff := int((offset + int64(n)) % BlockSize)
		chunk := BlockSize - blockOff
		if chunk > len(buf)-n {
			chunk = len(buf) - n
		}

		blkno, err := f.blockPointer(in, blockIdx, false)
		if err != nil {
			return n, err
		}
		if blkno == 0 {
			// A hole within the file's declared size reads as zeros.
			for i := 0; i < chunk; i++ {
				buf[n+i] = 0
			}
		} else {
			blkbuf, err := f.dev.ReadBlock(blkno)
			if err != nil {
				return n, err
			}
			copy(buf[n:n+chunk], blkbuf[blockOff:blockOff+chunk])
		}
		n += chunk
	}
	return n, nil
}

func (f *FileSystem) writeFileData(ino uint32, in *diskInode, buf []byte, offset int64) (int, error) {
	n := 0
	for n < len(buf) {
		blockIdx := int((offset + int64(n)) / BlockSize)
		blockOff := int((offset + int64(n)) % BlockSize)
		chunk := BlockSize - blockOff
		if chunk > len(buf)-n {
			chunk = len(buf) - n
		}

		blkno, err := f.blockPointer(in, blockIdx, true)
		if err != nil {
			return n, err
		}
		blkbuf, err := f.dev.ReadBlock(blkno)
		if err != nil {
			return n, err
		}
		copy(blkbuf[blockOff:blockOff+chunk], buf[n:n+chunk])
		if err := f.dev.WriteBlock(blkno, blkbuf); err != nil {
			return n, err
		}
		n += chunk
	}

	if newSize := uint64(offset + int64(n)); newSize > in.Size {
		in.Size = newSize
	}
	in.Mtime = time.Now().Unix()
	if err := f.writeInode(ino, *in); err != nil {
		return n, err
	}
	return n, nil
}

// freeInodeBlocks releases every data block (and pointer block) owned
// by in, walking direct pointers then the single- and double-indirect
// trees.
func (f *FileSystem) freeInodeBlocks(in *diskInode) error {
	for _, d := range in.Direct {
		if d != 0 {
			if err := f.freeBlock(d); err != nil {
				return err
			}
		}
	}

	if s := in.Indirect[indirectSingle]; s != 0 {
		buf, err := f.dev.ReadBlock(s)
		if err != nil {
			return err
		}
		for _, p := range pointerBlock(buf) {
			if p != 0 {
				if err := f.freeBlock(p); err != nil {
					return err
				}
			}
		}
		if err := f.freeBlock(s); err != nil {
			return err
		}
	}

	if d := in.Indirect[indirectDouble]; d != 0 {
		outerBuf, err := f.dev.ReadBlock(d)
		if err != nil {
			return err
		}
		for _, op := range pointerBlock(outerBuf) {
			if op == 0 {
				continue
			}
			innerBuf, err := f.dev.ReadBlock(op)
			if err != nil {
				return err
			}
			for _, p := range pointerBlock(innerBuf) {
				if p != 0 {
					if err := f.freeBlock(p); err != nil {
						return err
					}
				}
			}
			if err := f.freeBlock(op); err != nil {
				return err
			}
		}
		if err := f.freeBlock(d); err != nil {
			return err
		}
	}

	return nil
}
