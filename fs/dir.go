// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fs

// A directory's Size is always a whole multiple of BlockSize — the
// number of blocks ever allocated to it, not the number of live
// entries. Removed entries leave a hole (Valid: false) that addDirEntry
// reuses before growing the directory.

func (f *FileSystem) forEachDirBlock(in *diskInode, fn func(blkno uint32) (stop bool, err error)) error {
	numBlocks := int(in.Size) / BlockSize
	for i := 0; i < numBlocks; i++ {
		blkno, err := f.blockPointer(in, i, false)
		if err != nil {
			return err
		}
		if blkno == 0 {
			continue
		}
		stop, err := fn(blkno)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

func (f *FileSystem) lookupInDir(in *diskInode, name string) (uint32, bool, error) {
	var found uint32
	var ok bool
	err := f.forEachDirBlock(in, func(blkno uint32) (bool, error) {
		buf, err := f.dev.ReadBlock(blkno)
		if err != nil {
			return false, err
		}
		for i := 0; i < dirEntsPerBlock; i++ {
			e := unmarshalDirEntry(buf[i*DirEntrySize : (i+1)*DirEntrySize])
			if e.Valid && e.Name == name {
				found, ok = e.Ino, true
				return true, nil
			}
		}
		return false, nil
	})
	return found, ok, err
}

func (f *FileSystem) listDir(in *diskInode) ([]dirEntry, error) {
	var out []dirEntry
	err := f.forEachDirBlock(in, func(blkno uint32) (bool, error) {
		buf, err := f.dev.ReadBlock(blkno)
		if err != nil {
			return false, err
		}
		for i := 0; i < dirEntsPerBlock; i++ {
			e := unmarshalDirEntry(buf[i*DirEntrySize : (i+1)*DirEntrySize])
			if e.Valid {
				out = append(out, e)
			}
		}
		return false, nil
	})
	return out, err
}

// addDirEntry reuses the first free slot in an already-allocated
// directory block, only growing the directory by a fresh block when
// every existing slot is occupied.
func (f *FileSystem) addDirEntry(ino uint32, in *diskInode, name string, childIno uint32) error {
	if len(name) > MaxNameLen {
		return ErrNameTooLong
	}
	ne := dirEntry{Ino: childIno, Valid: true, Name: name}

	numBlocks := int(in.Size) / BlockSize
	for i := 0; i < numBlocks; i++ {
		blkno, err := f.blockPointer(in, i, false)
		if err != nil {
			return err
		}
		buf, err := f.dev.ReadBlock(blkno)
		if err != nil {
			return err
		}
		for j := 0; j < dirEntsPerBlock; j++ {
			e := unmarshalDirEntry(buf[j*DirEntrySize : (j+1)*DirEntrySize])
			if e.Valid {
				continue
			}
			copy(buf[j*DirEntrySize:(j+1)*DirEntrySize], ne.marshal())
			return f.dev.WriteBlock(blkno, buf)
		}
	}

	blkno, err := f.blockPointer(in, numBlocks, true)
	if err != nil {
		return err
	}
	buf := make([]byte, BlockSize)
	copy(buf[0:DirEntrySize], ne.marshal())
	if err := f.dev.WriteBlock(blkno, buf); err != nil {
		return err
	}
	in.Size += BlockSize
	return f.writeInode(ino, *in)
}

func (f *FileSystem) removeDirEntry(in *diskInode, name string) error {
	found := false
	err := f.forEachDirBlock(in, func(blkno uint32) (bool, error) {
		buf, err := f.dev.ReadBlock(blkno)
		if err != nil {
			return false, err
		}
		for j := 0; j < dirEntsPerBlock; j++ {
			e := unmarshalDirEntry(buf[j*DirEntrySize : (j+1)*DirEntrySize])
			if !e.Valid || e.Name != name {
				continue
			}
			var empty dirEntry
			copy(buf[j*DirEntrySize:(j+1)*DirEntrySize], empty.marshal())
			if err := f.dev.WriteBlock(blkno, buf); err != nil {
				return false, err
			}
			found = true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (f *FileSystem) dirIsEmpty(in *diskInode) (bool, error) {
	entries, err := f.listDir(in)
	return len(entries) == 0, err
}
