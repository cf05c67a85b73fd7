// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package fs

import (
	"context"
	"path"
	"syscall"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	gofs "github.com/hanwen/go-fuse/v2/fs"
)

// node adapts one path of a mounted FileSystem onto go-fuse's node API.
// It carries no cached state beyond the path itself — every operation
// re-resolves through FileSystem, which holds the one coarse lock this
// component's contract calls for. That makes node trivially safe to
// hand out more than one of for the same path; there is nothing to keep
// in sync.
type node struct {
	gofs.Inode
	fsys *FileSystem
	path string
}

var (
	_ gofs.NodeGetattrer = (*node)(nil)
	_ gofs.NodeLookuper  = (*node)(nil)
	_ gofs.NodeReaddirer = (*node)(nil)
	_ gofs.NodeMkdirer   = (*node)(nil)
	_ gofs.NodeRmdirer   = (*node)(nil)
	_ gofs.NodeCreater   = (*node)(nil)
	_ gofs.NodeUnlinker  = (*node)(nil)
	_ gofs.NodeOpener    = (*node)(nil)
	_ gofs.NodeReader    = (*node)(nil)
	_ gofs.NodeWriter    = (*node)(nil)
)

func errnoFor(err error) syscall.Errno {
	switch err {
	case nil:
		return 0
	case ErrNotFound:
		return syscall.ENOENT
	case ErrExists:
		return syscall.EEXIST
	case ErrNotDir:
		return syscall.ENOTDIR
	case ErrIsDir:
		return syscall.EISDIR
	case ErrNotEmpty:
		return syscall.ENOTEMPTY
	case ErrNoSpace:
		return syscall.ENOSPC
	case ErrInvalidPath, ErrNameTooLong:
		return syscall.EINVAL
	default:
		return syscall.EIO
	}
}

func fillAttr(out *gofuse.Attr, a Attr) {
	out.Ino = uint64(a.Ino)
	out.Size = a.Size
	out.Mode = a.Mode &^ (1 << 31) // the on-disk dir bit isn't a POSIX mode bit
	if a.IsDir {
		out.Mode |= syscall.S_IFDIR | 0o755
	} else {
		out.Mode |= syscall.S_IFREG | 0o644
	}
	out.Nlink = a.Links
	out.Mtime = uint64(a.Mtime)
	out.SetTimes(nil, timePtr(a.Mtime), nil)
}

func timePtr(unix int64) *time.Time {
	t := time.Unix(unix, 0)
	return &t
}

func (n *node) child(name string) *node {
	return &node{fsys: n.fsys, path: path.Join(n.path, name)}
}

func (n *node) Getattr(ctx context.Context, f gofs.FileHandle, out *gofuse.AttrOut) syscall.Errno {
	a, err := n.fsys.Getattr(n.path)
	if err != nil {
		return errnoFor(err)
	}
	fillAttr(&out.Attr, a)
	return 0
}

func (n *node) Lookup(ctx context.Context, name string, out *gofuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	c := n.child(name)
	a, err := n.fsys.Getattr(c.path)
	if err != nil {
		return nil, errnoFor(err)
	}
	fillAttr(&out.Attr, a)
	mode := uint32(syscall.S_IFREG)
	if a.IsDir {
		mode = syscall.S_IFDIR
	}
	child := n.NewInode(ctx, c, gofs.StableAttr{Mode: mode, Ino: uint64(a.Ino)})
	return child, 0
}

func (n *node) Readdir(ctx context.Context) (gofs.DirStream, syscall.Errno) {
	entries, err := n.fsys.Readdir(n.path)
	if err != nil {
		return nil, errnoFor(err)
	}
	out := make([]gofuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		mode := uint32(syscall.S_IFREG)
		if e.IsDir {
			mode = syscall.S_IFDIR
		}
		out = append(out, gofuse.DirEntry{Name: e.Name, Ino: uint64(e.Ino), Mode: mode})
	}
	return gofs.NewListDirStream(out), 0
}

func (n *node) Mkdir(ctx context.Context, name string, mode uint32, out *gofuse.EntryOut) (*gofs.Inode, syscall.Errno) {
	c := n.child(name)
	if err := n.fsys.Mkdir(c.path, mode); err != nil {
		return nil, errnoFor(err)
	}
	a, err := n.fsys.Getattr(c.path)
	if err != nil {
		return nil, errnoFor(err)
	}
	fillAttr(&out.Attr, a)
	child := n.NewInode(ctx, c, gofs.StableAttr{Mode: syscall.S_IFDIR, Ino: uint64(a.Ino)})
	return child, 0
}

func (n *node) Rmdir(ctx context.Context, name string) syscall.Errno {
	return errnoFor(n.fsys.Rmdir(n.child(name).path))
}

func (n *node) Create(ctx context.Context, name string, flags, mode uint32, out *gofuse.EntryOut) (*gofs.Inode, gofs.FileHandle, uint32, syscall.Errno) {
	c := n.child(name)
	if err := n.fsys.Create(c.path, mode); err != nil {
		return nil, nil, 0, errnoFor(err)
	}
	a, err := n.fsys.Getattr(c.path)
	if err != nil {
		return nil, nil, 0, errnoFor(err)
	}
	fillAttr(&out.Attr, a)
	child := n.NewInode(ctx, c, gofs.StableAttr{Mode: syscall.S_IFREG, Ino: uint64(a.Ino)})
	return child, nil, 0, 0
}

func (n *node) Unlink(ctx context.Context, name string) syscall.Errno {
	return errnoFor(n.fsys.Unlink(n.child(name).path))
}

func (n *node) Open(ctx context.Context, flags uint32) (gofs.FileHandle, uint32, syscall.Errno) {
	if err := n.fsys.Open(n.path); err != nil {
		return nil, 0, errnoFor(err)
	}
	return nil, 0, 0
}

func (n *node) Read(ctx context.Context, f gofs.FileHandle, dest []byte, off int64) (gofuse.ReadResult, syscall.Errno) {
	nr, err := n.fsys.Read(n.path, dest, off)
	if err != nil {
		return nil, errnoFor(err)
	}
	return gofuse.ReadResultData(dest[:nr]), 0
}

func (n *node) Write(ctx context.Context, f gofs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	nw, err := n.fsys.Write(n.path, data, off)
	if err != nil {
		return uint32(nw), errnoFor(err)
	}
	return uint32(nw), 0
}

// Serve mounts fsys at mountpoint and blocks until the filesystem is
// unmounted (Ctrl-C or `fusermount -u`).
func Serve(fsys *FileSystem, mountpoint string, debug bool) error {
	root := &node{fsys: fsys, path: "/"}
	server, err := gofs.Mount(mountpoint, root, &gofs.Options{
		MountOptions: gofuse.MountOptions{Debug: debug},
	})
	if err != nil {
		return err
	}
	server.Wait()
	return nil
}
