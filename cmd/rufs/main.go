// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command rufs formats and serves the fs package's inode-based
// filesystem over a file-backed block device.
//
// Usage:
//
//	rufs format [flags] <image_path>
//	rufs serve [flags] <image_path> <mountpoint>
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/oskit-go/oskit/fs"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "format":
		runFormat(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rufs format [flags] <image_path>")
	fmt.Fprintln(os.Stderr, "       rufs serve [flags] <image_path> <mountpoint>")
}

func runFormat(argv []string) {
	fset := pflag.NewFlagSet("rufs format", pflag.ExitOnError)
	numInodes := fset.Int("num-inodes", 1024, "number of inodes to reserve")
	numBlocks := fset.Int("num-blocks", 32768, "total device size in blocks")
	if err := fset.Parse(argv); err != nil {
		os.Exit(2)
	}
	if fset.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	imagePath := fset.Arg(0)

	dev, err := fs.OpenFileDevice(imagePath, *numBlocks, fs.BlockSize)
	if err != nil {
		log.Fatal().Err(err).Msg("open device file")
	}
	defer dev.Close()

	log.Info().Str("image", imagePath).Int("num_inodes", *numInodes).Int("num_blocks", *numBlocks).Msg("formatting filesystem")
	if err := fs.Format(dev, fs.Config{NumInodes: *numInodes}); err != nil {
		log.Fatal().Err(err).Msg("format")
	}
}

func runServe(argv []string) {
	fset := pflag.NewFlagSet("rufs serve", pflag.ExitOnError)
	numBlocks := fset.Int("num-blocks", 32768, "device size in blocks, must match the value passed to format")
	debug := fset.BoolP("debug", "d", false, "log every FUSE request")
	if err := fset.Parse(argv); err != nil {
		os.Exit(2)
	}
	if fset.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	imagePath, mountpoint := fset.Arg(0), fset.Arg(1)

	dev, err := fs.OpenFileDevice(imagePath, *numBlocks, fs.BlockSize)
	if err != nil {
		log.Fatal().Err(err).Msg("open device file")
	}
	defer dev.Close()

	fsys, err := fs.Mount(dev)
	if err != nil {
		log.Fatal().Err(err).Msg("mount")
	}

	log.Info().Str("image", imagePath).Str("mountpoint", mountpoint).Msg("serving filesystem")
	if err := serve(fsys, mountpoint, *debug); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
