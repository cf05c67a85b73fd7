// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command cachesim replays a memory-access trace against a simulated
// set-associative cache, single-level or two-level, and reports hit/miss
// and read/write counts.
//
// Usage:
//
//	cachesim <cache_size> assoc:<N> <policy> <block_size> [<L2_size> assoc:<N> <L2_policy>] <trace_file>
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/oskit-go/oskit/cache"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	fs := pflag.NewFlagSet("cachesim", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: cachesim [flags] <cache_size> assoc:<N> <policy> <block_size> [<L2_size> assoc:<N> <L2_policy>] <trace_file>")
		fs.PrintDefaults()
	}
	verbose := fs.BoolP("verbose", "v", false, "log every access at debug level")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	args := fs.Args()
	if len(args) != 5 && len(args) != 8 {
		fs.Usage()
		os.Exit(2)
	}

	l1, rest, err := parseLevel(args)
	if err != nil {
		log.Fatal().Err(err).Msg("parse L1 geometry")
	}

	var l2 *cache.Config
	if len(rest) == 4 {
		// The L2 group has no block size of its own; it shares L1's.
		l2args := []string{rest[0], rest[1], rest[2], strconv.Itoa(l1.BlockSize)}
		cfg, _, err := parseLevel(l2args)
		if err != nil {
			log.Fatal().Err(err).Msg("parse L2 geometry")
		}
		l2 = &cfg
		rest = rest[3:]
	}

	tracePath := rest[0]
	f, err := os.Open(tracePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open trace file")
	}
	defer f.Close()

	entries, err := cache.ReadTrace(f)
	if err != nil {
		log.Fatal().Err(err).Msg("read trace")
	}

	if l2 == nil {
		log.Info().Str("policy", l1.Policy.String()).Int("sets", l1.Size/(l1.Assoc*l1.BlockSize)).Msg("cache simulator started")
		c := cache.New(l1)
		for _, e := range entries {
			c.Access(e.Op, e.Addr)
		}
		printSingleLevel(c.Stats())
		return
	}

	log.Info().Str("l1_policy", l1.Policy.String()).Str("l2_policy", l2.Policy.String()).Msg("cache simulator started")
	tl := cache.NewTwoLevel(l1, *l2)
	for _, e := range entries {
		tl.Access(e.Op, e.Addr)
	}
	printTwoLevel(tl.L1.Stats(), tl.L2.Stats())
}

// parseLevel consumes "<size> assoc:<N> <policy> <block_size>" from the
// front of args and returns the remaining arguments.
func parseLevel(args []string) (cache.Config, []string, error) {
	if len(args) < 4 {
		return cache.Config{}, nil, fmt.Errorf("cachesim: too few arguments for a cache level")
	}
	size, err := strconv.Atoi(args[0])
	if err != nil {
		return cache.Config{}, nil, fmt.Errorf("cachesim: bad cache size %q: %w", args[0], err)
	}
	assocStr, ok := strings.CutPrefix(args[1], "assoc:")
	if !ok {
		return cache.Config{}, nil, fmt.Errorf("cachesim: expected \"assoc:<N>\", got %q", args[1])
	}
	assoc, err := strconv.Atoi(assocStr)
	if err != nil {
		return cache.Config{}, nil, fmt.Errorf("cachesim: bad assoc %q: %w", assocStr, err)
	}
	policy := cache.ParsePolicy(args[2])
	blockSize, err := strconv.Atoi(args[3])
	if err != nil {
		return cache.Config{}, nil, fmt.Errorf("cachesim: bad block size %q: %w", args[3], err)
	}
	return cache.Config{Size: size, Assoc: assoc, BlockSize: blockSize, Policy: policy}, args[4:], nil
}

// printSingleLevel reports memread as the miss count, not the read-op
// count: a single-level cache only touches backing memory on a miss, so
// that is what "had to go to memory" means for this report.
func printSingleLevel(s cache.Stats) {
	fmt.Printf("memread:%d\n", s.Misses)
	fmt.Printf("memwrite:%d\n", s.Writes)
	fmt.Printf("cachehit:%d\n", s.Hits)
	fmt.Printf("cachemiss:%d\n", s.Misses)
}

// printTwoLevel reports memread as L2's miss count: backing memory is
// only touched once both levels have missed, since every L1 miss
// consults L2 before falling through.
func printTwoLevel(l1, l2 cache.Stats) {
	fmt.Printf("memread:%d\n", l2.Misses)
	fmt.Printf("memwrite:%d\n", l1.Writes)
	fmt.Printf("l1cachehit:%d\n", l1.Hits)
	fmt.Printf("l1cachemiss:%d\n", l1.Misses)
	fmt.Printf("l2cachehit:%d\n", l2.Hits)
	fmt.Printf("l2cachemiss:%d\n", l2.Misses)
}
