// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command allocbench drives a synthetic alloc/free workload against a
// Heap under a chosen fit policy and reports fragmentation statistics.
//
// Usage:
//
//	allocbench [flags]
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/oskit-go/oskit/alloc"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	fs := pflag.NewFlagSet("allocbench", pflag.ExitOnError)
	policyName := fs.String("policy", "first-fit", `fit policy: "first-fit", "next-fit", or "best-fit"`)
	maxSize := fs.Int("max-size", 0, "heap size cap in bytes, 0 means unbounded")
	ops := fs.Int("ops", 2000, "number of randomized allocate/free operations to run")
	minAlloc := fs.Int("min-alloc", 8, "minimum request size in bytes")
	maxAlloc := fs.Int("max-alloc", 4096, "maximum request size in bytes")
	seed := fs.Int64("seed", 1, "PRNG seed, for reproducible workloads")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	var policy alloc.Policy
	switch *policyName {
	case "first-fit":
		policy = alloc.FirstFit
	case "next-fit":
		policy = alloc.NextFit
	case "best-fit":
		policy = alloc.BestFit
	default:
		log.Fatal().Str("policy", *policyName).Msg(`unknown policy, want "first-fit", "next-fit", or "best-fit"`)
	}

	h := alloc.NewHeapWithLimit(policy, *maxSize)
	log.Info().Str("policy", policy.String()).Int("ops", *ops).Msg("heap started")

	rng := rand.New(rand.NewSource(*seed))
	var live []alloc.Ptr
	var failures int
	for i := 0; i < *ops; i++ {
		if len(live) > 0 && rng.Intn(2) == 0 {
			idx := rng.Intn(len(live))
			h.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		size := *minAlloc + rng.Intn(*maxAlloc-*minAlloc+1)
		p, err := h.Allocate(size)
		if err != nil {
			failures++
			continue
		}
		live = append(live, p)
	}

	s := h.Stats()
	fmt.Printf("heap size: %d\n", s.HeapSize)
	fmt.Printf("block count: %d\n", s.BlockCount)
	fmt.Printf("free list length: %d\n", s.FreeListLen)
	fmt.Printf("used bytes: %d\n", s.UsedBytes)
	fmt.Printf("free bytes: %d\n", s.FreeBytes)
	fmt.Printf("allocation failures: %d\n", failures)
}
