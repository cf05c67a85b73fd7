// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command vmbench drives concurrent TMalloc/MatMult/TFree workloads
// against a single Translator and reports TLB miss-rate statistics.
//
// Usage:
//
//	vmbench [flags]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/oskit-go/oskit/internal/bufpool"
	"github.com/oskit-go/oskit/vm"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	fs := pflag.NewFlagSet("vmbench", pflag.ExitOnError)
	configPath := fs.String("config", "", "TOML file overriding the default translator sizing")
	matrixN := fs.IntP("n", "n", 8, "matrix dimension for each worker's multiply")
	workers := fs.Int("workers", 4, "number of concurrent matrix-multiply workers")
	iters := fs.Int("iters", 50, "number of TMalloc/MatMult/TFree cycles each worker runs")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg := vm.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = vm.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}

	t := vm.New(cfg)
	log.Info().Int("page_size", cfg.PageSize).Int("physical_pages", cfg.PhysicalPages).
		Int("workers", *workers).Int("iters", *iters).Msg("translator started")

	size := *matrixN * *matrixN * 4
	scratch := bufpool.NewBoundedPool[[]byte](*workers)
	scratch.Fill(func() []byte { return make([]byte, size) })

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < *workers; i++ {
		g.Go(func() error {
			for j := 0; j < *iters; j++ {
				if err := runIteration(t, scratch, *matrixN); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}

	s := t.Stats()
	fmt.Printf("tlb lookups: %d\n", s.Lookups)
	fmt.Printf("tlb misses: %d\n", s.Misses)
	fmt.Printf("tlb miss rate: %.4f\n", s.MissRate)
}

// runIteration checks out a scratch buffer from the pool, fills it with a
// deterministic pattern, and runs one TMalloc/PutValue/MatMult/TFree cycle
// before returning the buffer to the pool for reuse by the next iteration.
func runIteration(t *vm.Translator, scratch *bufpool.BoundedPool[[]byte], n int) error {
	idx, err := scratch.Get()
	if err != nil {
		return err
	}
	defer scratch.Put(idx)
	buf := scratch.Value(idx)
	for i := range buf {
		buf[i] = byte(i)
	}

	size := len(buf)
	vaA, err := t.TMalloc(size)
	if err != nil {
		return err
	}
	defer t.TFree(vaA, size)

	vaB, err := t.TMalloc(size)
	if err != nil {
		return err
	}
	defer t.TFree(vaB, size)

	vaC, err := t.TMalloc(size)
	if err != nil {
		return err
	}
	defer t.TFree(vaC, size)

	if err := t.PutValue(vaA, buf); err != nil {
		return err
	}
	if err := t.PutValue(vaB, buf); err != nil {
		return err
	}

	return t.MatMult(vaA, vaB, n, vaC)
}
