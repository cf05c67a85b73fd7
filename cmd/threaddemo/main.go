// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command threaddemo runs a fixed workload of worker threads under the
// thread package's scheduler and reports context-switch and
// turnaround/response statistics on exit.
//
// Usage:
//
//	threaddemo [flags]
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/oskit-go/oskit/thread"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	fs := pflag.NewFlagSet("threaddemo", pflag.ExitOnError)
	policyName := fs.String("policy", "mlfq", `scheduling policy: "psjf" or "mlfq"`)
	workers := fs.IntP("workers", "n", 8, "number of worker threads to spawn")
	yields := fs.Int("yields", 5, "number of times each worker yields before exiting")
	quantum := fs.Duration("quantum", 10*time.Millisecond, "simulated preemption timer period")
	verbose := fs.BoolP("verbose", "v", false, "log every dispatch decision at debug level")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	var policy thread.Policy
	switch *policyName {
	case "psjf":
		policy = thread.PSJF
	case "mlfq":
		policy = thread.MLFQ
	default:
		log.Fatal().Str("policy", *policyName).Msg(`unknown policy, want "psjf" or "mlfq"`)
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	rt := thread.New(policy, thread.WithTimeQuantum(*quantum), thread.WithLogger(logger))
	main := rt.Main()

	log.Info().Str("policy", policy.String()).Int("workers", *workers).Msg("runtime started")

	ids := make([]int, *workers)
	for i := range ids {
		ids[i] = rt.Create(func(self *thread.Thread, arg any) any {
			n := arg.(int)
			for i := 0; i < *yields; i++ {
				self.Checkpoint()
				self.Yield()
			}
			return n
		}, i)
	}
	for _, id := range ids {
		main.Join(id)
	}

	rt.PrintStats(os.Stdout)
}
