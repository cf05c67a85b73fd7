// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

// Stats is one level's running access counters. For a level driven
// purely through Access (a standalone Cache, or the L1 of a TwoLevel),
// Hits + Misses always equals Reads + Writes. A TwoLevel's L2 is instead
// driven through Probe, which tracks Hits/Misses but never Reads/Writes
// — L2 is consulted, not directly accessed; see TwoLevel.Access.
// Callers compute rate from these four directly rather than a derived
// field, matching the CLI's four-line report.
type Stats struct {
	Reads, Writes, Hits, Misses uint64
}
