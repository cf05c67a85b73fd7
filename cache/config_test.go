// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oskit-go/oskit/cache"
)

func TestNew_PanicsOnNonPowerOfTwoSetCount(t *testing.T) {
	// 3 sets (48 / (1*16)) is not a power of two.
	require.Panics(t, func() {
		cache.New(cache.Config{Size: 48, Assoc: 1, BlockSize: 16, Policy: cache.LRU})
	})
}

func TestNew_PanicsOnNonMultipleSize(t *testing.T) {
	require.Panics(t, func() {
		cache.New(cache.Config{Size: 50, Assoc: 1, BlockSize: 16, Policy: cache.LRU})
	})
}

func TestNew_PanicsOnNonPositiveDimension(t *testing.T) {
	require.Panics(t, func() {
		cache.New(cache.Config{Size: 0, Assoc: 1, BlockSize: 16, Policy: cache.LRU})
	})
}
