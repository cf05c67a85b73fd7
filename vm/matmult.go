// Copyright 2026 The oskit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package vm

import "encoding/binary"

// MatMult computes the n x n integer matrix product answer = a * b, where
// a, b and answer are all backed by translator-managed memory at the given
// virtual addresses. It is purely a client of GetValue/PutValue, using a
// 4-byte integer element stride.
func (t *Translator) MatMult(vaA, vaB uint32, n int, vaAnswer uint32) error {
	size := n * n * 4

	bufA := make([]byte, size)
	if err := t.GetValue(vaA, bufA); err != nil {
		return err
	}
	bufB := make([]byte, size)
	if err := t.GetValue(vaB, bufB); err != nil {
		return err
	}

	a := decodeInts(bufA, n*n)
	b := decodeInts(bufB, n*n)
	c := make([]int32, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum int32
			for k := 0; k < n; k++ {
				sum += a[i*n+k] * b[k*n+j]
			}
			c[i*n+j] = sum
		}
	}

	return t.PutValue(vaAnswer, encodeInts(c))
}

func decodeInts(buf []byte, n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

func encodeInts(vals []int32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}
