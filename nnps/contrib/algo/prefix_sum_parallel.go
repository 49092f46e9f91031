// Copyright 2026 go-nnps Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package algo

import (
	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/contrib/workerpool"
)

// MinParallelScan is the minimum input length before a scan is split across
// workers. Below it the two extra passes over chunk totals cost more than
// they save.
const MinParallelScan = 1 << 14

// ParallelExclusivePrefixSum is the parallel form of ExclusivePrefixSum.
// It runs three phases separated by barriers:
//
//  1. every chunk sums its elements into totals[chunk]
//  2. totals is scanned serially, giving each chunk its carry-in
//  3. every chunk scans its elements starting from its carry-in
//
// Falls back to ExclusivePrefixSum when pool is nil or the input is shorter
// than MinParallelScan. in and out may be the same slice.
func ParallelExclusivePrefixSum[T nnps.Integers | nnps.Floats](pool *workerpool.Pool, in, out []T) T {
	return parallelExclusivePrefixSum(pool, in, out, MinParallelScan)
}

func parallelExclusivePrefixSum[T nnps.Integers | nnps.Floats](pool *workerpool.Pool, in, out []T, threshold int) T {
	if len(out) < len(in) {
		panic("scan: output slice too short")
	}
	n := len(in)
	chunks := pool.NumChunks(n)
	if n < threshold || chunks <= 1 {
		return exclusiveScan(in, out, 0)
	}

	totals := make([]T, chunks)
	pool.ParallelForChunks(n, func(c, start, end int) {
		var s T
		for _, v := range in[start:end] {
			s += v
		}
		totals[c] = s
	})

	total := exclusiveScan(totals, totals, 0)

	pool.ParallelForChunks(n, func(c, start, end int) {
		exclusiveScan(in[start:end], out[start:end], totals[c])
	})
	return total
}

// ParallelSum64 is the parallel form of Sum64.
func ParallelSum64[T nnps.Integers](pool *workerpool.Pool, data []T) int64 {
	n := len(data)
	chunks := pool.NumChunks(n)
	if n < MinParallelScan || chunks <= 1 {
		return Sum64(data)
	}

	partial := make([]int64, chunks)
	pool.ParallelForChunks(n, func(c, start, end int) {
		partial[c] = Sum64(data[start:end])
	})
	return Sum64(partial)
}
