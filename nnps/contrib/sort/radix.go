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

package sort

import (
	"math/bits"

	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-nnps/nnps/contrib/workerpool"
)

const (
	// digitBits is the number of key bits consumed per pass.
	digitBits = 8

	// numBuckets is the number of buckets per pass (one per digit value).
	numBuckets = 1 << digitBits

	// digitMask selects one digit after shifting.
	digitMask = numBuckets - 1

	// MaxKeyBits is the widest key the sort accepts.
	MaxKeyBits = 31

	// MinParallelSort is the minimum number of pairs before a pass is split
	// across workers.
	MinParallelSort = 1 << 13
)

// KeyBits returns the number of significant bits needed to represent every
// key in [0, maxKey): ceil(log2(maxKey)), or 0 when maxKey <= 1.
func KeyBits(maxKey int) int {
	if maxKey <= 1 {
		return 0
	}
	return bits.Len(uint(maxKey - 1))
}

// histogram is one chunk's digit counts, padded so neighboring chunks'
// counters never share a cache line.
type histogram struct {
	count [numBuckets]int
	_     cpu.CacheLinePad
}

// Sorter sorts (key, value) pairs and owns the scratch buffers, so repeated
// sorts of the same size allocate nothing.
type Sorter[V any] struct {
	pool       *workerpool.Pool
	threshold  int
	keyScratch []int32
	valScratch []V
	hist       []histogram
}

// NewSorter returns a Sorter running its passes on pool. A nil pool sorts
// serially.
func NewSorter[V any](pool *workerpool.Pool) *Sorter[V] {
	return &Sorter[V]{pool: pool, threshold: MinParallelSort}
}

// RadixSortByKey sorts keys ascending in place and applies the same
// permutation to values. The sort is stable: pairs with equal keys keep
// their input order. Keys must lie in [0, 1<<keyBits).
func RadixSortByKey[V any](keys []int32, values []V, keyBits int) {
	NewSorter[V](nil).Sort(keys, values, keyBits)
}

// ParallelRadixSortByKey is the parallel form of RadixSortByKey.
func ParallelRadixSortByKey[V any](pool *workerpool.Pool, keys []int32, values []V, keyBits int) {
	NewSorter[V](pool).Sort(keys, values, keyBits)
}

// Sort sorts keys ascending in place and applies the same permutation to
// values, stably. Keys must lie in [0, 1<<keyBits).
func (s *Sorter[V]) Sort(keys []int32, values []V, keyBits int) {
	if len(values) != len(keys) {
		panic("sort: keys and values differ in length")
	}
	if keyBits < 0 || keyBits > MaxKeyBits {
		panic("sort: keyBits out of range")
	}
	n := len(keys)
	if n <= 1 || keyBits == 0 {
		return
	}

	if cap(s.keyScratch) < n {
		s.keyScratch = make([]int32, n)
		s.valScratch = make([]V, n)
	}
	srcK, srcV := keys, values
	dstK, dstV := s.keyScratch[:n], s.valScratch[:n]

	for shift := 0; shift < keyBits; shift += digitBits {
		if s.pass(srcK, srcV, dstK, dstV, uint(shift)) {
			srcK, dstK = dstK, srcK
			srcV, dstV = dstV, srcV
		}
	}

	// After an odd number of effective passes the result sits in scratch.
	if &srcK[0] != &keys[0] {
		copy(keys, srcK)
		copy(values, srcV)
	}
}

// pass runs one counting-sort pass from src to dst. It returns false when
// every key shares the digit and the pass was skipped.
func (s *Sorter[V]) pass(srcK []int32, srcV []V, dstK []int32, dstV []V, shift uint) bool {
	n := len(srcK)
	chunks := 1
	if n >= s.threshold {
		chunks = s.pool.NumChunks(n)
	}
	if cap(s.hist) < chunks {
		s.hist = make([]histogram, chunks)
	}
	hist := s.hist[:chunks]

	count := func(c, start, end int) {
		h := &hist[c].count
		*h = [numBuckets]int{}
		for _, k := range srcK[start:end] {
			h[(k>>shift)&digitMask]++
		}
	}
	if chunks == 1 {
		count(0, 0, n)
	} else {
		s.pool.ParallelForChunks(n, count)
	}

	for d := range numBuckets {
		total := 0
		for c := range hist {
			total += hist[c].count[d]
		}
		if total == n {
			return false
		}
		if total != 0 {
			break
		}
	}

	// Exclusive scan in digit-major, chunk-minor order: chunk c's share of
	// digit d lands after every earlier chunk's share of d.
	offset := 0
	for d := range numBuckets {
		for c := range hist {
			v := hist[c].count[d]
			hist[c].count[d] = offset
			offset += v
		}
	}

	scatter := func(c, start, end int) {
		h := &hist[c].count
		for i := start; i < end; i++ {
			k := srcK[i]
			d := (k >> shift) & digitMask
			dstK[h[d]] = k
			dstV[h[d]] = srcV[i]
			h[d]++
		}
	}
	if chunks == 1 {
		scatter(0, 0, n)
	} else {
		s.pool.ParallelForChunks(n, scatter)
	}
	return true
}

// IsSortedByKey reports whether keys is in non-decreasing order.
func IsSortedByKey(keys []int32) bool {
	for i := 1; i < len(keys); i++ {
		if keys[i] < keys[i-1] {
			return false
		}
	}
	return true
}
