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

// Package backend is the data-parallel execution substrate of the neighbor
// search. It exposes the four primitives every pass is written against:
//
//   - Elementwise: apply a function once per index, no ordering between indices
//   - Scan: exclusive prefix sum under +
//   - SortByKey: stable ascending sort of values by int32 keys
//   - AtomicIncrement: fetch-and-add returning the previous value
//
// A Backend is either serial (every pass runs on the calling goroutine) or
// parallel (passes run on a persistent workerpool.Pool). Both produce
// identical results; only wall time differs.
package backend

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/contrib/algo"
	"github.com/ajroetker/go-nnps/nnps/contrib/sort"
	"github.com/ajroetker/go-nnps/nnps/contrib/workerpool"
)

// MinParallelElements is the minimum element count before Elementwise
// splits a pass across workers.
const MinParallelElements = 1024

// Backend runs data-parallel passes. The zero value is not usable; build one
// with New, Serial or Default. A Backend keeps sort scratch buffers and must
// not be shared by rebuilds running at the same time.
type Backend struct {
	level     nnps.DispatchLevel
	pool      *workerpool.Pool
	threshold int
	sorter    *sort.Sorter[int32]
}

// New returns a backend with the given number of workers. workers <= 0
// selects nnps.DefaultWorkers(); a single worker yields a serial backend.
func New(workers int) *Backend {
	if workers <= 0 {
		workers = nnps.DefaultWorkers()
	}
	if workers == 1 {
		return Serial()
	}
	pool := workerpool.New(workers)
	return &Backend{
		level:     nnps.DispatchParallel,
		pool:      pool,
		threshold: MinParallelElements,
		sorter:    sort.NewSorter[int32](pool),
	}
}

// Serial returns a backend that runs every pass on the calling goroutine.
func Serial() *Backend {
	return &Backend{
		level:     nnps.DispatchSerial,
		threshold: MinParallelElements,
		sorter:    sort.NewSorter[int32](nil),
	}
}

// Default returns a backend matching nnps.CurrentLevel(), which honors the
// NNPS_NO_PARALLEL and NNPS_WORKERS environment variables.
func Default() *Backend {
	if nnps.CurrentLevel() == nnps.DispatchSerial {
		return Serial()
	}
	return New(nnps.DefaultWorkers())
}

// Level returns the dispatch level of the backend.
func (b *Backend) Level() nnps.DispatchLevel {
	return b.level
}

// Workers returns the number of workers, 1 for a serial backend.
func (b *Backend) Workers() int {
	return b.pool.NumWorkers()
}

// Pool returns the underlying worker pool, nil for a serial backend.
func (b *Backend) Pool() *workerpool.Pool {
	return b.pool
}

// String describes the backend, for example "parallel(8)".
func (b *Backend) String() string {
	return fmt.Sprintf("%s(%d)", b.level, b.Workers())
}

// Close releases the worker pool. Passes issued after Close run serially.
func (b *Backend) Close() {
	b.pool.Close()
}

// parallel reports whether a pass over n elements should use the pool.
func (b *Backend) parallel(n int) bool {
	return b.pool != nil && n >= b.threshold
}

// Elementwise calls fn(i) once for every i in [0, n). Indices are handed to
// workers one at a time, so it suits passes with few, uneven items. The
// binning and neighbor passes batch their work through ElementwiseRange,
// ElementwiseBalanced and ElementwiseErr instead; Elementwise is the
// per-index form of the same primitive for callers with coarse items.
func (b *Backend) Elementwise(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if b.pool == nil || n == 1 {
		for i := range n {
			fn(i)
		}
		return
	}
	b.pool.ParallelForAtomic(n, fn)
}

// ElementwiseBalanced calls fn over batches of at most batch indices
// covering [0, n), handed to workers on demand.
func (b *Backend) ElementwiseBalanced(n, batch int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if !b.parallel(n) {
		fn(0, n)
		return
	}
	b.pool.ParallelForAtomicBatched(n, batch, fn)
}

// ElementwiseRange calls fn over disjoint contiguous ranges covering [0, n).
func (b *Backend) ElementwiseRange(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if !b.parallel(n) {
		fn(0, n)
		return
	}
	b.pool.ParallelFor(n, fn)
}

// ElementwiseErr calls fn over disjoint contiguous ranges covering [0, n)
// and returns the error of the lowest failing range. Every range runs to
// completion; the caller must treat all outputs as invalid on error.
func (b *Backend) ElementwiseErr(n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if !b.parallel(n) {
		return fn(0, n)
	}

	errs := make([]error, b.pool.NumChunks(n))
	b.pool.ParallelForChunks(n, func(c, start, end int) {
		errs[c] = fn(start, end)
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Scan writes the exclusive prefix sum of in to out and returns the total.
// It fails with nnps.ErrCountOverflow when the total does not fit in int32,
// in which case out is unspecified.
func (b *Backend) Scan(in, out []int32) (int32, error) {
	pool := b.pool
	if !b.parallel(len(in)) {
		pool = nil
	}
	if total := algo.ParallelSum64(pool, in); total > math.MaxInt32 {
		return 0, fmt.Errorf("scan total %d: %w", total, nnps.ErrCountOverflow)
	}
	return algo.ParallelExclusivePrefixSum(pool, in, out), nil
}

// SortByKey sorts keys ascending and permutes values identically, stably.
// Keys must lie in [0, 1<<keyBits).
func (b *Backend) SortByKey(keys, values []int32, keyBits int) {
	b.sorter.Sort(keys, values, keyBits)
}

// AtomicIncrement adds one to *counter with sequentially consistent
// fetch-and-add and returns the value before the increment.
func AtomicIncrement(counter *int32) int32 {
	return atomic.AddInt32(counter, 1) - 1
}
