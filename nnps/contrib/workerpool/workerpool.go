// Copyright 2026 The go-nnps Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool for the
// data-parallel passes of a neighbor search. A Pool is created once per
// search and reused by every pass of every rebuild, so a timestep costs no
// goroutine spawns.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for step := range steps {
//	    pool.ParallelFor(n, func(start, end int) {
//	        countBins(start, end)
//	    })
//	}
//
// A nil *Pool is valid and runs everything on the calling goroutine.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// passes. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan task
	closeOnce  sync.Once
	closed     atomic.Bool
}

// task is one unit of work handed to a worker.
type task struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.workC {
		t.fn()
		t.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool, or 1 for a nil pool.
func (p *Pool) NumWorkers() int {
	if p == nil {
		return 1
	}
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// serial reports whether work must run on the calling goroutine.
func (p *Pool) serial() bool {
	return p == nil || p.numWorkers == 1 || p.closed.Load()
}

// NumChunks returns how many contiguous chunks ParallelForChunks splits n
// items into. It never exceeds NumWorkers and is 0 only for n <= 0.
func (p *Pool) NumChunks(n int) int {
	if n <= 0 {
		return 0
	}
	if p.serial() {
		return 1
	}
	workers := min(p.numWorkers, n)
	chunkSize := (n + workers - 1) / workers
	return (n + chunkSize - 1) / chunkSize
}

// ChunkBounds returns the [start, end) range of chunk c when n items are
// split into NumChunks(n) chunks.
func (p *Pool) ChunkBounds(n, c int) (start, end int) {
	chunks := p.NumChunks(n)
	if chunks <= 1 {
		return 0, n
	}
	workers := min(p.numWorkers, n)
	chunkSize := (n + workers - 1) / workers
	start = c * chunkSize
	return start, min(start+chunkSize, n)
}

// ParallelForChunks executes fn once per chunk of [0, n). Chunks are
// contiguous, disjoint and numbered in index order, so per-chunk scratch
// state (histograms, partial sums) can be indexed by chunk.
// Blocks until all work completes.
func (p *Pool) ParallelForChunks(n int, fn func(chunk, start, end int)) {
	chunks := p.NumChunks(n)
	if chunks == 0 {
		return
	}
	if chunks == 1 {
		fn(0, 0, n)
		return
	}

	var wg sync.WaitGroup
	wg.Add(chunks)
	for c := range chunks {
		start, end := p.ChunkBounds(n, c)
		p.workC <- task{
			fn:      func() { fn(c, start, end) },
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelFor executes fn for each index in [0, n) using the worker pool.
// Each worker processes a contiguous range of indices.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.ParallelForChunks(n, func(_, start, end int) {
		fn(start, end)
	})
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing. This balances load when work per item varies, as it does for
// particles in crowded and sparse cells.
// Blocks until all work completes.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if p.serial() || n == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	workers := min(p.numWorkers, n)
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- task{
			fn: func() {
				for {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					fn(i)
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ParallelForAtomicBatched executes fn for batches of indices using atomic
// work stealing, grabbing batchSize items per atomic operation.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	numBatches := (n + batchSize - 1) / batchSize
	if p.serial() || numBatches == 1 {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, numBatches)
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- task{
			fn: func() {
				for {
					start := (int(next.Add(1)) - 1) * batchSize
					if start >= n {
						return
					}
					fn(start, min(start+batchSize, n))
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
