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

// Package neighbors enumerates, for every particle, the particles within the
// cutoff radius, using a binning of the particles on a uniform grid.
//
// Enumeration is count-then-fill. A sizing pass counts each particle's
// neighbors, an exclusive scan turns the counts into offsets, the flat index
// buffer is resized to the exact total, and a fill pass repeats the sizing
// traversal writing ids instead of counting them. Each particle writes a
// disjoint slice, so neither pass needs synchronization.
//
// Candidates come from the 3×3 block of cells around a particle's own cell,
// clamped at the domain edges. With cell size equal to the cutoff this block
// holds every particle within range.
package neighbors

import (
	"fmt"

	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/backend"
	"github.com/ajroetker/go-nnps/nnps/binning"
	"github.com/ajroetker/go-nnps/nnps/contrib/vec"
	"github.com/ajroetker/go-nnps/nnps/grid"
)

// sizeBatch is the number of particles a worker claims at a time in the
// sizing pass. Crowded cells make per-particle cost uneven.
const sizeBatch = 64

// List is a flattened per-particle neighbor list. Particle p's neighbors are
// Indices[Starts[p] : Starts[p]+Lengths[p]].
type List struct {
	Starts  []int32 // exclusive scan of Lengths
	Lengths []int32 // neighbor count per particle
	Indices []int32 // neighbor ids, len == Total()
}

// Of returns the neighbors of particle p. The slice aliases the list.
func (l *List) Of(p int) []int32 {
	start := l.Starts[p]
	return l.Indices[start : start+l.Lengths[p]]
}

// Total returns the number of (particle, neighbor) pairs in the list.
func (l *List) Total() int32 {
	return int32(len(l.Indices))
}

// NumParticles returns the number of particles the list was built for.
func (l *List) NumParticles() int {
	return len(l.Lengths)
}

// Reset zeroes the per-particle tables and empties Indices, keeping capacity.
func (l *List) Reset() {
	clear(l.Starts)
	clear(l.Lengths)
	l.Indices = l.Indices[:0]
}

// Option configures an Enumerator.
type Option func(*config)

type config struct {
	includeSelf     bool
	initialCapacity int
}

// WithSelf makes every particle its own neighbor. By default a particle is
// never listed among its own neighbors.
func WithSelf(include bool) Option {
	return func(c *config) { c.includeSelf = include }
}

// WithInitialCapacity preallocates room for n neighbor ids on the first
// enumeration. The default is twice the particle count.
func WithInitialCapacity(n int) Option {
	return func(c *config) { c.initialCapacity = n }
}

// Enumerator builds neighbor lists on a backend. It holds no per-rebuild
// state other than configuration, so one Enumerator may fill many lists,
// though not concurrently on the same List.
type Enumerator[T nnps.Floats] struct {
	be  *backend.Backend
	cfg config
}

// New returns an Enumerator running its passes on be.
func New[T nnps.Floats](be *backend.Backend, opts ...Option) *Enumerator[T] {
	e := &Enumerator[T]{be: be, cfg: config{initialCapacity: -1}}
	for _, opt := range opts {
		opt(&e.cfg)
	}
	return e
}

// IncludesSelf reports whether particles are listed as their own neighbors.
func (e *Enumerator[T]) IncludesSelf() bool {
	return e.cfg.includeSelf
}

// Enumerate fills list with the neighbors of every particle at xs, ys. b
// must be a binning of the same positions on g. Two particles are neighbors
// when their squared distance is at most the square of g's cell size.
//
// On error list holds no usable result.
func (e *Enumerator[T]) Enumerate(g *grid.Grid, b *binning.Binning, xs, ys []T, list *List) error {
	n := len(xs)
	if len(ys) != n {
		return fmt.Errorf("len(x)=%d len(y)=%d: %w", n, len(ys), nnps.ErrLengthMismatch)
	}
	if b.NumParticles() != n || b.NumCells() != int(g.MaxKey()) {
		return fmt.Errorf("binning has %d particles and %d cells, want %d and %d: %w",
			b.NumParticles(), b.NumCells(), n, g.MaxKey(), nnps.ErrBinningMismatch)
	}

	h := g.CellSize()
	h2 := h * h
	e.size(g, b, xs, ys, list, h2)
	total, err := e.offsets(list)
	if err != nil {
		return err
	}
	e.allocate(list, total)
	return e.fill(g, b, xs, ys, list, h2)
}

// skip returns the id excluded from p's candidates.
func (e *Enumerator[T]) skip(p int) int32 {
	if e.cfg.includeSelf {
		return -1
	}
	return int32(p)
}

// size writes each particle's neighbor count to list.Lengths.
func (e *Enumerator[T]) size(g *grid.Grid, b *binning.Binning, xs, ys []T, list *List, h2 float64) {
	n := len(xs)
	list.Lengths = resize(list.Lengths, n)
	list.Starts = resize(list.Starts, n)
	lengths := list.Lengths

	e.be.ElementwiseBalanced(n, sizeBatch, func(start, end int) {
		var buf [grid.StencilSize]int32
		for p := start; p < end; p++ {
			x, y := xs[p], ys[p]
			cx, cy := grid.Cell(g, x, y)
			skip := e.skip(p)
			var count int32
			for _, c := range g.Stencil(cx, cy, buf[:0]) {
				count += vec.CountWithinCutoff(xs, ys, b.Cell(c), x, y, h2, skip)
			}
			lengths[p] = count
		}
	})
}

// offsets scans list.Lengths into list.Starts and returns the total
// neighbor count.
func (e *Enumerator[T]) offsets(list *List) (int32, error) {
	n := len(list.Lengths)
	if _, err := e.be.Scan(list.Lengths, list.Starts); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return list.Lengths[n-1] + list.Starts[n-1], nil
}

// allocate resizes list.Indices to exactly total ids.
func (e *Enumerator[T]) allocate(list *List, total int32) {
	if cap(list.Indices) >= int(total) {
		list.Indices = list.Indices[:total]
		return
	}
	capacity := int(total)
	if list.Indices == nil {
		initial := e.cfg.initialCapacity
		if initial < 0 {
			initial = 2 * list.NumParticles()
		}
		capacity = max(capacity, initial)
	}
	list.Indices = make([]int32, total, capacity)
}

// fill repeats the sizing traversal and writes neighbor ids. A particle
// whose write count differs from its sized length is reported as
// nnps.ErrNeighborMismatch.
func (e *Enumerator[T]) fill(g *grid.Grid, b *binning.Binning, xs, ys []T, list *List, h2 float64) error {
	starts, lengths, indices := list.Starts, list.Lengths, list.Indices

	return e.be.ElementwiseErr(len(xs), func(start, end int) error {
		var buf [grid.StencilSize]int32
		for p := start; p < end; p++ {
			x, y := xs[p], ys[p]
			cx, cy := grid.Cell(g, x, y)
			skip := e.skip(p)
			dst := indices[starts[p] : starts[p]+lengths[p]]
			var written int32
			for _, c := range g.Stencil(cx, cy, buf[:0]) {
				rest := dst[min(int(written), len(dst)):]
				written += vec.WriteWithinCutoff(rest, xs, ys, b.Cell(c), x, y, h2, skip)
			}
			if written != lengths[p] {
				return fmt.Errorf("particle %d: sized %d neighbors, filled %d: %w",
					p, lengths[p], written, nnps.ErrNeighborMismatch)
			}
		}
		return nil
	})
}

func resize(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	return s[:n]
}
