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

// Package binning groups particle indices by grid cell.
//
// A bucket sort produces a Binning: per-cell counts, per-cell start offsets
// and the particle indices permuted into cell-major order. Two strategies
// implement Strategy and are interchangeable:
//
//   - Counting: atomic per-cell counters rank particles within their cell,
//     a scan turns counts into offsets, a scatter places every particle.
//   - Radix: a stable radix sort-by-key orders (key, index) pairs; offsets
//     and counts are read off the run boundaries of the sorted keys.
//
// For the same positions both strategies produce identical BinCounts,
// StartIndices and SortedIndices: each cell lists its particles in ascending
// index order, the radix strategy through its stable sort and the counting
// strategy through a per-cell sort on parallel backends.
package binning

import (
	"fmt"

	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/backend"
	"github.com/ajroetker/go-nnps/nnps/grid"
)

// Binning is the cell-major ordering of a particle set.
//
// For every cell c, SortedIndices[StartIndices[c] : StartIndices[c]+BinCounts[c]]
// lists exactly the particles whose key is c.
type Binning struct {
	Keys          []int32 // cell key per particle, length N
	BinCounts     []int32 // particles per cell, length MaxKey
	StartIndices  []int32 // exclusive scan of BinCounts, length MaxKey
	SortedIndices []int32 // particle ids in cell-major order, length N
}

// Resize sets the buffer lengths for n particles on a grid with maxKey
// cells, reusing capacity where possible. Contents are unspecified.
func (b *Binning) Resize(n int, maxKey int32) {
	b.Keys = resize(b.Keys, n)
	b.SortedIndices = resize(b.SortedIndices, n)
	b.BinCounts = resize(b.BinCounts, int(maxKey))
	b.StartIndices = resize(b.StartIndices, int(maxKey))
}

// Reset zero-fills the counts, offsets and sorted indices.
func (b *Binning) Reset() {
	clear(b.BinCounts)
	clear(b.StartIndices)
	clear(b.SortedIndices)
}

// NumParticles returns N.
func (b *Binning) NumParticles() int { return len(b.SortedIndices) }

// NumCells returns MaxKey.
func (b *Binning) NumCells() int { return len(b.BinCounts) }

// Cell returns the particles of cell c. The slice aliases SortedIndices.
func (b *Binning) Cell(c int32) []int32 {
	start := b.StartIndices[c]
	return b.SortedIndices[start : start+b.BinCounts[c]]
}

func resize(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	return s[:n]
}

// Strategy is a bucket sort that bins particles by grid cell.
type Strategy[T nnps.Floats] interface {
	// Name identifies the strategy, e.g. "counting".
	Name() string

	// Bin fills out for the positions xs, ys on grid g. Positions must lie
	// in the grid domain and xs, ys must have equal length. out is resized
	// and reset by Bin.
	Bin(g *grid.Grid, xs, ys []T, out *Binning) error
}

// Kind selects a Strategy implementation.
type Kind int

const (
	// KindCounting selects the Counting strategy.
	KindCounting Kind = iota

	// KindRadix selects the Radix strategy.
	KindRadix
)

// String returns the strategy name.
func (k Kind) String() string {
	switch k {
	case KindCounting:
		return "counting"
	case KindRadix:
		return "radix"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a strategy name as returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "counting":
		return KindCounting, nil
	case "radix":
		return KindRadix, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, nnps.ErrUnknownStrategy)
	}
}

// New returns the strategy of the given kind running on be.
func New[T nnps.Floats](kind Kind, be *backend.Backend) (Strategy[T], error) {
	switch kind {
	case KindCounting:
		return NewCounting[T](be), nil
	case KindRadix:
		return NewRadix[T](be), nil
	default:
		return nil, fmt.Errorf("%v: %w", kind, nnps.ErrUnknownStrategy)
	}
}

// computeKeys writes the cell key of every particle into keys, calling
// each(p, key) for every particle. It guards against keys outside the grid
// so a bad position fails the rebuild instead of indexing out of bounds.
func computeKeys[T nnps.Floats](be *backend.Backend, g *grid.Grid, xs, ys []T, keys []int32, each func(p int, key int32)) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("len(x)=%d len(y)=%d: %w", len(xs), len(ys), nnps.ErrLengthMismatch)
	}
	maxKey := g.MaxKey()
	return be.ElementwiseErr(len(xs), func(start, end int) error {
		for p := start; p < end; p++ {
			if !grid.Contains(g, xs[p], ys[p]) {
				return grid.ValidateRange(g, xs, ys, p, p+1)
			}
			k := grid.Key(g, xs[p], ys[p])
			if k < 0 || k >= maxKey {
				return fmt.Errorf("particle %d key %d outside [0,%d): %w", p, k, maxKey, nnps.ErrOutOfDomain)
			}
			keys[p] = k
			if each != nil {
				each(p, k)
			}
		}
		return nil
	})
}
