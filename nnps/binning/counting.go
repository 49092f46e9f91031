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

package binning

import (
	"slices"

	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/backend"
	"github.com/ajroetker/go-nnps/nnps/grid"
)

// cellBatch is the number of cells a worker claims at a time when sorting
// cell runs.
const cellBatch = 256

// Counting bins particles in three passes:
//
//  1. count: every particle computes its key, atomically increments
//     BinCounts[key] and keeps the pre-increment value as its rank among
//     the particles of its cell
//  2. scan: StartIndices = exclusive scan of BinCounts
//  3. scatter: SortedIndices[StartIndices[key] + rank] = particle
//
// Ranks within a cell depend on scheduling. On a parallel backend a fourth
// pass sorts every cell's run, so SortedIndices lists each cell in ascending
// particle order exactly as a serial count does.
type Counting[T nnps.Floats] struct {
	be          *backend.Backend
	sortOffsets []int32
}

// NewCounting returns a counting-sort strategy running on be.
func NewCounting[T nnps.Floats](be *backend.Backend) *Counting[T] {
	return &Counting[T]{be: be}
}

// Name returns "counting".
func (s *Counting[T]) Name() string { return KindCounting.String() }

// Bin implements Strategy.
func (s *Counting[T]) Bin(g *grid.Grid, xs, ys []T, out *Binning) error {
	n := len(xs)
	out.Resize(n, g.MaxKey())
	out.Reset()
	s.sortOffsets = resize(s.sortOffsets, n)
	clear(s.sortOffsets)

	counts, offsets := out.BinCounts, s.sortOffsets
	err := computeKeys(s.be, g, xs, ys, out.Keys, func(p int, key int32) {
		offsets[p] = backend.AtomicIncrement(&counts[key])
	})
	if err != nil {
		return err
	}

	if _, err := s.be.Scan(out.BinCounts, out.StartIndices); err != nil {
		return err
	}

	keys, starts, sorted := out.Keys, out.StartIndices, out.SortedIndices
	s.be.ElementwiseRange(n, func(start, end int) {
		for p := start; p < end; p++ {
			sorted[starts[keys[p]]+offsets[p]] = int32(p)
		}
	})

	if s.be.Level() == nnps.DispatchParallel {
		s.be.ElementwiseBalanced(out.NumCells(), cellBatch, func(start, end int) {
			for c := start; c < end; c++ {
				slices.Sort(out.Cell(int32(c)))
			}
		})
	}
	return nil
}
