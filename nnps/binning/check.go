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
	"fmt"

	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/grid"
)

// Check verifies b against positions xs, ys recomputed independently on g:
//   - SortedIndices is a permutation of [0, N)
//   - StartIndices is the exclusive scan of BinCounts and BinCounts sums to N
//   - every particle listed under cell c has key c
//
// It returns an error wrapping nnps.ErrBinningMismatch describing the first
// violation found.
func Check[T nnps.Floats](b *Binning, g *grid.Grid, xs, ys []T) error {
	n := len(xs)
	if len(ys) != n || len(b.SortedIndices) != n || len(b.Keys) != n {
		return fmt.Errorf("lengths x=%d y=%d keys=%d sorted=%d: %w",
			len(xs), len(ys), len(b.Keys), len(b.SortedIndices), nnps.ErrBinningMismatch)
	}
	if len(b.BinCounts) != int(g.MaxKey()) || len(b.StartIndices) != int(g.MaxKey()) {
		return fmt.Errorf("cell buffers %d/%d, grid has %d cells: %w",
			len(b.BinCounts), len(b.StartIndices), g.MaxKey(), nnps.ErrBinningMismatch)
	}

	seen := make([]bool, n)
	for i, p := range b.SortedIndices {
		if p < 0 || int(p) >= n {
			return fmt.Errorf("sorted[%d] = %d outside [0,%d): %w", i, p, n, nnps.ErrBinningMismatch)
		}
		if seen[p] {
			return fmt.Errorf("particle %d listed twice: %w", p, nnps.ErrBinningMismatch)
		}
		seen[p] = true
	}

	var offset int32
	for c := range b.BinCounts {
		if b.StartIndices[c] != offset {
			return fmt.Errorf("start[%d] = %d, want %d: %w", c, b.StartIndices[c], offset, nnps.ErrBinningMismatch)
		}
		offset += b.BinCounts[c]
	}
	if int(offset) != n {
		return fmt.Errorf("bin counts sum to %d, want %d: %w", offset, n, nnps.ErrBinningMismatch)
	}

	for c := range b.BinCounts {
		for _, p := range b.Cell(int32(c)) {
			if k := grid.Key(g, xs[p], ys[p]); k != int32(c) {
				return fmt.Errorf("particle %d in cell %d has key %d: %w", p, c, k, nnps.ErrBinningMismatch)
			}
			if b.Keys[p] != int32(c) {
				return fmt.Errorf("keys[%d] = %d, listed in cell %d: %w", p, b.Keys[p], c, nnps.ErrBinningMismatch)
			}
		}
	}
	return nil
}
