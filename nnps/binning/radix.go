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
	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/backend"
	"github.com/ajroetker/go-nnps/nnps/contrib/sort"
	"github.com/ajroetker/go-nnps/nnps/grid"
)

// Radix bins particles with a sort-by-key instead of atomics:
//
//  1. every particle writes its key and its own index
//  2. (keys, indices) are sorted stably on ceil(log2(MaxKey)) key bits
//  3. the first position of every run of equal sorted keys is recorded as
//     that cell's start
//  4. every run's last position yields the cell's count, the final run
//     closing against N
//  5. StartIndices is rebuilt as the exclusive scan of BinCounts so empty
//     cells carry the same offsets Counting gives them
//
// Because the sort is stable, particles inside a cell appear in index order
// and the result is identical for serial and parallel backends.
type Radix[T nnps.Floats] struct {
	be         *backend.Backend
	sortedKeys []int32
}

// NewRadix returns a radix-sort strategy running on be.
func NewRadix[T nnps.Floats](be *backend.Backend) *Radix[T] {
	return &Radix[T]{be: be}
}

// Name returns "radix".
func (s *Radix[T]) Name() string { return KindRadix.String() }

// SortedKeys returns the keys in sorted order from the last Bin call.
func (s *Radix[T]) SortedKeys() []int32 { return s.sortedKeys }

// Bin implements Strategy.
func (s *Radix[T]) Bin(g *grid.Grid, xs, ys []T, out *Binning) error {
	n := len(xs)
	out.Resize(n, g.MaxKey())
	out.Reset()
	s.sortedKeys = resize(s.sortedKeys, n)

	sortedKeys, sorted := s.sortedKeys, out.SortedIndices
	err := computeKeys(s.be, g, xs, ys, out.Keys, func(p int, key int32) {
		sortedKeys[p] = key
		sorted[p] = int32(p)
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	s.be.SortByKey(sortedKeys, sorted, sort.KeyBits(int(g.MaxKey())))

	starts, counts := out.StartIndices, out.BinCounts
	s.be.ElementwiseRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			if i == 0 || sortedKeys[i] != sortedKeys[i-1] {
				starts[sortedKeys[i]] = int32(i)
			}
		}
	})
	s.be.ElementwiseRange(n, func(start, end int) {
		for i := start; i < end; i++ {
			k := sortedKeys[i]
			if i == n-1 || k != sortedKeys[i+1] {
				counts[k] = int32(i+1) - starts[k]
			}
		}
	})

	_, err = s.be.Scan(counts, starts)
	return err
}
