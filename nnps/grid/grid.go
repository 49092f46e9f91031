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

// Package grid maps 2-D particle positions to integer cell keys of a uniform
// grid whose cell edge equals the interaction cutoff h.
//
// Cells are flattened x-major: key = cellX*RowWidth + cellY, where
// RowWidth = 1 + floor(ymax/h). MaxKey = 1 + Flatten(floor(xmax/h),
// floor(ymax/h)) bounds every key, so any position in the closed domain
// [0, xmax] × [0, ymax], including the corner (xmax, ymax), has a valid key
// in [0, MaxKey).
package grid

import (
	"fmt"
	"math"

	"github.com/ajroetker/go-nnps/nnps"
)

// StencilSize is the maximum number of cells in a neighbor stencil.
const StencilSize = 9

// Grid is an immutable-per-rebuild spatial hash over a rectangular domain.
type Grid struct {
	h          float64
	xmax, ymax float64
	cmaxX      int32 // floor(xmax/h)
	cmaxY      int32 // floor(ymax/h)
	rowWidth   int32
	maxKey     int32
}

// New returns a grid with cell size h over [0, xmax] × [0, ymax].
func New(h, xmax, ymax float64) (*Grid, error) {
	g := &Grid{}
	if err := g.init(h, xmax, ymax); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) init(h, xmax, ymax float64) error {
	if !(h > 0) || math.IsInf(h, 0) {
		return fmt.Errorf("h=%v: %w", h, nnps.ErrInvalidCutoff)
	}
	if !(xmax > 0) || !(ymax > 0) || math.IsInf(xmax, 0) || math.IsInf(ymax, 0) {
		return fmt.Errorf("xmax=%v ymax=%v: %w", xmax, ymax, nnps.ErrInvalidDomain)
	}

	cx := math.Floor(xmax / h)
	cy := math.Floor(ymax / h)
	rowWidth := 1 + cy
	maxKey := 1 + cx*rowWidth + cy
	if maxKey > math.MaxInt32 {
		return fmt.Errorf("h=%v over %vx%v needs %v cells: %w", h, xmax, ymax, maxKey, nnps.ErrKeyOverflow)
	}

	*g = Grid{
		h:        h,
		xmax:     xmax,
		ymax:     ymax,
		cmaxX:    int32(cx),
		cmaxY:    int32(cy),
		rowWidth: int32(rowWidth),
		maxKey:   int32(maxKey),
	}
	return nil
}

// Resize recomputes the grid for a new domain, keeping the cell size. On
// error the grid is unchanged.
func (g *Grid) Resize(xmax, ymax float64) error {
	var next Grid
	if err := next.init(g.h, xmax, ymax); err != nil {
		return err
	}
	*g = next
	return nil
}

// CellSize returns h.
func (g *Grid) CellSize() float64 { return g.h }

// Extent returns the domain bounds (xmax, ymax).
func (g *Grid) Extent() (xmax, ymax float64) { return g.xmax, g.ymax }

// RowWidth returns the number of cells along y, the flattening stride.
func (g *Grid) RowWidth() int32 { return g.rowWidth }

// CellsX returns the number of cells along x.
func (g *Grid) CellsX() int32 { return g.cmaxX + 1 }

// CellsY returns the number of cells along y.
func (g *Grid) CellsY() int32 { return g.rowWidth }

// MaxKey returns one more than the largest valid key; per-cell buffers have
// this length.
func (g *Grid) MaxKey() int32 { return g.maxKey }

// Flatten returns the key of cell (cx, cy).
func (g *Grid) Flatten(cx, cy int32) int32 {
	return cx*g.rowWidth + cy
}

// Cell returns the cell coordinates of (x, y). The position must satisfy
// Contains.
func Cell[T nnps.Floats](g *Grid, x, y T) (cx, cy int32) {
	return int32(math.Floor(float64(x) / g.h)), int32(math.Floor(float64(y) / g.h))
}

// Key returns the cell key of (x, y). The position must satisfy Contains.
func Key[T nnps.Floats](g *Grid, x, y T) int32 {
	cx, cy := Cell(g, x, y)
	return g.Flatten(cx, cy)
}

// Contains reports whether (x, y) lies in the closed domain.
func Contains[T nnps.Floats](g *Grid, x, y T) bool {
	fx, fy := float64(x), float64(y)
	return fx >= 0 && fx <= g.xmax && fy >= 0 && fy <= g.ymax
}

// Validate checks that xs and ys have equal length and every position lies
// in the domain. It reports the first offending particle.
func Validate[T nnps.Floats](g *Grid, xs, ys []T) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("len(x)=%d len(y)=%d: %w", len(xs), len(ys), nnps.ErrLengthMismatch)
	}
	return ValidateRange(g, xs, ys, 0, len(xs))
}

// ValidateRange is Validate restricted to particles [start, end).
func ValidateRange[T nnps.Floats](g *Grid, xs, ys []T, start, end int) error {
	for p := start; p < end; p++ {
		if !Contains(g, xs[p], ys[p]) {
			return fmt.Errorf("particle %d at (%v, %v) outside [0,%v]x[0,%v]: %w",
				p, xs[p], ys[p], g.xmax, g.ymax, nnps.ErrOutOfDomain)
		}
	}
	return nil
}

// Stencil appends to dst the keys of the 3×3 block of cells centered on
// (cx, cy), clamped to the grid, and returns the extended slice. Keys are
// produced x-major with y ascending, so the order is deterministic.
func (g *Grid) Stencil(cx, cy int32, dst []int32) []int32 {
	x0, x1 := max(cx-1, 0), min(cx+1, g.cmaxX)
	y0, y1 := max(cy-1, 0), min(cy+1, g.rowWidth-1)
	for ix := x0; ix <= x1; ix++ {
		for iy := y0; iy <= y1; iy++ {
			dst = append(dst, g.Flatten(ix, iy))
		}
	}
	return dst
}

// String describes the grid geometry.
func (g *Grid) String() string {
	return fmt.Sprintf("grid(h=%v, %dx%d cells, maxKey=%d)", g.h, g.CellsX(), g.CellsY(), g.maxKey)
}
