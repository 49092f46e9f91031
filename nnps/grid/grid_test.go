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

package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/go-nnps/nnps"
)

func mustGrid(t *testing.T, h, xmax, ymax float64) *Grid {
	t.Helper()
	g, err := New(h, xmax, ymax)
	if err != nil {
		t.Fatalf("New(%v, %v, %v): %v", h, xmax, ymax, err)
	}
	return g
}

func TestNewGeometry(t *testing.T) {
	tests := []struct {
		name             string
		h, xmax, ymax    float64
		rowWidth, maxKey int32
		cellsX           int32
	}{
		{"reference", 3, 10, 10, 4, 16, 4},
		{"divisible", 3, 9, 9, 4, 16, 4},
		{"rectangular", 1, 4, 2, 3, 15, 5},
		{"single_cell", 5, 1, 1, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.h, tt.xmax, tt.ymax)
			if g.RowWidth() != tt.rowWidth {
				t.Errorf("RowWidth = %d, want %d", g.RowWidth(), tt.rowWidth)
			}
			if g.MaxKey() != tt.maxKey {
				t.Errorf("MaxKey = %d, want %d", g.MaxKey(), tt.maxKey)
			}
			if g.CellsX() != tt.cellsX {
				t.Errorf("CellsX = %d, want %d", g.CellsX(), tt.cellsX)
			}
			if g.CellsX()*g.CellsY() != g.MaxKey() {
				t.Errorf("CellsX*CellsY = %d, want MaxKey %d", g.CellsX()*g.CellsY(), g.MaxKey())
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name          string
		h, xmax, ymax float64
		want          error
	}{
		{"zero_h", 0, 10, 10, nnps.ErrInvalidCutoff},
		{"negative_h", -1, 10, 10, nnps.ErrInvalidCutoff},
		{"nan_h", math.NaN(), 10, 10, nnps.ErrInvalidCutoff},
		{"inf_h", math.Inf(1), 10, 10, nnps.ErrInvalidCutoff},
		{"zero_x", 1, 0, 10, nnps.ErrInvalidDomain},
		{"negative_y", 1, 10, -1, nnps.ErrInvalidDomain},
		{"too_fine", 1e-6, 1e3, 1e3, nnps.ErrKeyOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.h, tt.xmax, tt.ymax)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	g := mustGrid(t, 3, 10, 10)
	tests := []struct {
		x, y float32
		want int32
	}{
		{0, 0, 0},
		{2.99, 2.99, 0},
		{3, 0, 4},
		{0, 3, 1},
		{6.9646916, 6.3440094, 10},
		{9.807642, 3.6178865, 13},
	}
	for _, tt := range tests {
		if got := Key(g, tt.x, tt.y); got != tt.want {
			t.Errorf("Key(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

// TestKeyDomainCorner checks that the corner (xmax, ymax) maps to a valid
// key: the last one.
func TestKeyDomainCorner(t *testing.T) {
	for _, ext := range [][3]float64{{3, 10, 10}, {3, 9, 9}, {0.5, 2, 7}} {
		g := mustGrid(t, ext[0], ext[1], ext[2])
		if !Contains(g, ext[1], ext[2]) {
			t.Fatalf("%v: corner not contained", g)
		}
		k := Key(g, ext[1], ext[2])
		if k < 0 || k >= g.MaxKey() {
			t.Errorf("%v: corner key %d outside [0,%d)", g, k, g.MaxKey())
		}
		if k != g.MaxKey()-1 {
			t.Errorf("%v: corner key %d, want %d", g, k, g.MaxKey()-1)
		}
	}
}

func TestValidate(t *testing.T) {
	g := mustGrid(t, 3, 10, 10)

	if err := Validate(g, []float64{0, 10, 5}, []float64{10, 0, 5}); err != nil {
		t.Errorf("in-domain positions rejected: %v", err)
	}

	tests := []struct {
		name   string
		xs, ys []float64
		want   error
	}{
		{"length", []float64{1, 2}, []float64{1}, nnps.ErrLengthMismatch},
		{"negative", []float64{1, -0.1}, []float64{1, 1}, nnps.ErrOutOfDomain},
		{"beyond_x", []float64{10.5}, []float64{1}, nnps.ErrOutOfDomain},
		{"beyond_y", []float64{1}, []float64{10.01}, nnps.ErrOutOfDomain},
		{"nan", []float64{math.NaN()}, []float64{1}, nnps.ErrOutOfDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(g, tt.xs, tt.ys); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStencil(t *testing.T) {
	g := mustGrid(t, 3, 10, 10) // 4x4 cells, rowWidth 4

	tests := []struct {
		name   string
		cx, cy int32
		want   []int32
	}{
		{"interior", 1, 1, []int32{0, 1, 2, 4, 5, 6, 8, 9, 10}},
		{"origin_corner", 0, 0, []int32{0, 1, 4, 5}},
		{"far_corner", 3, 3, []int32{10, 11, 14, 15}},
		{"top_edge", 2, 3, []int32{6, 7, 10, 11, 14, 15}},
		{"left_edge", 0, 2, []int32{1, 2, 3, 5, 6, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Stencil(tt.cx, tt.cy, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Stencil mismatch (-want +got):\n%s", diff)
			}
			if len(got) > StencilSize {
				t.Errorf("stencil has %d cells, max %d", len(got), StencilSize)
			}
		})
	}
}

func TestResize(t *testing.T) {
	g := mustGrid(t, 3, 10, 10)
	if err := g.Resize(20, 5); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if g.RowWidth() != 2 || g.CellsX() != 7 || g.MaxKey() != 14 {
		t.Errorf("after Resize: %v", g)
	}

	before := *g
	if err := g.Resize(-1, 5); !errors.Is(err, nnps.ErrInvalidDomain) {
		t.Errorf("Resize(-1, 5) err = %v, want ErrInvalidDomain", err)
	}
	if *g != before {
		t.Error("failed Resize modified the grid")
	}
}
