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

// Package fixture holds reference particle sets shared by the tests of the
// neighbor search packages.
package fixture

import "math/rand/v2"

// Reference20 is 20 particles drawn uniformly from [0,10)×[0,10) (first the
// 20 x coordinates, then the 20 y coordinates, from a Mersenne Twister
// seeded with 123), searched with cutoff 3.
var Reference20 = struct {
	X, Y       []float32
	H          float64
	XMax, YMax float64

	MaxKey       int32
	Keys         []int32
	BinCounts    []int32
	StartIndices []int32
	NbrLengths   []int32
	Total        int32
	// Neighbors lists every particle's neighbors in ascending id order,
	// self excluded.
	Neighbors [][]int32
}{
	X: []float32{
		6.96469164, 2.86139345, 2.26851463, 5.51314783, 7.19468975,
		4.2310648, 9.80764198, 6.8482976, 4.80931902, 3.92117524,
		3.4317801, 7.2904973, 4.38572264, 0.596778989, 3.98044252,
		7.37995386, 1.82491732, 1.75451756, 5.31551361, 5.31827593,
	},
	Y: []float32{
		6.3440094, 8.49431801, 7.24455309, 6.11023521, 7.2244339,
		3.22958922, 3.61788654, 2.28263235, 2.93714046, 6.30976105,
		0.921049416, 4.33701181, 4.30862761, 4.93685102, 4.25830269,
		3.12261224, 4.26351309, 8.9338913, 9.44159985, 5.01836681,
	},
	H:    3,
	XMax: 10,
	YMax: 10,

	MaxKey:       16,
	Keys:         []int32{10, 2, 2, 6, 10, 5, 13, 8, 4, 6, 4, 9, 5, 1, 5, 9, 1, 2, 7, 5},
	BinCounts:    []int32{0, 2, 3, 0, 2, 4, 2, 1, 1, 2, 2, 0, 0, 1, 0, 0},
	StartIndices: []int32{0, 0, 2, 5, 5, 7, 11, 13, 14, 15, 17, 19, 19, 19, 20, 20},
	NbrLengths:   []int32{4, 4, 4, 7, 5, 7, 2, 4, 8, 7, 2, 9, 8, 2, 7, 5, 5, 2, 2, 10},
	Total:        104,
	Neighbors: [][]int32{
		{3, 4, 11, 19},
		{2, 9, 17, 18},
		{1, 9, 13, 17},
		{0, 4, 9, 11, 12, 14, 19},
		{0, 3, 11, 18, 19},
		{7, 8, 10, 12, 14, 16, 19},
		{11, 15},
		{5, 8, 11, 15},
		{5, 7, 10, 11, 12, 14, 15, 19},
		{1, 2, 3, 12, 14, 16, 19},
		{5, 8},
		{0, 3, 4, 6, 7, 8, 12, 15, 19},
		{3, 5, 8, 9, 11, 14, 16, 19},
		{2, 16},
		{3, 5, 8, 9, 12, 16, 19},
		{6, 7, 8, 11, 19},
		{5, 9, 12, 13, 14},
		{1, 2},
		{1, 4},
		{0, 3, 4, 5, 8, 9, 11, 12, 14, 15},
	},
}

// Uniform returns n particles drawn uniformly from [0,xmax)×[0,ymax) with a
// deterministic PCG stream.
func Uniform(seed uint64, n int, xmax, ymax float64) (xs, ys []float64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := range n {
		xs[i] = rng.Float64() * xmax
		ys[i] = rng.Float64() * ymax
	}
	return xs, ys
}

// Clustered returns n particles where most fall into a single small
// patch, producing highly skewed cell occupancy.
func Clustered(seed uint64, n int, xmax, ymax float64) (xs, ys []float64) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := range n {
		if i%10 == 0 {
			xs[i] = rng.Float64() * xmax
			ys[i] = rng.Float64() * ymax
			continue
		}
		xs[i] = 0.1*xmax + rng.Float64()*0.05*xmax
		ys[i] = 0.1*ymax + rng.Float64()*0.05*ymax
	}
	return xs, ys
}
