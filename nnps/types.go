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

// Package nnps is the core of a uniform-grid nearest-neighbor particle
// search for 2-D particle simulations.
//
// It holds the numeric constraints shared by every kernel, the runtime
// dispatch level (serial or parallel) and the error sentinels returned by the
// higher-level packages. The algorithms themselves live in sibling packages:
//
//	nnps/contrib/algo        prefix sums (scan)
//	nnps/contrib/sort        stable radix sort-by-key
//	nnps/contrib/vec         distance kernels
//	nnps/contrib/workerpool  persistent worker pool
//	nnps/backend             data-parallel substrate built on the above
//	nnps/grid                spatial hash grid
//	nnps/binning             counting and radix bucket sorts
//	nnps/neighbors           count-then-fill neighbor enumeration
//	nnps/search              the NNPS facade tying everything together
//
// Basic usage:
//
//	import "github.com/ajroetker/go-nnps/nnps/search"
//
//	s, err := search.New(xs, ys, 3, 10, 10)
//	if err != nil { ... }
//	defer s.Close()
//	if err := s.Rebuild(); err != nil { ... }
//	for p := range len(xs) {
//	    for _, q := range s.NeighborsOf(p) { ... }
//	}
package nnps

// Floats is a constraint for particle coordinate types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}
