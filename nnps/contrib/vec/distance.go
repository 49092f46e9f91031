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

// Package vec provides the 2-D distance kernels used by the neighbor
// search. They are the only place where particle coordinates are compared,
// so the sizing and fill passes cannot disagree about a pair.
//
// All kernels evaluate in float64 and convert every product explicitly, which
// keeps the compiler from contracting dx*dx + dy*dy into a fused
// multiply-add on some architectures and not others.
package vec

import "github.com/ajroetker/go-nnps/nnps"

// BaseL2SquaredDistance2D returns (x1-x0)² + (y1-y0)².
//
// Example:
//
//	d := BaseL2SquaredDistance2D(0, 0, 3, 4) // 25
func BaseL2SquaredDistance2D[T nnps.Floats](x0, y0, x1, y1 T) float64 {
	dx := float64(x1) - float64(x0)
	dy := float64(y1) - float64(y0)
	return float64(dx*dx) + float64(dy*dy)
}

// BaseWithinCutoff reports whether the two points are at most sqrt(h2)
// apart. The test is symmetric in its two points.
func BaseWithinCutoff[T nnps.Floats](x0, y0, x1, y1 T, h2 float64) bool {
	return BaseL2SquaredDistance2D(x0, y0, x1, y1) <= h2
}

// CountWithinCutoff counts the particles named by ids that lie within
// sqrt(h2) of (x, y), skipping the particle id skip. Pass skip < 0 to skip
// nothing.
func CountWithinCutoff[T nnps.Floats](xs, ys []T, ids []int32, x, y T, h2 float64, skip int32) int32 {
	var n int32
	for _, q := range ids {
		if q == skip {
			continue
		}
		if BaseWithinCutoff(x, y, xs[q], ys[q], h2) {
			n++
		}
	}
	return n
}

// WriteWithinCutoff writes the ids that CountWithinCutoff would count into
// dst, in ids order, and returns how many it found. Writes past len(dst) are
// dropped, so a result larger than len(dst) means the caller sized dst from a
// different traversal.
func WriteWithinCutoff[T nnps.Floats](dst []int32, xs, ys []T, ids []int32, x, y T, h2 float64, skip int32) int32 {
	var n int32
	for _, q := range ids {
		if q == skip {
			continue
		}
		if BaseWithinCutoff(x, y, xs[q], ys[q], h2) {
			if int(n) < len(dst) {
				dst[n] = q
			}
			n++
		}
	}
	return n
}
