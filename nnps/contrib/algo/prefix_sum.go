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

package algo

import "github.com/ajroetker/go-nnps/nnps"

// ExclusivePrefixSum writes the exclusive prefix sum of in to out and
// returns the total of all elements.
// out[0] = 0, out[i] = out[i-1] + in[i-1].
//
// in and out may be the same slice.
//
// Example:
//
//	in := []int32{1, 2, 3, 4}
//	out := make([]int32, 4)
//	total := ExclusivePrefixSum(in, out)
//	// out = [0, 1, 3, 6], total = 10
func ExclusivePrefixSum[T nnps.Integers | nnps.Floats](in, out []T) T {
	if len(out) < len(in) {
		panic("scan: output slice too short")
	}
	return exclusiveScan(in, out, 0)
}

// exclusiveScan scans in into out starting from carry and returns the
// carry after the last element.
func exclusiveScan[T nnps.Integers | nnps.Floats](in, out []T, carry T) T {
	out = out[:len(in)]
	for i, v := range in {
		out[i] = carry
		carry += v
	}
	return carry
}

// InclusivePrefixSum computes the inclusive prefix sum in place.
// Result[i] = data[0] + data[1] + ... + data[i]
//
// Example:
//
//	data := []int32{1, 2, 3, 4}
//	InclusivePrefixSum(data)
//	// data = [1, 3, 6, 10]
func InclusivePrefixSum[T nnps.Integers | nnps.Floats](data []T) {
	var carry T
	for i, v := range data {
		carry += v
		data[i] = carry
	}
}

// Sum64 returns the sum of data widened to int64.
func Sum64[T nnps.Integers](data []T) int64 {
	var s int64
	for _, v := range data {
		s += int64(v)
	}
	return s
}
