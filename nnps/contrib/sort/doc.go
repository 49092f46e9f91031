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

// Package sort provides a stable LSD radix sort-by-key for bounded,
// non-negative int32 keys such as grid cell ids.
//
// # Algorithm
//
// Keys are processed in 8-bit digits from least to most significant. Each
// pass is a counting sort:
//   - histogram the current digit
//   - exclusive prefix sum over the 256 buckets
//   - scatter (key, value) pairs to their bucket offsets in input order
//
// Only ceil(keyBits/8) passes run, so sorting cell ids of a grid with
// maxKey cells costs passes proportional to log2(maxKey), not to the key
// width. Passes whose digit is identical for every key are skipped.
//
// The parallel form gives each worker chunk its own histogram and scans the
// (digit, chunk) counts in digit-major order, which keeps the scatter
// stable.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-nnps/nnps/contrib/sort"
//
//	keys := []int32{5, 1, 5, 0}
//	ids := []int32{0, 1, 2, 3}
//	sort.RadixSortByKey(keys, ids, sort.KeyBits(6))
//	// keys = [0, 1, 5, 5], ids = [3, 1, 0, 2]
package sort
