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

// Package algo provides the scan and reduction primitives used by the
// neighbor search.
//
// # Scan API
//
// Exclusive prefix sums turn per-bucket counts into starting offsets:
//
//	counts := []int32{2, 0, 3, 1}
//	starts := make([]int32, len(counts))
//	total := algo.ExclusivePrefixSum(counts, starts)
//	// starts = [0, 2, 2, 5], total = 6
//
// The parallel forms split the input into one contiguous chunk per worker,
// scan the chunk totals serially and then scan every chunk with its carry.
// They produce exactly the same output as the sequential forms.
//
//   - ExclusivePrefixSum, InclusivePrefixSum: sequential, in place allowed
//   - ParallelExclusivePrefixSum: blocked two-level scan on a workerpool.Pool
//   - Sum64, ParallelSum64: widening reductions used for overflow checks
package algo
