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

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/ajroetker/go-nnps/nnps/contrib/workerpool"
)

func BenchmarkExclusivePrefixSum(b *testing.B) {
	pool := workerpool.New(runtime.GOMAXPROCS(0))
	defer pool.Close()

	for _, n := range []int{1 << 10, 1 << 16, 1 << 20} {
		in := make([]int32, n)
		for i := range in {
			in[i] = int32(i % 7)
		}
		out := make([]int32, n)

		b.Run(fmt.Sprintf("serial/%d", n), func(b *testing.B) {
			b.SetBytes(int64(n) * 4)
			for b.Loop() {
				ExclusivePrefixSum(in, out)
			}
		})
		b.Run(fmt.Sprintf("parallel/%d", n), func(b *testing.B) {
			b.SetBytes(int64(n) * 4)
			for b.Loop() {
				ParallelExclusivePrefixSum(pool, in, out)
			}
		})
	}
}
