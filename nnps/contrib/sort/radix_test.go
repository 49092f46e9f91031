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

package sort

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/go-nnps/nnps/contrib/workerpool"
)

// pair is a (key, original position) record used to build reference results.
type pair struct {
	key int32
	id  int32
}

// referenceSort returns keys and ids sorted stably by key using the
// standard library.
func referenceSort(keys []int32) ([]int32, []int32) {
	pairs := make([]pair, len(keys))
	for i, k := range keys {
		pairs[i] = pair{k, int32(i)}
	}
	slices.SortStableFunc(pairs, func(a, b pair) int { return int(a.key) - int(b.key) })
	sk := make([]int32, len(keys))
	ids := make([]int32, len(keys))
	for i, p := range pairs {
		sk[i], ids[i] = p.key, p.id
	}
	return sk, ids
}

func identity(n int) []int32 {
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i)
	}
	return ids
}

func randomKeys(rng *rand.Rand, n int, maxKey int32) []int32 {
	keys := make([]int32, n)
	for i := range keys {
		keys[i] = rng.Int32N(maxKey)
	}
	return keys
}

func TestKeyBits(t *testing.T) {
	tests := []struct {
		maxKey int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{16, 4},
		{17, 5},
		{256, 8},
		{257, 9},
		{1 << 20, 20},
	}
	for _, tt := range tests {
		if got := KeyBits(tt.maxKey); got != tt.want {
			t.Errorf("KeyBits(%d) = %d, want %d", tt.maxKey, got, tt.want)
		}
	}
}

func TestRadixSortByKeyExample(t *testing.T) {
	keys := []int32{5, 1, 5, 0}
	ids := []int32{0, 1, 2, 3}
	RadixSortByKey(keys, ids, KeyBits(6))

	if diff := cmp.Diff([]int32{0, 1, 5, 5}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{3, 1, 0, 2}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestRadixSortByKeyEmptyAndSingle(t *testing.T) {
	RadixSortByKey[int32](nil, nil, 8)

	keys := []int32{7}
	ids := []int32{0}
	RadixSortByKey(keys, ids, 3)
	if keys[0] != 7 || ids[0] != 0 {
		t.Errorf("single element changed: keys=%v ids=%v", keys, ids)
	}
}

func TestRadixSortByKeyStable(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	sizes := []int{2, 7, 8, 63, 64, 100, 256, 1000, 5000}
	maxKeys := []int32{1, 2, 16, 255, 256, 1000, 70000, 1 << 24}
	for _, n := range sizes {
		for _, mk := range maxKeys {
			keys := randomKeys(rng, n, mk)
			wantKeys, wantIDs := referenceSort(keys)

			ids := identity(n)
			RadixSortByKey(keys, ids, KeyBits(int(mk)))

			if !IsSortedByKey(keys) {
				t.Fatalf("n=%d maxKey=%d: keys not sorted", n, mk)
			}
			if diff := cmp.Diff(wantKeys, keys); diff != "" {
				t.Fatalf("n=%d maxKey=%d: keys mismatch (-want +got):\n%s", n, mk, diff)
			}
			if diff := cmp.Diff(wantIDs, ids); diff != "" {
				t.Fatalf("n=%d maxKey=%d: not stable (-want +got):\n%s", n, mk, diff)
			}
		}
	}
}

func TestRadixSortByKeyAllEqual(t *testing.T) {
	keys := []int32{9, 9, 9, 9, 9}
	ids := identity(5)
	RadixSortByKey(keys, ids, 4)
	if diff := cmp.Diff(identity(5), ids); diff != "" {
		t.Errorf("equal keys reordered (-want +got):\n%s", diff)
	}
}

func TestRadixSortByKeyZeroBits(t *testing.T) {
	keys := []int32{0, 0, 0}
	ids := []int32{2, 0, 1}
	RadixSortByKey(keys, ids, 0)
	if diff := cmp.Diff([]int32{2, 0, 1}, ids); diff != "" {
		t.Errorf("zero-bit sort changed values (-want +got):\n%s", diff)
	}
}

func TestRadixSortByKeyLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched lengths")
		}
	}()
	RadixSortByKey([]int32{1, 2}, []int32{0}, 2)
}

func TestParallelRadixSortByKey(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	rng := rand.New(rand.NewPCG(13, 17))
	for _, n := range []int{3, 50, 1000, 4097} {
		for _, mk := range []int32{2, 300, 1 << 18} {
			keys := randomKeys(rng, n, mk)
			wantKeys, wantIDs := referenceSort(keys)

			s := NewSorter[int32](pool)
			s.threshold = 1 // force chunked passes
			ids := identity(n)
			s.Sort(keys, ids, KeyBits(int(mk)))

			if diff := cmp.Diff(wantKeys, keys); diff != "" {
				t.Fatalf("n=%d maxKey=%d: keys mismatch (-want +got):\n%s", n, mk, diff)
			}
			if diff := cmp.Diff(wantIDs, ids); diff != "" {
				t.Fatalf("n=%d maxKey=%d: values mismatch (-want +got):\n%s", n, mk, diff)
			}
		}
	}
}

func TestSorterReuse(t *testing.T) {
	s := NewSorter[int32](nil)
	rng := rand.New(rand.NewPCG(19, 23))
	for _, n := range []int{100, 10, 300} {
		keys := randomKeys(rng, n, 500)
		wantKeys, wantIDs := referenceSort(keys)
		ids := identity(n)
		s.Sort(keys, ids, KeyBits(500))
		if diff := cmp.Diff(wantKeys, keys); diff != "" {
			t.Fatalf("n=%d: keys mismatch (-want +got):\n%s", n, diff)
		}
		if diff := cmp.Diff(wantIDs, ids); diff != "" {
			t.Fatalf("n=%d: values mismatch (-want +got):\n%s", n, diff)
		}
	}
}
