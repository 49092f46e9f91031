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

package backend

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/go-nnps/nnps"
)

// newTestBackends returns a serial and a parallel backend, the latter with
// its threshold lowered so small inputs exercise the pool.
func newTestBackends(tb testing.TB) map[string]*Backend {
	tb.Helper()
	par := New(4)
	par.threshold = 1
	tb.Cleanup(par.Close)
	return map[string]*Backend{
		"serial":   Serial(),
		"parallel": par,
	}
}

func TestNewLevels(t *testing.T) {
	s := New(1)
	if s.Level() != nnps.DispatchSerial || s.Workers() != 1 || s.Pool() != nil {
		t.Errorf("New(1) = %v, want serial(1) without pool", s)
	}

	p := New(3)
	defer p.Close()
	if p.Level() != nnps.DispatchParallel || p.Workers() != 3 {
		t.Errorf("New(3) = %v, want parallel(3)", p)
	}
	if p.String() != "parallel(3)" {
		t.Errorf("String() = %q, want %q", p.String(), "parallel(3)")
	}
}

func TestElementwise(t *testing.T) {
	for name, b := range newTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			n := 1000
			out := make([]int, n)
			b.Elementwise(n, func(i int) { out[i] = i * i })
			for i, v := range out {
				if v != i*i {
					t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
				}
			}
		})
	}
}

func TestElementwiseBalanced(t *testing.T) {
	for name, b := range newTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			n := 1003
			hits := make([]int32, n)
			b.ElementwiseBalanced(n, 16, func(start, end int) {
				if end-start > 16 && b.Level() == nnps.DispatchParallel {
					t.Errorf("batch [%d,%d) larger than 16", start, end)
				}
				for i := start; i < end; i++ {
					AtomicIncrement(&hits[i])
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times", i, h)
				}
			}
		})
	}
}

func TestElementwiseErr(t *testing.T) {
	errBoom := errors.New("boom")
	for name, b := range newTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			n := 500
			visited := make([]bool, n)
			err := b.ElementwiseErr(n, func(start, end int) error {
				for i := start; i < end; i++ {
					visited[i] = true
					if i == 321 {
						return errBoom
					}
				}
				return nil
			})
			if !errors.Is(err, errBoom) {
				t.Fatalf("err = %v, want %v", err, errBoom)
			}

			if err := b.ElementwiseErr(n, func(int, int) error { return nil }); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := b.ElementwiseErr(0, func(int, int) error { return errBoom }); err != nil {
				t.Fatalf("n=0 should not call fn, got %v", err)
			}
		})
	}
}

// TestElementwiseErrUsesPool checks that failing-capable passes run on the
// pool's persistent workers and report the lowest failing range.
func TestElementwiseErrUsesPool(t *testing.T) {
	b := New(4)
	b.threshold = 1
	defer b.Close()

	baseline := runtime.NumGoroutine()
	var peak atomic.Int32
	n := 4000
	err := b.ElementwiseErr(n, func(start, end int) error {
		for {
			cur, g := peak.Load(), int32(runtime.NumGoroutine())
			if g <= cur || peak.CompareAndSwap(cur, g) {
				break
			}
		}
		return fmt.Errorf("range [%d,%d)", start, end)
	})
	if got := int(peak.Load()); got > baseline {
		t.Errorf("goroutines rose from %d to %d during ElementwiseErr", baseline, got)
	}
	if err == nil || !strings.HasPrefix(err.Error(), "range [0,") {
		t.Errorf("err = %v, want the first range's error", err)
	}
}

func TestScan(t *testing.T) {
	for name, b := range newTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			in := []int32{0, 2, 3, 0, 2, 4, 2, 1, 1, 2, 2, 0, 0, 1, 0, 0}
			out := make([]int32, len(in))
			total, err := b.Scan(in, out)
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			want := []int32{0, 0, 2, 5, 5, 7, 11, 13, 14, 15, 17, 19, 19, 19, 20, 20}
			if diff := cmp.Diff(want, out); diff != "" {
				t.Errorf("Scan mismatch (-want +got):\n%s", diff)
			}
			if total != 20 {
				t.Errorf("total = %d, want 20", total)
			}
		})
	}
}

func TestScanOverflow(t *testing.T) {
	b := Serial()
	in := []int32{math.MaxInt32, 1}
	_, err := b.Scan(in, make([]int32, 2))
	if !errors.Is(err, nnps.ErrCountOverflow) {
		t.Fatalf("err = %v, want ErrCountOverflow", err)
	}
}

func TestSortByKey(t *testing.T) {
	for name, b := range newTestBackends(t) {
		t.Run(name, func(t *testing.T) {
			keys := []int32{10, 2, 2, 6, 10, 5}
			ids := []int32{0, 1, 2, 3, 4, 5}
			b.SortByKey(keys, ids, 4)
			if diff := cmp.Diff([]int32{2, 2, 5, 6, 10, 10}, keys); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]int32{1, 2, 5, 3, 0, 4}, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestAtomicIncrementDistinctRanks hammers one counter from many goroutines
// and checks every caller received a distinct previous value.
func TestAtomicIncrementDistinctRanks(t *testing.T) {
	const goroutines, perG = 16, 1000
	var counter int32
	ranks := make([][]int32, goroutines)

	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perG {
				ranks[g] = append(ranks[g], AtomicIncrement(&counter))
			}
		}()
	}
	wg.Wait()

	all := slices.Concat(ranks...)
	slices.Sort(all)
	for i, r := range all {
		if r != int32(i) {
			t.Fatalf("rank %d = %d: duplicate or missing rank", i, r)
		}
	}
	if counter != goroutines*perG {
		t.Errorf("counter = %d, want %d", counter, goroutines*perG)
	}
}
