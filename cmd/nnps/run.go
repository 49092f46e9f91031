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

package main

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/binning"
	"github.com/ajroetker/go-nnps/nnps/contrib/vec"
	"github.com/ajroetker/go-nnps/nnps/search"
)

type runOptions struct {
	domainOptions
	n         int
	seed      uint32
	self      bool
	verify    bool
	neighbors bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bin one random particle set and print its neighbor tables",
		Long: `Run draws n particles uniformly from [0,xmax)x[0,ymax) (all x coordinates
first, then all y coordinates) from a Mersenne Twister, rebuilds the neighbor
search once and prints the start indices, bin counts and neighbor lengths.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.n, "n", "n", 20, "number of particles")
	f.Uint32Var(&opts.seed, "seed", 123, "random seed")
	opts.addFlags(f, 3, 10)
	f.BoolVar(&opts.self, "self", false, "list every particle as its own neighbor")
	f.BoolVar(&opts.verify, "verify", false, "check the result against an all-pairs search")
	f.BoolVar(&opts.neighbors, "neighbors", false, "print every particle's neighbor list")
	return cmd
}

func runSearch(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	kind, err := binning.ParseKind(opts.strategy)
	if err != nil {
		return err
	}
	if opts.n < 0 {
		return fmt.Errorf("--n must not be negative, got %d", opts.n)
	}

	rng := newMT19937(opts.seed)
	xs := rng.uniform32(opts.n, opts.xmax)
	ys := rng.uniform32(opts.n, opts.ymax)

	s, err := search.New(xs, ys, opts.h, opts.xmax, opts.ymax,
		search.WithStrategy(kind),
		search.WithWorkers(root.workers),
		search.WithSelfNeighbors(opts.self),
		search.WithLogger(root.logger(cmd)))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Rebuild(); err != nil {
		return err
	}
	b := s.Binning()
	l, err := s.Neighbors()
	if err != nil {
		return err
	}
	digest, err := s.Digest()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "start_indices:", b.StartIndices)
	fmt.Fprintln(out, "bin_counts:", b.BinCounts)
	fmt.Fprintln(out, "nbr_lengths:", l.Lengths)
	fmt.Fprintln(out, "total_neighbors:", l.Total())
	fmt.Fprintf(out, "digest: %016x\n", digest)

	if opts.neighbors {
		for p := range opts.n {
			fmt.Fprintf(out, "%d: %v\n", p, l.Of(p))
		}
	}
	if opts.verify {
		if err := binning.Check(b, s.Grid(), xs, ys); err != nil {
			return err
		}
		if err := verifyAllPairs(cmd.Context(), s, xs, ys, opts.h, opts.self); err != nil {
			return err
		}
		fmt.Fprintln(out, "verify: ok")
	}
	return nil
}

// verifyAllPairs compares every neighbor list with an O(N²) search, spread
// over GOMAXPROCS goroutines. The first mismatch stops the remaining work.
func verifyAllPairs(ctx context.Context, s *search.NNPS[float32], xs, ys []float32, h float64, self bool) error {
	h2 := h * h
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(xs) + workers - 1) / max(workers, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(xs); start += chunk {
		end := min(start+chunk, len(xs))
		g.Go(func() error {
			want := make([]int32, 0, 64)
			for p := start; p < end; p++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				want = want[:0]
				for q := range xs {
					if p == q && !self {
						continue
					}
					if vec.BaseWithinCutoff(xs[p], ys[p], xs[q], ys[q], h2) {
						want = append(want, int32(q))
					}
				}
				got := slices.Sorted(slices.Values(s.NeighborsOf(p)))
				if !slices.Equal(got, want) {
					return fmt.Errorf("particle %d: grid search found %v, all-pairs found %v: %w",
						p, got, want, nnps.ErrNeighborMismatch)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
