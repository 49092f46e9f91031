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
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-nnps/nnps/binning"
	"github.com/ajroetker/go-nnps/nnps/search"
)

type benchOptions struct {
	domainOptions
	n       int
	steps   int
	seed    uint64
	jitter  float64
	metrics bool
}

func newBenchCmd(root *rootOptions) *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time repeated rebuilds of a moving particle set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.n, "n", "n", 100000, "number of particles")
	f.IntVar(&opts.steps, "steps", 10, "number of timesteps")
	f.Uint64Var(&opts.seed, "seed", 1, "random seed")
	opts.addFlags(f, 1, 300)
	f.Float64Var(&opts.jitter, "jitter", 0.1, "largest per-step move, as a fraction of h")
	f.BoolVar(&opts.metrics, "metrics", false, "print the collected metrics in Prometheus text format")
	return cmd
}

func runBench(cmd *cobra.Command, root *rootOptions, opts *benchOptions) error {
	kind, err := binning.ParseKind(opts.strategy)
	if err != nil {
		return err
	}
	if opts.n < 0 || opts.steps < 1 {
		return fmt.Errorf("--n must not be negative and --steps must be positive, got %d and %d", opts.n, opts.steps)
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x5851f42d4c957f2d))
	xs := make([]float64, opts.n)
	ys := make([]float64, opts.n)
	for i := range xs {
		xs[i] = rng.Float64() * opts.xmax
		ys[i] = rng.Float64() * opts.ymax
	}

	reg := prometheus.NewRegistry()
	s, err := search.New(xs, ys, opts.h, opts.xmax, opts.ymax,
		search.WithStrategy(kind),
		search.WithWorkers(root.workers),
		search.WithRegisterer(reg),
		search.WithLogger(root.logger(cmd)))
	if err != nil {
		return err
	}
	defer s.Close()

	step := opts.jitter * opts.h
	var total, fastest time.Duration
	for i := range opts.steps {
		if i > 0 {
			for p := range xs {
				xs[p] = clamp(xs[p]+step*(2*rng.Float64()-1), opts.xmax)
				ys[p] = clamp(ys[p]+step*(2*rng.Float64()-1), opts.ymax)
			}
		}
		start := time.Now()
		if err := s.Rebuild(); err != nil {
			return err
		}
		elapsed := time.Since(start)
		total += elapsed
		if i == 0 || elapsed < fastest {
			fastest = elapsed
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "strategy=%s backend=%s particles=%d cells=%d steps=%d\n",
		kind, s.Backend(), opts.n, s.Grid().MaxKey(), opts.steps)
	fmt.Fprintf(out, "rebuild mean=%v min=%v total_neighbors=%d\n",
		total/time.Duration(opts.steps), fastest, s.TotalNeighbors())

	if opts.metrics {
		mfs, err := reg.Gather()
		if err != nil {
			return err
		}
		enc := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				return err
			}
		}
	}
	return nil
}

// clamp keeps a coordinate inside [0, hi].
func clamp(v, hi float64) float64 {
	return min(max(v, 0), hi)
}
