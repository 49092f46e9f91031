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
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-nnps/nnps/binning"
)

type rootOptions struct {
	verbose bool
	workers int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "nnps",
		Short:         "Uniform-grid nearest-neighbor particle search",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every rebuild stage")
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "parallel workers (0: NNPS_WORKERS or GOMAXPROCS, 1: serial)")

	cmd.AddCommand(newRunCmd(opts), newBenchCmd(opts), newVersionCmd())
	return cmd
}

// logger returns a text logger on the command's stderr.
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// domainOptions are the search parameters shared by run and bench.
type domainOptions struct {
	h          float64
	xmax, ymax float64
	strategy   string
}

func (d *domainOptions) addFlags(f *pflag.FlagSet, h, extent float64) {
	f.Float64Var(&d.h, "h", h, "cutoff radius and grid cell size")
	f.Float64Var(&d.xmax, "xmax", extent, "domain extent in x")
	f.Float64Var(&d.ymax, "ymax", extent, "domain extent in y")
	f.StringVar(&d.strategy, "strategy", binning.KindRadix.String(), "bucket sort: radix or counting")
}
