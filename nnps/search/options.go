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

package search

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajroetker/go-nnps/nnps/backend"
	"github.com/ajroetker/go-nnps/nnps/binning"
)

// Option is a functional option for configuring a search.
type Option func(*config)

type config struct {
	kind            binning.Kind
	workers         int
	backend         *backend.Backend
	logger          *slog.Logger
	registerer      prometheus.Registerer
	includeSelf     bool
	initialCapacity int
}

func defaultConfig() *config {
	return &config{
		kind:            binning.KindRadix,
		initialCapacity: -1, // twice the particle count
	}
}

// WithStrategy selects the bucket sort. The default is binning.KindRadix.
func WithStrategy(kind binning.Kind) Option {
	return func(c *config) {
		c.kind = kind
	}
}

// WithWorkers sets the number of parallel workers. 0 uses
// nnps.DefaultWorkers(), which honors NNPS_WORKERS and NNPS_NO_PARALLEL;
// 1 runs every pass serially. Ignored when WithBackend is given.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithBackend runs the search on be. The caller keeps ownership: Close does
// not close be. A backend must not serve two rebuilds at once.
func WithBackend(be *backend.Backend) Option {
	return func(c *config) {
		c.backend = be
	}
}

// WithLogger sets the logger receiving per-stage debug records and
// failure warnings. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithRegisterer registers the search's metrics with reg. Searches sharing
// a registerer share the collectors.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithSelfNeighbors lists every particle as its own neighbor.
func WithSelfNeighbors(include bool) Option {
	return func(c *config) {
		c.includeSelf = include
	}
}

// WithInitialCapacity preallocates the neighbor index buffer for n ids.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		c.initialCapacity = n
	}
}
