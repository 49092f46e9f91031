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

// Package search is the neighbor search facade. An NNPS owns the grid, the
// binning buffers and the neighbor list for one set of particles and
// rebuilds them every timestep:
//
//	s, err := search.New(xs, ys, h, xmax, ymax, search.WithStrategy(binning.KindCounting))
//	if err != nil { ... }
//	defer s.Close()
//	for step := range steps {
//	    advance(xs, ys)
//	    if err := s.Rebuild(); err != nil { ... }
//	    for p := range xs {
//	        for _, q := range s.NeighborsOf(p) { ... }
//	    }
//	}
//
// A rebuild either succeeds completely or leaves no neighbor list published.
// An NNPS is not safe for concurrent use.
package search

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ajroetker/go-nnps/nnps"
	"github.com/ajroetker/go-nnps/nnps/backend"
	"github.com/ajroetker/go-nnps/nnps/binning"
	"github.com/ajroetker/go-nnps/nnps/grid"
	"github.com/ajroetker/go-nnps/nnps/neighbors"
)

// NNPS is a uniform-grid nearest-neighbor particle search.
type NNPS[T nnps.Floats] struct {
	xs, ys []T

	grid        *grid.Grid
	be          *backend.Backend
	ownsBackend bool
	kind        binning.Kind
	strategy    binning.Strategy[T]
	enum        *neighbors.Enumerator[T]

	bins binning.Binning
	list neighbors.List

	binned bool // bins matches the current positions
	built  bool // list matches bins
	closed bool

	log *slog.Logger
	m   *metrics
}

// New returns a search over the particles at xs, ys with cutoff radius h
// on the domain [0,xmax]×[0,ymax]. The search reads the position slices on
// every rebuild; it does not copy them.
func New[T nnps.Floats](xs, ys []T, h, xmax, ymax float64, opts ...Option) (*NNPS[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("len(x)=%d len(y)=%d: %w", len(xs), len(ys), nnps.ErrLengthMismatch)
	}
	g, err := grid.New(h, xmax, ymax)
	if err != nil {
		return nil, err
	}

	be, owns := cfg.backend, false
	if be == nil {
		be, owns = backend.New(cfg.workers), true
	}
	strategy, err := binning.New[T](cfg.kind, be)
	if err != nil {
		if owns {
			be.Close()
		}
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &NNPS[T]{
		xs:          xs,
		ys:          ys,
		grid:        g,
		be:          be,
		ownsBackend: owns,
		kind:        cfg.kind,
		strategy:    strategy,
		enum: neighbors.New[T](be,
			neighbors.WithSelf(cfg.includeSelf),
			neighbors.WithInitialCapacity(cfg.initialCapacity)),
		log: logger,
		m:   newMetrics(cfg.registerer),
	}
	s.bins.Resize(len(xs), g.MaxKey())
	s.m.particles.Set(float64(len(xs)))
	return s, nil
}

// Build bins the particles at their current positions. It invalidates the
// neighbor list until GetNeighbors runs.
func (s *NNPS[T]) Build() error {
	if s.closed {
		return nnps.ErrClosed
	}
	s.binned, s.built = false, false
	s.list.Reset()

	start := time.Now()
	if err := s.strategy.Bin(s.grid, s.xs, s.ys, &s.bins); err != nil {
		return s.fail(stageBin, err)
	}
	elapsed := time.Since(start)
	s.m.duration.WithLabelValues(stageBin).Observe(elapsed.Seconds())
	s.binned = true

	s.log.Debug("nnps: build",
		"strategy", s.strategy.Name(),
		"particles", len(s.xs),
		"cells", s.grid.MaxKey(),
		"elapsed", elapsed)
	return nil
}

// GetNeighbors enumerates the neighbors of every particle from the current
// binning. It returns nnps.ErrNotBuilt when Build has not succeeded since
// the last change of positions or domain.
func (s *NNPS[T]) GetNeighbors() error {
	if s.closed {
		return nnps.ErrClosed
	}
	if !s.binned {
		return nnps.ErrNotBuilt
	}
	s.built = false

	start := time.Now()
	if err := s.enum.Enumerate(s.grid, &s.bins, s.xs, s.ys, &s.list); err != nil {
		s.list.Reset()
		return s.fail(stageNeighbors, err)
	}
	elapsed := time.Since(start)
	s.m.duration.WithLabelValues(stageNeighbors).Observe(elapsed.Seconds())
	s.m.total.Set(float64(s.list.Total()))
	s.built = true

	s.log.Debug("nnps: neighbors",
		"strategy", s.strategy.Name(),
		"particles", len(s.xs),
		"cells", s.grid.MaxKey(),
		"total_neighbors", s.list.Total(),
		"elapsed", elapsed)
	return nil
}

// Rebuild runs Build then GetNeighbors.
func (s *NNPS[T]) Rebuild() error {
	if err := s.Build(); err != nil {
		return err
	}
	return s.GetNeighbors()
}

func (s *NNPS[T]) fail(stage string, err error) error {
	s.m.failures.WithLabelValues(stage).Inc()
	s.log.Warn("nnps: rebuild failed",
		"stage", stage,
		"strategy", s.strategy.Name(),
		"particles", len(s.xs),
		"err", err)
	return err
}

// Update replaces the position slices read by the next rebuild. The particle
// count is fixed at construction.
func (s *NNPS[T]) Update(xs, ys []T) error {
	if s.closed {
		return nnps.ErrClosed
	}
	if len(xs) != len(s.xs) || len(ys) != len(s.xs) {
		return fmt.Errorf("update with len(x)=%d len(y)=%d for %d particles: %w",
			len(xs), len(ys), len(s.xs), nnps.ErrLengthMismatch)
	}
	s.xs, s.ys = xs, ys
	s.invalidate()
	return nil
}

// Resize changes the domain extents, keeping the cutoff radius. On error
// the previous domain stays in effect.
func (s *NNPS[T]) Resize(xmax, ymax float64) error {
	if s.closed {
		return nnps.ErrClosed
	}
	if err := s.grid.Resize(xmax, ymax); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// invalidate drops results computed for previous positions or domains.
func (s *NNPS[T]) invalidate() {
	s.binned, s.built = false, false
	s.list.Reset()
}

// Close releases the worker pool when the search owns it. Close is
// idempotent; every other method fails with nnps.ErrClosed afterwards.
func (s *NNPS[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.invalidate()
	if s.ownsBackend {
		s.be.Close()
	}
}

// Binning returns the binning of the last successful Build, or nil when
// there is none.
func (s *NNPS[T]) Binning() *binning.Binning {
	if !s.binned {
		return nil
	}
	return &s.bins
}

// Neighbors returns the neighbor list of the last successful rebuild. The
// list is overwritten by the next rebuild.
func (s *NNPS[T]) Neighbors() (*neighbors.List, error) {
	if s.closed {
		return nil, nnps.ErrClosed
	}
	if !s.built {
		return nil, nnps.ErrNotBuilt
	}
	return &s.list, nil
}

// NeighborsOf returns the neighbors of particle p, or nil when no neighbor
// list is available.
func (s *NNPS[T]) NeighborsOf(p int) []int32 {
	if !s.built {
		return nil
	}
	return s.list.Of(p)
}

// TotalNeighbors returns the length of the flat neighbor buffer, 0 when no
// neighbor list is available.
func (s *NNPS[T]) TotalNeighbors() int32 {
	if !s.built {
		return 0
	}
	return s.list.Total()
}

// NumParticles returns the particle count fixed at construction.
func (s *NNPS[T]) NumParticles() int { return len(s.xs) }

// Grid returns the spatial hash grid.
func (s *NNPS[T]) Grid() *grid.Grid { return s.grid }

// Strategy returns the bucket sort in use.
func (s *NNPS[T]) Strategy() binning.Kind { return s.kind }

// Backend returns the backend running the passes.
func (s *NNPS[T]) Backend() *backend.Backend { return s.be }
