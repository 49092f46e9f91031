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
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage label values.
const (
	stageBin       = "bin"
	stageNeighbors = "neighbors"
)

// metrics hold bounded-cardinality collectors: the only label is the stage.
type metrics struct {
	duration  *prometheus.HistogramVec
	failures  *prometheus.CounterVec
	total     prometheus.Gauge
	particles prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nnps_build_duration_seconds",
			Help:    "Time spent in one rebuild stage",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"stage"})),
		failures: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nnps_rebuild_failures_total",
			Help: "Rebuild stages that returned an error",
		}, []string{"stage"})),
		total: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nnps_total_neighbors",
			Help: "Neighbor pairs found by the last successful enumeration",
		})),
		particles: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nnps_particles",
			Help: "Number of particles in the search",
		})),
	}
}

// register registers c with reg, returning the collector already registered
// under the same descriptor if there is one. A nil reg leaves c unregistered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
