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

package nnps

import (
	"os"
	"runtime"
	"strconv"
)

// DispatchLevel represents how data-parallel kernels are executed.
type DispatchLevel int

const (
	// DispatchSerial runs every kernel on the calling goroutine.
	DispatchSerial DispatchLevel = iota

	// DispatchParallel runs kernels on a persistent worker pool.
	DispatchParallel
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchSerial:
		return "serial"
	case DispatchParallel:
		return "parallel"
	default:
		return "unknown"
	}
}

// currentLevel is the detected dispatch level for this runtime.
// Set by init().
var currentLevel DispatchLevel

// currentWorkers is the default worker count. Set by init().
var currentWorkers int

// hasAtomics reports native fetch-and-add instructions.
// Set by init() in dispatch_*.go files.
var hasAtomics bool

func init() {
	currentWorkers = workersFromEnv()
	if NoParallelEnv() || currentWorkers == 1 {
		currentLevel = DispatchSerial
		currentWorkers = 1
		return
	}
	currentLevel = DispatchParallel
}

// CurrentLevel returns the default dispatch level.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentName returns a human-readable name for the default dispatch level,
// for example "parallel" or "serial".
func CurrentName() string {
	return currentLevel.String()
}

// DefaultWorkers returns the worker count used when none is configured.
// It is 1 for the serial level, NNPS_WORKERS when set, GOMAXPROCS otherwise.
func DefaultWorkers() int {
	return currentWorkers
}

// HasAtomics reports whether the CPU provides single-instruction atomic
// fetch-and-add. sync/atomic is correct either way; without native support
// the runtime falls back to a load-linked/store-conditional loop.
func HasAtomics() bool {
	return hasAtomics
}

// NoParallelEnv checks if the NNPS_NO_PARALLEL environment variable is set.
// When set, kernels run serially regardless of the number of CPUs.
// This is useful for testing and debugging.
func NoParallelEnv() bool {
	val := os.Getenv("NNPS_NO_PARALLEL")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// workersFromEnv reads NNPS_WORKERS, ignoring malformed or non-positive
// values.
func workersFromEnv() int {
	if val := os.Getenv("NNPS_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return runtime.GOMAXPROCS(0)
}
