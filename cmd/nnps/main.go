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

// Command nnps builds neighbor lists for random particle sets and reports
// the grid binning and neighbor tables.
//
// Usage:
//
//	nnps run                                   # 20 particles, seed 123, h=3 on 10x10
//	nnps run --strategy counting --neighbors   # also print every neighbor list
//	nnps run --n 5000 --h 0.5 --verify         # check against all-pairs search
//	nnps bench --n 1000000 --steps 20 --metrics
//	nnps version
//
// Environment:
//
//	NNPS_NO_PARALLEL=1   run every pass serially
//	NNPS_WORKERS=n       default worker count
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
