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

import "errors"

// Configuration errors, returned when a grid or search is constructed.
var (
	ErrInvalidCutoff   = errors.New("nnps: cutoff radius must be positive and finite")
	ErrInvalidDomain   = errors.New("nnps: domain extents must be positive and finite")
	ErrKeyOverflow     = errors.New("nnps: cell key range exceeds int32")
	ErrUnknownStrategy = errors.New("nnps: unknown bucket sort strategy")
)

// Rebuild errors. Any of these aborts the rebuild; no partial result is
// published.
var (
	ErrLengthMismatch   = errors.New("nnps: position arrays have mismatched lengths")
	ErrOutOfDomain      = errors.New("nnps: particle position outside the grid domain")
	ErrCountOverflow    = errors.New("nnps: neighbor count exceeds int32")
	ErrNeighborMismatch = errors.New("nnps: fill pass disagrees with sizing pass")
	ErrBinningMismatch  = errors.New("nnps: binning is inconsistent with particle keys")
)

// State errors.
var (
	ErrNotBuilt = errors.New("nnps: neighbors requested before a successful build")
	ErrClosed   = errors.New("nnps: search is closed")
)
