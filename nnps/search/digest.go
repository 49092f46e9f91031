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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/ajroetker/go-nnps/nnps"
)

// digestChunk is the number of int32 values encoded per hash write.
const digestChunk = 1024

// Digest returns a 64-bit fingerprint of the last successful rebuild: the
// particle keys, the binning triple and the neighbor tables. Rebuilding
// identical positions with the same configuration yields the same digest.
func (s *NNPS[T]) Digest() (uint64, error) {
	if s.closed {
		return 0, nnps.ErrClosed
	}
	if !s.built {
		return 0, nnps.ErrNotBuilt
	}
	d := xxhash.New()
	buf := make([]byte, 0, 4*digestChunk)
	for _, arr := range [][]int32{
		s.bins.Keys,
		s.bins.BinCounts,
		s.bins.StartIndices,
		s.bins.SortedIndices,
		s.list.Lengths,
		s.list.Starts,
		s.list.Indices,
	} {
		buf = binary.LittleEndian.AppendUint32(buf[:0], uint32(len(arr)))
		d.Write(buf)
		for len(arr) > 0 {
			n := min(len(arr), digestChunk)
			buf = buf[:0]
			for _, v := range arr[:n] {
				buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
			}
			d.Write(buf)
			arr = arr[n:]
		}
	}
	return d.Sum64(), nil
}
