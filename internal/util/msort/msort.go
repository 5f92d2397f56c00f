// Copyright 2026 The ScyllaDB Authors
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
//
// SPDX-License-Identifier: Apache-2.0

// Package msort contains utility functions for sorting and
// de-duplicating batches of clustering rows before they are fed into
// the compactor, which requires its input strictly ascending by
// Position.
package msort

import (
	"sort"

	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// UniqueByPosition implements a "last write wins" approach to
// collapsing clustering rows with duplicate Positions from an
// unordered batch (e.g. a snapshot scan that can observe the same
// clustered row more than once across overlapping SSTables). If two
// rows share the same Position, the one with the later marker
// timestamp is kept. Rows with identical positions and timestamps
// resolve to whichever was encountered last; the result is sorted
// ascending by Position, matching what ConsumeClusteringRow requires
// of its caller.
//
// The input slice is modified and its de-duplicated, sorted prefix is
// returned.
func UniqueByPosition(x []fragment.ClusteringRow) []fragment.ClusteringRow {
	sort.SliceStable(x, func(i, j int) bool {
		return x[i].Position.Less(x[j].Position)
	})

	dest := 0
	for src := 0; src < len(x); src++ {
		if dest > 0 && !x[dest-1].Position.Less(x[src].Position) {
			if x[src].Marker.Timestamp >= x[dest-1].Marker.Timestamp {
				x[dest-1] = x[src]
			}
			continue
		}
		x[dest] = x[src]
		dest++
	}
	return x[:dest]
}
