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

package fragment

// PartitionSlice describes the clustering-space selection a query
// wants out of each partition: how many rows per partition to return,
// whether that count is really "distinct" (meaning: cap at exactly
// one row per partition regardless of the declared limit), whether
// static columns must be returned even when no clustering row
// qualifies, and whether the slice selects any clustering columns at
// all (an all-static-columns query has no clustering selector).
type PartitionSlice struct {
	// PerPartitionLimit is the slice's own declared per-partition row
	// limit (independent of the query-wide row_limit).
	PerPartitionLimit int
	// Distinct requests "distinct" rows: only the first row per
	// partition matters, regardless of PerPartitionLimit.
	Distinct bool
	// ForceStaticColumns requests static columns even for partitions
	// with zero qualifying clustering rows (e.g. `SELECT s FROM t`
	// with no clustering restriction).
	ForceStaticColumns bool
	// HasClusteringSelector is false for slices that select no
	// clustering columns at all (a static-columns-only query), which
	// also implies static content should be returned for empty rows.
	HasClusteringSelector bool
}

// PartitionRowLimit is 1 if the slice requests distinct rows, else the
// slice's own declared per-partition limit.
func (s PartitionSlice) PartitionRowLimit() int {
	if s.Distinct {
		return 1
	}
	return s.PerPartitionLimit
}

// ReturnStaticContentOnEmptyRows reports whether the slice wants
// static content surfaced even when a partition has no qualifying
// clustering rows: true if the slice forces it, or if the row range
// has no clustering selector at all.
func (s PartitionSlice) ReturnStaticContentOnEmptyRows() bool {
	return s.ForceStaticColumns || !s.HasClusteringSelector
}

// FullSlice is the "no restriction" slice: unlimited per partition, not
// distinct, and static content is always wanted on empty rows (it has
// no clustering selector).
func FullSlice() PartitionSlice {
	return PartitionSlice{PerPartitionLimit: int(^uint(0) >> 1)}
}
