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

// LiveDead counts a fragment variant's live and dead occurrences.
type LiveDead struct {
	Live uint64
	Dead uint64
}

func (ld *LiveDead) record(live bool) {
	if live {
		ld.Live++
	} else {
		ld.Dead++
	}
}

// CompactionStats accumulates counters over a page (reset by
// StartNewPage) or, for external reporting, over a whole run.
type CompactionStats struct {
	Partitions      uint64
	StaticRows      LiveDead
	ClusteringRows  LiveDead
	RangeTombstones uint64
}

// RecordStaticRow records a static row's liveness.
func (s *CompactionStats) RecordStaticRow(live bool) { s.StaticRows.record(live) }

// RecordClusteringRow records a clustering row's liveness.
func (s *CompactionStats) RecordClusteringRow(live bool) { s.ClusteringRows.record(live) }

// RecordRangeTombstone increments the range-tombstone-change counter.
func (s *CompactionStats) RecordRangeTombstone() { s.RangeTombstones++ }

// RecordPartition increments the partition counter.
func (s *CompactionStats) RecordPartition() { s.Partitions++ }

// Add accumulates o's counts into s, used to fold per-page stats into
// a run-wide total.
func (s *CompactionStats) Add(o CompactionStats) {
	s.Partitions += o.Partitions
	s.StaticRows.Live += o.StaticRows.Live
	s.StaticRows.Dead += o.StaticRows.Dead
	s.ClusteringRows.Live += o.ClusteringRows.Live
	s.ClusteringRows.Dead += o.ClusteringRows.Dead
	s.RangeTombstones += o.RangeTombstones
}
