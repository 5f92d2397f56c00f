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

package main

import (
	"time"

	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/util/msort"
)

// demoPartition is one partition's worth of hand-built fragments, fed
// through the compactor in place of a real source connection.
type demoPartition struct {
	key            fragment.DecoratedKey
	tombstone      fragment.Tombstone
	clusteringRows []fragment.ClusteringRow
}

// demoPartitions returns a small fixed fragment stream exercising a
// live row, a TTL-expired cell, and a row shadowed by a partition
// tombstone, so the demo binary's logs show all three code paths.
// Alice's rows are assembled out of order and with a stale duplicate,
// the way an unordered snapshot scan might observe them, then
// normalized with msort.UniqueByPosition before being handed to the
// compactor, which requires strictly ascending input.
func demoPartitions() []demoPartition {
	now := fragment.NewWallTime(time.Now())
	longAgo := fragment.NewWallTime(time.Now().Add(-48 * time.Hour))

	aliceRows := []fragment.ClusteringRow{
		{
			Position:     fragment.Key(fragment.ClusteringKey("2025")),
			RowTombstone: fragment.NoRowTombstone,
			Marker:       fragment.RowMarker{Timestamp: 200},
			Cells: fragment.Row{Cells: map[fragment.ColumnId]fragment.Cell{
				1: {Timestamp: 200, TTL: time.Hour, Expiry: longAgo, Value: []byte("stale")},
			}},
		},
		{
			Position:     fragment.Key(fragment.ClusteringKey("2024")),
			RowTombstone: fragment.NoRowTombstone,
			Marker:       fragment.RowMarker{Timestamp: 90},
			Cells: fragment.Row{Cells: map[fragment.ColumnId]fragment.Cell{
				1: {Timestamp: 90, Value: []byte("superseded")},
			}},
		},
		{
			Position:     fragment.Key(fragment.ClusteringKey("2024")),
			RowTombstone: fragment.NoRowTombstone,
			Marker:       fragment.RowMarker{Timestamp: 100},
			Cells: fragment.Row{Cells: map[fragment.ColumnId]fragment.Cell{
				1: {Timestamp: 100, Value: []byte("active")},
			}},
		},
	}

	return []demoPartition{
		{
			key:            fragment.DecoratedKey{Token: 1, RawKey: []byte("alice")},
			clusteringRows: msort.UniqueByPosition(aliceRows),
		},
		{
			key:       fragment.DecoratedKey{Token: 2, RawKey: []byte("bob")},
			tombstone: fragment.Tombstone{Timestamp: 500, DeletionTime: now},
			clusteringRows: []fragment.ClusteringRow{
				{
					Position:     fragment.Key(fragment.ClusteringKey("2023")),
					RowTombstone: fragment.NoRowTombstone,
					Marker:       fragment.RowMarker{Timestamp: 50},
					Cells: fragment.Row{Cells: map[fragment.ColumnId]fragment.Cell{
						1: {Timestamp: 50, Value: []byte("shadowed")},
					}},
				},
			},
		},
	}
}
