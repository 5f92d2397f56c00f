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

package compactor

import (
	"time"

	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/schema"
)

// kindPartitionTombstone tags a ConsumeTombstone call; it reuses
// fragment.Kind's numeric space at a value the five real variants
// never take, so countKind can distinguish it from ConsumeNewPartition.
const kindPartitionTombstone fragment.Kind = 200

// event is one call recorded by a fakeConsumer, tagged by its kind so
// tests can assert on the exact call sequence a partition produced.
type event struct {
	kind      fragment.Kind
	key       fragment.DecoratedKey
	tombstone fragment.Tombstone
	row       fragment.ClusteringRow
	static    fragment.StaticRow
	effective fragment.RowTombstone
	isLive    bool
	rtc       fragment.RangeTombstoneChange
}

// fakeConsumer records every call it receives in order and can be
// told to return Stop after a fixed number of clustering rows, for
// exercising the paged-limit scenarios. It satisfies both MainConsumer
// and GCConsumer, since their method sets are identical.
type fakeConsumer struct {
	events     []event
	stopAfter  int
	rowsServed int
}

func (f *fakeConsumer) ConsumeNewPartition(dk fragment.DecoratedKey) {
	f.events = append(f.events, event{kind: fragment.KindPartitionStart, key: dk})
}

func (f *fakeConsumer) ConsumeTombstone(t fragment.Tombstone) {
	f.events = append(f.events, event{kind: kindPartitionTombstone, tombstone: t})
}

func (f *fakeConsumer) ConsumeStaticRow(sr fragment.StaticRow, effective fragment.RowTombstone, isLive bool) StopIteration {
	f.events = append(f.events, event{kind: fragment.KindStaticRow, static: sr, effective: effective, isLive: isLive})
	return Continue
}

func (f *fakeConsumer) ConsumeClusteringRow(cr fragment.ClusteringRow, effective fragment.RowTombstone, isLive bool) StopIteration {
	f.events = append(f.events, event{kind: fragment.KindClusteringRow, row: cr, effective: effective, isLive: isLive})
	f.rowsServed++
	if f.stopAfter > 0 && f.rowsServed >= f.stopAfter {
		return Stop
	}
	return Continue
}

func (f *fakeConsumer) ConsumeRangeTombstoneChange(rtc fragment.RangeTombstoneChange) StopIteration {
	f.events = append(f.events, event{kind: fragment.KindRangeTombstoneChange, rtc: rtc})
	return Continue
}

func (f *fakeConsumer) ConsumeEndOfPartition() StopIteration {
	f.events = append(f.events, event{kind: fragment.KindPartitionEnd})
	return Continue
}

func (f *fakeConsumer) ConsumeEndOfStream() error { return nil }

// clusteringRows returns every recorded clustering-row event, in order.
func (f *fakeConsumer) clusteringRows() []event {
	var out []event
	for _, e := range f.events {
		if e.kind == fragment.KindClusteringRow {
			out = append(out, e)
		}
	}
	return out
}

// countKind returns how many recorded events have the given kind.
func (f *fakeConsumer) countKind(k fragment.Kind) int {
	n := 0
	for _, e := range f.events {
		if e.kind == k {
			n++
		}
	}
	return n
}

// fakeSchema is a minimal schema.Schema for tests that never load a
// real metadata store.
type fakeSchema struct {
	grace time.Duration
}

func (s fakeSchema) ColumnAt(fragment.ColumnKind, fragment.ColumnId) (schema.ColumnDef, bool) {
	return schema.ColumnDef{}, false
}

func (s fakeSchema) SharedSelfHandle() schema.Schema { return s }

func (s fakeSchema) FullSlice() fragment.PartitionSlice {
	full := fragment.FullSlice()
	full.HasClusteringSelector = true
	return full
}

func (s fakeSchema) GCGraceSeconds() time.Duration { return s.grace }
