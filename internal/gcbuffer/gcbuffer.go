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

// Package gcbuffer accumulates the garbage a single row sheds during
// compact_and_expire so the compactor can hand it to the GC consumer
// as a synthetic dead row. It is scoped to one row at a time and reset
// every time it is drained, which is why the compactor allocates
// exactly one buffer at construction and reuses it for the whole run.
package gcbuffer

import "github.com/scylladb/mutation-compactor/internal/fragment"

// rowKind distinguishes which row shape the buffer is currently
// collecting into, so Consume* knows which Fragment to synthesize.
type rowKind uint8

const (
	rowKindNone rowKind = iota
	rowKindStatic
	rowKindClustering
)

// Buffer is a single-row-scoped scratch area for garbage collected
// during compact_and_expire. Nothing is allocated per collected item;
// the Row map is reused across rows until a Consume* call hands it to
// its sink, after which the sink owns it and the buffer starts a new
// map.
type Buffer struct {
	kind     rowKind
	position fragment.Position
	tomb     fragment.RowTombstone
	cells    fragment.Row
}

// New returns an empty buffer, ready for StartCollecting*.
func New() *Buffer {
	return &Buffer{cells: fragment.NewRow()}
}

// StartCollectingStaticRow begins a static-row collection. Any prior,
// undrained collection is discarded: the compactor always drains
// before moving to the next row.
func (b *Buffer) StartCollectingStaticRow() {
	b.reset()
	b.kind = rowKindStatic
}

// StartCollectingClusteringRow begins a clustering-row collection at
// the given position.
func (b *Buffer) StartCollectingClusteringRow(pos fragment.Position) {
	b.reset()
	b.kind = rowKindClustering
	b.position = pos
}

// Collecting reports whether a collection is currently open.
func (b *Buffer) Collecting() bool { return b.kind != rowKindNone }

// CollectTombstone records a row tombstone that was stripped from the
// live row because it was judged purgeable.
func (b *Buffer) CollectTombstone(t fragment.RowTombstone) {
	b.tomb = fragment.RowTombstone{
		Regular:    fragment.Max(b.tomb.Regular, t.Regular),
		Shadowable: fragment.Max(b.tomb.Shadowable, t.Shadowable),
	}
}

// CollectCell records a cell or collection-mutation delta (the two
// share a representation; see fragment.Cell) that was removed from the
// live row by compact_and_expire.
func (b *Buffer) CollectCell(id fragment.ColumnId, cell fragment.Cell) {
	b.cells.Cells[id] = cell
}

// Empty reports whether nothing has been collected since the last
// reset: no tombstone and no cells.
func (b *Buffer) Empty() bool {
	return b.tomb.IsEmpty() && b.cells.Empty()
}

// ConsumeStaticRow calls sink with a synthetic dead static row if
// anything was collected, then resets the buffer. It does nothing if
// the buffer is empty or was not collecting a static row.
func (b *Buffer) ConsumeStaticRow(sink func(fragment.StaticRow)) {
	if b.kind != rowKindStatic || b.Empty() {
		b.reset()
		return
	}
	sink(fragment.StaticRow{Cells: b.cells})
	b.cells = fragment.NewRow()
	b.reset()
}

// ConsumeClusteringRow calls sink with a synthetic dead clustering row
// (marker forced dead, the collected tombstone, and the collected
// cells) if anything was collected, then resets the buffer.
func (b *Buffer) ConsumeClusteringRow(sink func(fragment.ClusteringRow)) {
	if b.kind != rowKindClustering || b.Empty() {
		b.reset()
		return
	}
	sink(fragment.ClusteringRow{
		Position:     b.position,
		RowTombstone: b.tomb,
		Marker:       fragment.RowMarker{Dead: true},
		Cells:        b.cells,
	})
	b.cells = fragment.NewRow()
	b.reset()
}

func (b *Buffer) reset() {
	b.kind = rowKindNone
	b.position = fragment.Position{}
	b.tomb = fragment.NoRowTombstone
	for id := range b.cells.Cells {
		delete(b.cells.Cells, id)
	}
}
