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
	"context"
	"testing"
	"time"

	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/oracle"
)

var bg = context.Background()

func wt(d time.Duration) fragment.WallTime {
	return fragment.NewWallTime(time.Unix(0, 0).Add(d))
}

func key(token int64, raw string) fragment.DecoratedKey {
	return fragment.DecoratedKey{Token: token, RawKey: []byte(raw)}
}

func liveRow(pos fragment.Position, ts fragment.Timestamp) fragment.ClusteringRow {
	return fragment.ClusteringRow{
		Position:     pos,
		RowTombstone: fragment.NoRowTombstone,
		Marker:       fragment.RowMarker{Timestamp: ts},
		Cells:        fragment.NewRow(),
	}
}

// TestFullyPurgedPartitionTombstoneProducesNoMainOutput checks that a
// partition whose only content is a fully purged partition tombstone
// produces nothing on the main consumer, query mode included (query
// mode's canGC is unconditionally true, so a tombstone past its grace
// period is dropped rather than forwarded to either consumer).
func TestFullyPurgedPartitionTombstoneProducesNoMainOutput(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	s := NewQueryState(sch, wt(2*time.Hour), sch.FullSlice(), unbounded, unbounded, nil)
	main := &fakeConsumer{}
	c := NewCompactor(s, main, NullGCConsumer{})

	c.ConsumeNewPartition(key(1, "k"))
	if err := c.ConsumePartitionTombstone(bg, fragment.Tombstone{Timestamp: 10, DeletionTime: wt(0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConsumeEndOfPartition(bg); err != nil {
		t.Fatal(err)
	}

	if len(main.events) != 0 {
		t.Fatalf("expected no main consumer calls, got %#v", main.events)
	}
}

// TestOpenRangeTombstoneIsClosedByPartitionEnd checks that a non-empty
// range tombstone emitted to a consumer is closed by an empty one by
// partition end.
func TestOpenRangeTombstoneIsClosedByPartitionEnd(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	s := NewQueryState(sch, wt(0), sch.FullSlice(), unbounded, unbounded, nil)
	main := &fakeConsumer{}
	c := NewCompactor(s, main, NullGCConsumer{})

	c.ConsumeNewPartition(key(1, "k"))
	open := fragment.RangeTombstoneChange{
		Position:  fragment.Key(fragment.ClusteringKey("a")),
		Tombstone: fragment.Tombstone{Timestamp: 5, DeletionTime: wt(0)},
	}
	if _, err := c.ConsumeRangeTombstoneChange(bg, open); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConsumeEndOfPartition(bg); err != nil {
		t.Fatal(err)
	}

	rtcs := 0
	sawClose := false
	for _, e := range main.events {
		if e.kind != fragment.KindRangeTombstoneChange {
			continue
		}
		rtcs++
		if e.rtc.Tombstone.IsEmpty() {
			sawClose = true
		}
	}
	if rtcs != 2 || !sawClose {
		t.Fatalf("expected an open and a closing range-tombstone-change, got %d rtcs (closed=%v)", rtcs, sawClose)
	}
}

// TestPartitionTombstoneShadowsRowTombstone checks that a partition
// tombstone dominating a row tombstone strips it from the emitted row.
func TestPartitionTombstoneShadowsRowTombstone(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	s := NewQueryState(sch, wt(0), sch.FullSlice(), unbounded, unbounded, nil)
	main := &fakeConsumer{}
	c := NewCompactor(s, main, NullGCConsumer{})

	c.ConsumeNewPartition(key(1, "k"))
	if err := c.ConsumePartitionTombstone(bg, fragment.Tombstone{Timestamp: 20, DeletionTime: wt(0)}); err != nil {
		t.Fatal(err)
	}
	row := fragment.ClusteringRow{
		Position:     fragment.Key(fragment.ClusteringKey("a")),
		RowTombstone: fragment.NewRegularRowTombstone(fragment.Tombstone{Timestamp: 15, DeletionTime: wt(0)}),
		Marker:       fragment.RowMarker{Timestamp: 25},
		Cells: fragment.Row{Cells: map[fragment.ColumnId]fragment.Cell{
			1: {Timestamp: 25, Value: []byte("v")},
		}},
	}
	if _, err := c.ConsumeClusteringRow(bg, row); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConsumeEndOfPartition(bg); err != nil {
		t.Fatal(err)
	}

	rows := main.clusteringRows()
	if len(rows) != 1 {
		t.Fatalf("expected the row to survive with the cell alive, got %d rows", len(rows))
	}
	if !rows[0].row.RowTombstone.IsEmpty() {
		t.Fatalf("expected the row tombstone to be stripped, got %+v", rows[0].row.RowTombstone)
	}
}

// TestRowLimitPagesAcrossDetachAndResume checks limit accounting across
// a page break: a row limit of 2 against 5 live rows pages 1,2 then
// 3,4 then 5, with the second page resumed via StartNewPage.
func TestRowLimitPagesAcrossDetachAndResume(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	s := NewQueryState(sch, wt(0), sch.FullSlice(), 2, unbounded, nil)
	main := &fakeConsumer{}
	c := NewCompactor(s, main, NullGCConsumer{})

	c.ConsumeNewPartition(key(1, "k"))
	positions := []string{"1", "2", "3", "4", "5"}
	i := 0
	for ; i < len(positions); i++ {
		stop, err := c.ConsumeClusteringRow(bg, liveRow(fragment.Key(fragment.ClusteringKey(positions[i])), fragment.Timestamp(i+1)))
		if err != nil {
			t.Fatal(err)
		}
		if bool(stop) {
			i++
			break
		}
	}
	if got := len(main.clusteringRows()); got != 2 {
		t.Fatalf("first page: expected 2 rows emitted, got %d", got)
	}

	detached := c.DetachState()
	if detached == nil {
		t.Fatal("expected a non-nil detached state after the page stopped")
	}
	if detached.StaticRow != nil || detached.RangeTombstoneChange != nil {
		t.Fatalf("expected no static row or open range to replay, got %+v", detached)
	}

	if err := c.StartNewPage(bg, 2, unbounded, wt(0), false); err != nil {
		t.Fatal(err)
	}
	for ; i < len(positions); i++ {
		stop, err := c.ConsumeClusteringRow(bg, liveRow(fragment.Key(fragment.ClusteringKey(positions[i])), fragment.Timestamp(i+1)))
		if err != nil {
			t.Fatal(err)
		}
		if bool(stop) {
			break
		}
	}
	if got := len(main.clusteringRows()); got != 4 {
		t.Fatalf("after second page: expected 4 total rows emitted, got %d", got)
	}
}

// TestOpenRangeTombstoneSurvivesPageBreak checks that an open range
// tombstone survives a page break and is replayed so a later row in
// the next page is compacted against it.
func TestOpenRangeTombstoneSurvivesPageBreak(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	s := NewQueryState(sch, wt(0), sch.FullSlice(), 1, unbounded, nil)
	main := &fakeConsumer{}
	c := NewCompactor(s, main, NullGCConsumer{})

	c.ConsumeNewPartition(key(1, "k"))
	open := fragment.RangeTombstoneChange{
		Position:  fragment.Key(fragment.ClusteringKey("1")),
		Tombstone: fragment.Tombstone{Timestamp: 100, DeletionTime: wt(0)},
	}
	if _, err := c.ConsumeRangeTombstoneChange(bg, open); err != nil {
		t.Fatal(err)
	}
	stop, err := c.ConsumeClusteringRow(bg, liveRow(fragment.Key(fragment.ClusteringKey("2")), 200))
	if err != nil {
		t.Fatal(err)
	}
	if !bool(stop) {
		t.Fatal("expected the page to stop after its one-row limit")
	}

	detached := c.DetachState()
	if detached == nil || detached.RangeTombstoneChange == nil {
		t.Fatalf("expected an open range tombstone in the detached state, got %+v", detached)
	}

	if err := c.StartNewPage(bg, unbounded, unbounded, wt(0), false); err != nil {
		t.Fatal(err)
	}
	row3 := fragment.ClusteringRow{
		Position:     fragment.Key(fragment.ClusteringKey("3")),
		RowTombstone: fragment.NoRowTombstone,
		Marker:       fragment.RowMarker{Timestamp: 50},
		Cells:        fragment.NewRow(),
	}
	if _, err := c.ConsumeClusteringRow(bg, row3); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConsumeEndOfPartition(bg); err != nil {
		t.Fatal(err)
	}

	rows := main.clusteringRows()
	last := rows[len(rows)-1]
	if last.isLive {
		t.Fatalf("expected row 3 to be shadowed by the re-opened range tombstone, got live=%v", last.isLive)
	}
}

// TestStaticOnlyPartitionCountsAsOneRow checks that a partition with no
// clustering rows, only a surviving static row, counts as exactly one
// row and one partition against the current page's limits.
func TestStaticOnlyPartitionCountsAsOneRow(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	slice := fragment.PartitionSlice{ForceStaticColumns: true, HasClusteringSelector: true, PerPartitionLimit: 100}
	s := NewQueryState(sch, wt(0), slice, 10, 3, nil)
	main := &fakeConsumer{}
	c := NewCompactor(s, main, NullGCConsumer{})

	c.ConsumeNewPartition(key(1, "k"))
	sr := fragment.StaticRow{Cells: fragment.Row{Cells: map[fragment.ColumnId]fragment.Cell{
		1: {Timestamp: 1, Value: []byte("v")},
	}}}
	if _, err := c.ConsumeStaticRow(bg, sr); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConsumeEndOfPartition(bg); err != nil {
		t.Fatal(err)
	}

	if n := main.countKind(fragment.KindPartitionStart); n != 1 {
		t.Fatalf("expected exactly one partition start, got %d", n)
	}
	if n := main.countKind(fragment.KindStaticRow); n != 1 {
		t.Fatalf("expected exactly one static row, got %d", n)
	}
	if n := main.countKind(fragment.KindPartitionEnd); n != 1 {
		t.Fatalf("expected exactly one partition end, got %d", n)
	}
	if s.rowLimit != 9 || s.partitionLimit != 2 {
		t.Fatalf("expected limits to fold the static-only row as one, got rowLimit=%d partitionLimit=%d", s.rowLimit, s.partitionLimit)
	}
}

// TestExpiredCellFansOutToGCConsumerOnly checks that an expired cell in
// SSTable-compaction mode surfaces on the GC consumer with isLive=false
// and not on the main consumer.
func TestExpiredCellFansOutToGCConsumerOnly(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	s := NewCompactionState(sch, wt(10*time.Hour), oracle.NeverPurgeable{}, nil)
	main := &fakeConsumer{}
	gc := &fakeConsumer{}
	c := NewCompactor(s, main, gc)

	c.ConsumeNewPartition(key(1, "k"))
	row := fragment.ClusteringRow{
		Position:     fragment.Key(fragment.ClusteringKey("a")),
		RowTombstone: fragment.NoRowTombstone,
		Marker:       fragment.NoMarker,
		Cells: fragment.Row{Cells: map[fragment.ColumnId]fragment.Cell{
			1: {Timestamp: 1, TTL: time.Hour, Expiry: wt(time.Hour), Value: []byte("v")},
		}},
	}
	if _, err := c.ConsumeClusteringRow(bg, row); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConsumeEndOfPartition(bg); err != nil {
		t.Fatal(err)
	}

	if len(main.clusteringRows()) != 0 {
		t.Fatalf("expected no live clustering row on the main consumer, got %#v", main.clusteringRows())
	}
	gcRows := gc.clusteringRows()
	if len(gcRows) != 1 {
		t.Fatalf("expected exactly one synthetic dead row on the gc consumer, got %d", len(gcRows))
	}
	if gcRows[0].isLive {
		t.Fatal("expected the gc-forwarded row to be marked dead")
	}
	if _, ok := gcRows[0].row.Cells.Cells[1]; !ok {
		t.Fatal("expected the expired cell to be present in the gc-forwarded row")
	}
}

// TestPartitionTombstonePastGraceIsFullyPurged checks that a partition
// tombstone past its grace period, with an oracle reporting everything
// purgeable, is routed entirely to the gc consumer.
func TestPartitionTombstonePastGraceIsFullyPurged(t *testing.T) {
	sch := fakeSchema{grace: time.Second}
	now := wt(2 * time.Second)
	s := NewCompactionState(sch, now, oracle.AlwaysPurgeable{Max: 1 << 32}, nil)
	main := &fakeConsumer{}
	gc := &fakeConsumer{}
	c := NewCompactor(s, main, gc)

	c.ConsumeNewPartition(key(1, "k"))
	if err := c.ConsumePartitionTombstone(bg, fragment.Tombstone{Timestamp: 10, DeletionTime: wt(0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConsumeEndOfPartition(bg); err != nil {
		t.Fatal(err)
	}

	if len(main.events) != 0 {
		t.Fatalf("expected the main consumer untouched, got %#v", main.events)
	}
	if n := gc.countKind(fragment.KindPartitionStart); n != 1 {
		t.Fatalf("expected the gc consumer to see one partition start, got %d", n)
	}
	if n := gc.countKind(fragment.KindPartitionEnd); n != 1 {
		t.Fatalf("expected the gc consumer to see one partition end, got %d", n)
	}
}

// TestRangeTombstoneShadowedByPartitionTombstoneIsElided checks that a
// range tombstone dominated by the partition tombstone is never
// emitted, and a trailing empty-tombstone close is correspondingly
// elided.
func TestRangeTombstoneShadowedByPartitionTombstoneIsElided(t *testing.T) {
	sch := fakeSchema{grace: time.Hour}
	s := NewQueryState(sch, wt(0), sch.FullSlice(), unbounded, unbounded, nil)
	main := &fakeConsumer{}
	c := NewCompactor(s, main, NullGCConsumer{})

	c.ConsumeNewPartition(key(1, "k"))
	if err := c.ConsumePartitionTombstone(bg, fragment.Tombstone{Timestamp: 20, DeletionTime: wt(0)}); err != nil {
		t.Fatal(err)
	}
	shadowed := fragment.RangeTombstoneChange{
		Position:  fragment.Key(fragment.ClusteringKey("5")),
		Tombstone: fragment.Tombstone{Timestamp: 15, DeletionTime: wt(0)},
	}
	if _, err := c.ConsumeRangeTombstoneChange(bg, shadowed); err != nil {
		t.Fatal(err)
	}
	closeChange := fragment.RangeTombstoneChange{
		Position:  fragment.Key(fragment.ClusteringKey("9")),
		Tombstone: fragment.EmptyTombstone,
	}
	if _, err := c.ConsumeRangeTombstoneChange(bg, closeChange); err != nil {
		t.Fatal(err)
	}

	// The partition tombstone itself dominates the range tombstone, so
	// the range tombstone is dropped and its close has nothing to close:
	// the main consumer sees the partition tombstone but no
	// range-tombstone-change.
	if n := main.countKind(fragment.KindRangeTombstoneChange); n != 0 {
		t.Fatalf("expected no range-tombstone-change emitted, got %d", n)
	}
}
