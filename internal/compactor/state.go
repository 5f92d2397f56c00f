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

// Package compactor implements the mutation compactor: a streaming
// state machine that consumes a database partition's fragmented
// representation and emits a compacted stream to a main consumer and,
// in SSTable-compaction mode, a secondary garbage-collection consumer.
package compactor

import (
	"context"
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scylladb/mutation-compactor/internal/clock"
	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/gcbuffer"
	"github.com/scylladb/mutation-compactor/internal/metrics"
	"github.com/scylladb/mutation-compactor/internal/oracle"
	"github.com/scylladb/mutation-compactor/internal/schema"
	"github.com/scylladb/mutation-compactor/internal/util/nocopy"
	"github.com/scylladb/mutation-compactor/internal/util/notify"
)

// Mode selects which of the two operating modes a CompactorState runs
// in. The two modes share the bulk of the consume logic; they differ
// in limit enforcement and whether purged fragments are forwarded to a
// GC consumer.
type Mode uint8

const (
	// ModeQuery enforces row_limit/partition_limit and never forwards
	// anything to the GC consumer.
	ModeQuery Mode = iota
	// ModeCompaction has no limits, allocates a GC scratch buffer, and
	// forwards purged fragments to the GC consumer.
	ModeCompaction
)

func (m Mode) String() string {
	if m == ModeCompaction {
		return "compaction"
	}
	return "query"
}

// unbounded stands in for "no limit" in query-mode fields reused by
// compaction mode.
const unbounded = math.MaxInt

// CompactorState is the heart of the compactor: per-partition
// bookkeeping plus the fragment-consume operations. It is never copied
// by value once constructed, because canGC and canPurgeTombstone close
// over its own address indirectly through method values captured by
// callers such as the GC buffer drain helpers; nocopy.NoCopy makes an
// accidental copy visible to `go vet`.
type CompactorState struct {
	_ nocopy.NoCopy

	mode   Mode
	schema schema.Schema
	logger *log.Entry

	// now is query_time in ModeQuery, compaction_time in ModeCompaction.
	now fragment.WallTime

	slice          fragment.PartitionSlice
	rowLimit       int
	partitionLimit int

	oracle   oracle.PurgeableOracle
	gcPolicy clock.GCPolicy
	gcBuf    *gcbuffer.Buffer

	stats fragment.CompactionStats

	// per-partition state, reset by ConsumeNewPartition.
	inPartition                    bool
	seenClusteringRow              bool
	currentPartitionKey            fragment.DecoratedKey
	lastDK                         fragment.DecoratedKey
	empty                          bool
	emptyForGC                     bool
	rowsInPartition                int
	staticRowLive                  bool
	partitionTombstone             fragment.Tombstone
	effectiveRangeTombstone        fragment.Tombstone
	currentEmittedTombstone        fragment.Tombstone
	currentEmittedGCTombstone      fragment.Tombstone
	currentPartitionLimit          int
	maxPurgeableSet                bool
	maxPurgeable                   fragment.Timestamp
	gcBeforeSet                    bool
	gcBefore                       fragment.WallTime
	lastStaticRow                  *fragment.StaticRow
	lastPos                        fragment.Position
	returnStaticContentOnEmptyRows bool

	stop StopIteration

	posVar  *notify.Var[fragment.Position]
	partVar *notify.Var[fragment.DecoratedKey]
}

type logrusEntry = log.Entry

// newState builds the shared skeleton; query.go and compaction.go
// expose the two public constructors (query mode vs SSTable-compaction
// mode).
func newState(mode Mode, sch schema.Schema, now fragment.WallTime, logger *logrusEntry) *CompactorState {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &CompactorState{
		mode:    mode,
		schema:  sch,
		now:     now,
		logger:  logger,
		posVar:  notify.NewVar(fragment.PartitionStartPosition()),
		partVar: notify.NewVar(fragment.DecoratedKey{}),
	}
}

// CurrentPosition returns the compactor's current position within the
// partition it is processing, along with a channel that is closed the
// next time it advances, so a caller can watch progress without
// polling.
func (s *CompactorState) CurrentPosition() (fragment.Position, <-chan struct{}) {
	return s.posVar.Get()
}

// CurrentPartition returns the decorated key of the partition currently
// being processed, with the same wakeup-channel shape as CurrentPosition.
func (s *CompactorState) CurrentPartition() (fragment.DecoratedKey, <-chan struct{}) {
	return s.partVar.Get()
}

// Stats returns the accumulated CompactionStats for the current page.
func (s *CompactorState) Stats() fragment.CompactionStats { return s.stats }

// ConsumeNewPartition resets all per-partition state.
func (s *CompactorState) ConsumeNewPartition(dk fragment.DecoratedKey) {
	assert(!s.inPartition, "consume_new_partition called without a matching consume_end_of_partition")
	s.inPartition = true
	s.currentPartitionKey = dk
	s.empty = true
	s.emptyForGC = true
	s.rowsInPartition = 0
	s.staticRowLive = false
	s.partitionTombstone = fragment.EmptyTombstone
	s.effectiveRangeTombstone = fragment.EmptyTombstone
	s.currentEmittedTombstone = fragment.EmptyTombstone
	s.currentEmittedGCTombstone = fragment.EmptyTombstone
	s.currentPartitionLimit = min(s.rowLimit, s.slice.PartitionRowLimit())
	s.maxPurgeableSet = false
	s.gcBeforeSet = false
	s.lastStaticRow = nil
	s.seenClusteringRow = false
	s.lastPos = fragment.PartitionStartPosition()
	s.returnStaticContentOnEmptyRows = s.slice.ReturnStaticContentOnEmptyRows()
	s.stop = Continue

	s.stats.RecordPartition()
	s.partVar.Set(dk)
	s.posVar.Set(s.lastPos)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// announceMain lazily emits ConsumeNewPartition to main on the first
// non-elided item.
func (s *CompactorState) announceMain(main MainConsumer) {
	if s.empty {
		main.ConsumeNewPartition(s.currentPartitionKey)
		s.empty = false
	}
}

// announceGC lazily emits ConsumeNewPartition to gc on the first
// non-elided item.
func (s *CompactorState) announceGC(gc GCConsumer) {
	if s.emptyForGC {
		gc.ConsumeNewPartition(s.currentPartitionKey)
		s.emptyForGC = false
	}
}

// canGC is the purge predicate. In query mode it is unconditionally
// true, which lets the "shadowed tombstone" stripping below run
// without ever routing anything to the GC consumer (that path is
// separately gated on ModeCompaction).
func (s *CompactorState) canGC(ctx context.Context, t fragment.Tombstone) (bool, error) {
	if s.mode == ModeQuery {
		return true, nil
	}
	if t.IsEmpty() {
		return false, nil
	}
	mp, err := s.getMaxPurgeable(ctx)
	if err != nil {
		return false, err
	}
	return t.Timestamp < mp, nil
}

// canPurgeTombstone is can_gc(t) && t.deletion_time < gc_before.
func (s *CompactorState) canPurgeTombstone(ctx context.Context, t fragment.Tombstone) (bool, error) {
	gc, err := s.canGC(ctx, t)
	if err != nil || !gc {
		return false, err
	}
	return t.DeletionTime.Before(s.getGCBefore()), nil
}

// canPurgeRowTombstone is canPurgeTombstone for a paired row tombstone.
// Purging drops the regular and shadowable components together, so the
// grace period must hold off on the later of the two components'
// deletion times: gating on the dominating component's own deletion
// time alone could purge a row tombstone while its shadowed sibling's
// grace period is still running.
func (s *CompactorState) canPurgeRowTombstone(ctx context.Context, rt fragment.RowTombstone) (bool, error) {
	gc, err := s.canGC(ctx, rt.AsTombstone())
	if err != nil || !gc {
		return false, err
	}
	return rt.MaxDeletionTime().Before(s.getGCBefore()), nil
}

func (s *CompactorState) getMaxPurgeable(ctx context.Context) (fragment.Timestamp, error) {
	if s.maxPurgeableSet {
		return s.maxPurgeable, nil
	}
	if s.oracle == nil {
		s.maxPurgeable, s.maxPurgeableSet = fragment.MinTimestamp, true
		return s.maxPurgeable, nil
	}
	mp, err := s.oracle.MaxPurgeable(ctx, s.currentPartitionKey)
	if err != nil {
		return fragment.MinTimestamp, errors.Wrap(err, "querying purgeable oracle")
	}
	s.maxPurgeable, s.maxPurgeableSet = mp, true
	return mp, nil
}

func (s *CompactorState) getGCBefore() fragment.WallTime {
	if s.gcBeforeSet {
		return s.gcBefore
	}
	s.gcBefore = clock.GCBefore(s.now, s.gcPolicy)
	s.gcBeforeSet = true
	return s.gcBefore
}

// ConsumePartitionTombstone applies a partition-level tombstone,
// routing it to the GC consumer if it is already purgeable and to the
// main consumer otherwise. In query mode a purgeable tombstone still
// shadows the partition's data but is forwarded to neither consumer.
func (s *CompactorState) ConsumePartitionTombstone(
	ctx context.Context, t fragment.Tombstone, main MainConsumer, gc GCConsumer,
) error {
	s.partitionTombstone = t
	purgeable, err := s.canPurgeTombstone(ctx, t)
	if err != nil {
		return err
	}
	if purgeable {
		if s.mode == ModeCompaction {
			s.announceGC(gc)
			gc.ConsumeTombstone(t)
			s.logger.WithFields(log.Fields{"token": s.currentPartitionKey.Token, "ts": t.Timestamp}).Trace("purged partition tombstone")
		}
	} else {
		s.announceMain(main)
		main.ConsumeTombstone(t)
	}
	return nil
}

// ConsumeStaticRow applies tombstone shadowing and TTL expiry to a
// partition's static row and forwards the surviving content to the
// main and GC consumers.
func (s *CompactorState) ConsumeStaticRow(
	ctx context.Context, sr fragment.StaticRow, main MainConsumer, gc GCConsumer,
) (StopIteration, error) {
	assert(!s.seenClusteringRow, "static row after a clustering row in the same partition")
	assert(s.stop != Stop, "static row fed after a stop=yes without an intervening StartNewPage/DetachState")

	saved := sr
	s.lastStaticRow = &saved

	if s.mode == ModeCompaction {
		s.gcBuf.StartCollectingStaticRow()
	}

	rowTomb := fragment.NewRegularRowTombstone(s.partitionTombstone)
	live, err := s.compactAndExpireRow(sr.Cells, rowTomb.AsTombstone())
	if err != nil {
		return Continue, err
	}
	s.stats.RecordStaticRow(live)

	if s.mode == ModeCompaction {
		s.gcBuf.ConsumeStaticRow(func(dead fragment.StaticRow) {
			s.announceGC(gc)
			gc.ConsumeStaticRow(dead, fragment.NewRegularRowTombstone(s.partitionTombstone), false)
			gc.ConsumeTombstone(s.partitionTombstone)
			metrics.RecordGCRow(s.mode.String())
		})
	}

	effective := rowTomb
	if s.mode == ModeQuery {
		purgeable, perr := s.canPurgeTombstone(ctx, s.partitionTombstone)
		if perr != nil {
			return Continue, perr
		}
		if purgeable {
			effective = fragment.NoRowTombstone
		}
	}

	s.staticRowLive = live
	if live || !sr.Cells.Empty() {
		s.announceMain(main)
		return main.ConsumeStaticRow(sr, effective, live), nil
	}
	return Continue, nil
}

// compactAndExpireRow mutates row in place, removing every cell that is
// shadowed by effTomb or has expired, and, in SSTable mode, handing
// each removed cell to the GC buffer. Returns whether any cell
// survived.
func (s *CompactorState) compactAndExpireRow(row fragment.Row, effTomb fragment.Tombstone) (bool, error) {
	anyLive := false
	for id, cell := range row.Cells {
		shadowed := !effTomb.IsEmpty() && fragment.Timestamp(cell.Timestamp) <= effTomb.Timestamp
		if !shadowed && cell.IsLive(s.now) {
			anyLive = true
			continue
		}
		row.Remove(id)
		if s.mode == ModeCompaction && s.gcBuf.Collecting() {
			s.gcBuf.CollectCell(id, cell)
		}
	}
	return anyLive, nil
}

// ConsumeClusteringRow applies tombstone shadowing and TTL expiry to a
// clustering row, enforces the current row/partition limits, and
// forwards the surviving content to the main and GC consumers.
func (s *CompactorState) ConsumeClusteringRow(
	ctx context.Context, cr fragment.ClusteringRow, main MainConsumer, gc GCConsumer,
) (StopIteration, error) {
	assert(s.lastPos.Less(cr.Position), "clustering row out of order: %s then %s", s.lastPos, cr.Position)
	assert(s.stop != Stop, "clustering row fed after a stop=yes without an intervening StartNewPage/DetachState")
	s.seenClusteringRow = true

	if s.mode == ModeQuery {
		s.lastPos = cr.Position
		s.posVar.Set(s.lastPos)
	}

	ctomb := fragment.Max(s.partitionTombstone, s.effectiveRangeTombstone)
	t := fragment.RowTombstone{
		Regular:    fragment.Max(cr.RowTombstone.Regular, ctomb),
		Shadowable: cr.RowTombstone.Shadowable,
	}

	rowTombForCells := cr.RowTombstone
	if cr.RowTombstone.LessEqual(ctomb) {
		rowTombForCells = fragment.NoRowTombstone
	} else {
		purgeable, err := s.canPurgeRowTombstone(ctx, cr.RowTombstone)
		if err != nil {
			return Continue, err
		}
		if purgeable {
			if s.mode == ModeCompaction {
				s.gcBuf.StartCollectingClusteringRow(cr.Position)
				s.gcBuf.CollectTombstone(cr.RowTombstone)
			}
			rowTombForCells = fragment.NoRowTombstone
		}
	}

	if s.mode == ModeCompaction && !s.gcBuf.Collecting() {
		s.gcBuf.StartCollectingClusteringRow(cr.Position)
	}

	marker := cr.Marker
	markerAlive := s.compactAndExpireMarker(&marker, t.Regular)

	anyCellLive, err := s.compactAndExpireRow(cr.Cells, t.AsTombstone())
	if err != nil {
		return Continue, err
	}

	isLive := markerAlive || anyCellLive
	s.stats.RecordClusteringRow(isLive)

	if s.mode == ModeCompaction {
		s.gcBuf.ConsumeClusteringRow(func(dead fragment.ClusteringRow) {
			s.announceGC(gc)
			gc.ConsumeClusteringRow(dead, t, false)
			metrics.RecordGCRow(s.mode.String())
		})
	}

	effective := rowTombForCells
	if s.mode == ModeQuery {
		purgeable, perr := s.canPurgeRowTombstone(ctx, t)
		if perr != nil {
			return Continue, perr
		}
		if purgeable {
			effective = fragment.NoRowTombstone
		}
	}

	out := fragment.ClusteringRow{Position: cr.Position, RowTombstone: rowTombForCells, Marker: marker, Cells: cr.Cells}
	if !out.Empty() {
		s.announceMain(main)
		stop := main.ConsumeClusteringRow(out, effective, isLive)
		s.stop = s.stop.Or(stop)
	}

	if s.mode == ModeQuery && isLive {
		s.rowsInPartition++
		if s.rowsInPartition == s.currentPartitionLimit {
			s.stop = Stop
		}
	}
	return s.stop, nil
}

// compactAndExpireMarker mutates marker's liveness view against the
// regular component of the combined tombstone and reports whether it
// remains alive.
func (s *CompactorState) compactAndExpireMarker(marker *fragment.RowMarker, regular fragment.Tombstone) bool {
	if marker.IsMissing() || marker.Dead {
		return false
	}
	if !regular.IsEmpty() && fragment.Timestamp(marker.Timestamp) <= regular.Timestamp {
		marker.Dead = true
		return false
	}
	return marker.IsLive(s.now)
}

// ConsumeRangeTombstoneChange opens or closes an open range deletion,
// folding it against the current partition tombstone so a dominated
// range tombstone is dropped rather than forwarded.
func (s *CompactorState) ConsumeRangeTombstoneChange(
	ctx context.Context, rtc fragment.RangeTombstoneChange, main MainConsumer, gc GCConsumer,
) (StopIteration, error) {
	assert(s.stop != Stop, "range tombstone change fed after a stop=yes without an intervening StartNewPage/DetachState")
	s.stats.RecordRangeTombstone()
	if s.mode == ModeQuery {
		s.lastPos = rtc.Position
		s.posVar.Set(s.lastPos)
	}

	if rtc.Tombstone.LessEqual(s.partitionTombstone) {
		rtc.Tombstone = fragment.EmptyTombstone
	}
	s.effectiveRangeTombstone = rtc.Tombstone

	canPurge := false
	if !rtc.Tombstone.IsEmpty() {
		gcable, err := s.canGC(ctx, rtc.Tombstone)
		if err != nil {
			return Continue, err
		}
		canPurge = gcable
	}

	var stop StopIteration

	if s.mode == ModeCompaction && (canPurge || !s.currentEmittedGCTombstone.IsEmpty()) {
		s.announceGC(gc)
		toEmit := fragment.EmptyTombstone
		if canPurge {
			toEmit = rtc.Tombstone
		}
		stop = stop.Or(gc.ConsumeRangeTombstoneChange(fragment.RangeTombstoneChange{Position: rtc.Position, Tombstone: toEmit}))
		s.currentEmittedGCTombstone = toEmit
		if canPurge {
			rtc.Tombstone = fragment.EmptyTombstone
		}
	}

	if !s.currentEmittedTombstone.IsEmpty() || !rtc.Tombstone.IsEmpty() {
		s.announceMain(main)
		stop = stop.Or(main.ConsumeRangeTombstoneChange(rtc))
		s.currentEmittedTombstone = rtc.Tombstone
	}

	s.stop = s.stop.Or(stop)
	return s.stop, nil
}

// ConsumeEndOfPartition closes any still-open range tombstone,
// finalizes the partition on both consumers, and folds its row count
// into the current page's row/partition limits.
func (s *CompactorState) ConsumeEndOfPartition(ctx context.Context, main MainConsumer, gc GCConsumer) (StopIteration, error) {
	assert(s.stop != Stop, "end of partition fed after a stop=yes without an intervening StartNewPage/DetachState")
	if !s.effectiveRangeTombstone.IsEmpty() {
		closing := fragment.RangeTombstoneChange{Position: fragment.AfterKey(s.lastPos), Tombstone: fragment.EmptyTombstone}
		savedEffective := s.effectiveRangeTombstone
		if _, err := s.ConsumeRangeTombstoneChange(ctx, closing, main, gc); err != nil {
			return Continue, err
		}
		s.effectiveRangeTombstone = savedEffective
	}

	if !s.emptyForGC {
		gc.ConsumeEndOfPartition()
	}

	var result StopIteration = Continue
	if !s.empty {
		if s.rowsInPartition == 0 && s.staticRowLive && s.returnStaticContentOnEmptyRows {
			s.rowsInPartition = 1
		}
		s.rowLimit -= s.rowsInPartition
		if s.rowsInPartition > 0 {
			s.partitionLimit--
		}
		stop := main.ConsumeEndOfPartition()

		if s.mode == ModeQuery {
			result = Continue
			if s.rowLimit <= 0 || s.partitionLimit <= 0 || bool(stop) {
				result = Stop
			}
			s.stop = result
		}
	}

	s.inPartition = false
	s.lastDK = s.currentPartitionKey
	return result, nil
}

// ConsumeEndOfStream closes out both consumers at the end of the
// fragment stream and returns each one's result, since GCConsumer
// always reports a concrete (possibly nil) error rather than nothing.
func (s *CompactorState) ConsumeEndOfStream(main MainConsumer, gc GCConsumer) (mainErr, gcErr error) {
	s.lastDK = s.currentPartitionKey
	mainErr = main.ConsumeEndOfStream()
	gcErr = gc.ConsumeEndOfStream()
	return mainErr, gcErr
}

// StartNewPage resumes the current partition in the same compactor
// instance with fresh limits and a new query time, replaying the last
// static row and any still-open range tombstone so the new page picks
// up exactly where the previous one stopped.
func (s *CompactorState) StartNewPage(
	ctx context.Context, rowLimit, partitionLimit int, queryTime fragment.WallTime, nextRegionClustered bool, main MainConsumer,
) error {
	s.rowLimit = rowLimit
	s.partitionLimit = partitionLimit
	s.now = queryTime
	s.stats = fragment.CompactionStats{}
	s.empty = true
	s.stop = Continue
	s.rowsInPartition = 0
	s.currentPartitionLimit = min(s.rowLimit, s.slice.PartitionRowLimit())
	s.seenClusteringRow = false

	if nextRegionClustered && s.lastStaticRow != nil {
		sr := *s.lastStaticRow
		if _, err := s.ConsumeStaticRow(ctx, sr, main, NullGCConsumer{}); err != nil {
			return err
		}
	}
	if !s.effectiveRangeTombstone.IsEmpty() {
		rtc := fragment.RangeTombstoneChange{Position: fragment.AfterKey(s.lastPos), Tombstone: s.effectiveRangeTombstone}
		s.announceMain(main)
		main.ConsumeRangeTombstoneChange(rtc)
		s.currentEmittedTombstone = rtc.Tombstone
	}
	return nil
}

// DetachedState is what DetachState returns: enough to replay through
// a fresh page and reach an equivalent state.
type DetachedState struct {
	PartitionStart       fragment.PartitionStart
	StaticRow            *fragment.StaticRow
	RangeTombstoneChange *fragment.RangeTombstoneChange
}

// DetachState captures enough of the current partition to resume it
// from a fresh compactor instance. Returns nil if stop is not latched
// (the partition was exhausted, nothing to resume).
func (s *CompactorState) DetachState() *DetachedState {
	if s.stop != Stop {
		return nil
	}
	d := &DetachedState{
		PartitionStart: fragment.PartitionStart{Key: s.currentPartitionKey, PartitionTombstone: s.partitionTombstone},
		StaticRow:      s.lastStaticRow,
	}
	if !s.effectiveRangeTombstone.IsEmpty() {
		d.RangeTombstoneChange = &fragment.RangeTombstoneChange{
			Position:  fragment.AfterKey(s.lastPos),
			Tombstone: s.effectiveRangeTombstone,
		}
	}
	return d
}
