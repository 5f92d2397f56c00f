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

import "github.com/scylladb/mutation-compactor/internal/fragment"

// MainConsumer is the capability set the live output stream requires.
// A compactor built in query mode delivers only to a MainConsumer;
// SSTable-compaction mode delivers live fragments here and purged ones
// to a GCConsumer.
type MainConsumer interface {
	ConsumeNewPartition(dk fragment.DecoratedKey)
	ConsumeTombstone(t fragment.Tombstone)
	ConsumeStaticRow(sr fragment.StaticRow, effective fragment.RowTombstone, isLive bool) StopIteration
	ConsumeClusteringRow(cr fragment.ClusteringRow, effective fragment.RowTombstone, isLive bool) StopIteration
	ConsumeRangeTombstoneChange(rtc fragment.RangeTombstoneChange) StopIteration
	ConsumeEndOfPartition() StopIteration
	ConsumeEndOfStream() error
}

// GCConsumer is the same capability shape, bound to the secondary
// output that receives purged/expired fragments in SSTable-compaction
// mode. It is never invoked in query mode.
type GCConsumer interface {
	ConsumeNewPartition(dk fragment.DecoratedKey)
	ConsumeTombstone(t fragment.Tombstone)
	ConsumeStaticRow(sr fragment.StaticRow, effective fragment.RowTombstone, isLive bool) StopIteration
	ConsumeClusteringRow(cr fragment.ClusteringRow, effective fragment.RowTombstone, isLive bool) StopIteration
	ConsumeRangeTombstoneChange(rtc fragment.RangeTombstoneChange) StopIteration
	ConsumeEndOfPartition() StopIteration
	ConsumeEndOfStream() error
}

// NullGCConsumer discards everything; query mode binds it so the
// facade always has a non-nil GCConsumer to pass down, even though
// every GC-consumer call site is gated on ModeCompaction, so it is
// never actually called outside SSTable mode.
type NullGCConsumer struct{}

func (NullGCConsumer) ConsumeNewPartition(fragment.DecoratedKey) {}
func (NullGCConsumer) ConsumeTombstone(fragment.Tombstone)       {}
func (NullGCConsumer) ConsumeStaticRow(fragment.StaticRow, fragment.RowTombstone, bool) StopIteration {
	return Continue
}
func (NullGCConsumer) ConsumeClusteringRow(fragment.ClusteringRow, fragment.RowTombstone, bool) StopIteration {
	return Continue
}
func (NullGCConsumer) ConsumeRangeTombstoneChange(fragment.RangeTombstoneChange) StopIteration {
	return Continue
}
func (NullGCConsumer) ConsumeEndOfPartition() StopIteration { return Continue }
func (NullGCConsumer) ConsumeEndOfStream() error            { return nil }
