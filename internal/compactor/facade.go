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

	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// Compactor is the fragment-protocol facade: it owns a shared handle
// to one CompactorState and a bound pair of consumers, and implements
// the fragment protocol by forwarding to the state with those
// consumers bound. GetState exposes the state itself so a page-driver
// can call StartNewPage/DetachState directly.
type Compactor struct {
	state *CompactorState
	main  MainConsumer
	gc    GCConsumer
}

// NewCompactor binds a CompactorState to a concrete pair of consumers.
// Query mode callers typically pass NullGCConsumer{} for gc.
func NewCompactor(state *CompactorState, main MainConsumer, gc GCConsumer) *Compactor {
	return &Compactor{state: state, main: main, gc: gc}
}

// GetState returns the shared compactor state so the caller can keep
// a handle for pagination and detach/resume.
func (c *Compactor) GetState() *CompactorState { return c.state }

// ConsumeNewPartition forwards to the bound state.
func (c *Compactor) ConsumeNewPartition(dk fragment.DecoratedKey) {
	c.state.ConsumeNewPartition(dk)
}

// ConsumePartitionTombstone forwards to the bound state.
func (c *Compactor) ConsumePartitionTombstone(ctx context.Context, t fragment.Tombstone) error {
	return c.state.ConsumePartitionTombstone(ctx, t, c.main, c.gc)
}

// ConsumeStaticRow forwards to the bound state.
func (c *Compactor) ConsumeStaticRow(ctx context.Context, sr fragment.StaticRow) (StopIteration, error) {
	return c.state.ConsumeStaticRow(ctx, sr, c.main, c.gc)
}

// ConsumeClusteringRow forwards to the bound state.
func (c *Compactor) ConsumeClusteringRow(ctx context.Context, cr fragment.ClusteringRow) (StopIteration, error) {
	return c.state.ConsumeClusteringRow(ctx, cr, c.main, c.gc)
}

// ConsumeRangeTombstoneChange forwards to the bound state.
func (c *Compactor) ConsumeRangeTombstoneChange(ctx context.Context, rtc fragment.RangeTombstoneChange) (StopIteration, error) {
	return c.state.ConsumeRangeTombstoneChange(ctx, rtc, c.main, c.gc)
}

// ConsumeEndOfPartition forwards to the bound state.
func (c *Compactor) ConsumeEndOfPartition(ctx context.Context) (StopIteration, error) {
	return c.state.ConsumeEndOfPartition(ctx, c.main, c.gc)
}

// ConsumeEndOfStream forwards to the bound state, returning both
// consumers' results rather than a single combined one.
func (c *Compactor) ConsumeEndOfStream() (mainErr, gcErr error) {
	return c.state.ConsumeEndOfStream(c.main, c.gc)
}

// StartNewPage forwards to the bound state, using the facade's own
// main consumer for the internal static-row/range-tombstone replay.
func (c *Compactor) StartNewPage(ctx context.Context, rowLimit, partitionLimit int, queryTime fragment.WallTime, nextRegionClustered bool) error {
	return c.state.StartNewPage(ctx, rowLimit, partitionLimit, queryTime, nextRegionClustered, c.main)
}

// DetachState forwards to the bound state.
func (c *Compactor) DetachState() *DetachedState {
	return c.state.DetachState()
}
