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

// Package oracle defines the purgeable-timestamp oracle the compactor
// consults during SSTable compaction: the highest write timestamp, for
// a given partition, that every other replica is known to already have
// durably. A regular tombstone older than this and past its GC grace
// window can be purged outright instead of merely compacted away,
// because there is no remaining replica that could still need it for
// read-repair.
package oracle

import (
	"context"

	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// PurgeableOracle answers max_purgeable_timestamp(key) for a partition
// key. Query mode never consults an oracle (the Compactor facade is
// constructed without one in that mode); only SSTable-compaction mode
// does.
type PurgeableOracle interface {
	// MaxPurgeable returns the timestamp strictly below which a regular
	// tombstone for key is safe to purge; the caller checks the
	// tombstone's deletion time against gc_before separately. A zero
	// oracle would return fragment.MinTimestamp, meaning nothing is
	// purgeable.
	MaxPurgeable(ctx context.Context, key fragment.DecoratedKey) (fragment.Timestamp, error)
}

// AlwaysPurgeable reports every timestamp below Max as purgeable; it
// exists for tests that want to exercise GC without standing up a
// backing store.
type AlwaysPurgeable struct {
	Max fragment.Timestamp
}

// MaxPurgeable implements PurgeableOracle.
func (a AlwaysPurgeable) MaxPurgeable(context.Context, fragment.DecoratedKey) (fragment.Timestamp, error) {
	return a.Max, nil
}

// NeverPurgeable reports fragment.MinTimestamp for every key, so no
// regular tombstone is ever judged purgeable. It models a
// single-replica deployment where the max-purgeable-timestamp query
// degrades to "everything is still needed".
type NeverPurgeable struct{}

// MaxPurgeable implements PurgeableOracle.
func (NeverPurgeable) MaxPurgeable(context.Context, fragment.DecoratedKey) (fragment.Timestamp, error) {
	return fragment.MinTimestamp, nil
}
