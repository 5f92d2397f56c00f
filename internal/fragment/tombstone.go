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

// Tombstone is a deletion marker with a write timestamp and a
// wall-clock deletion time. Its natural partial order (in this domain,
// total: timestamps never tie meaningfully across distinct writers in
// a way the compactor needs to resolve) is: a <= b iff a is dominated
// by or equal to b. The empty Tombstone (EmptyTombstone, whose
// Timestamp is MinTimestamp; not the zero value) is less than every
// real tombstone.
type Tombstone struct {
	Timestamp    Timestamp
	DeletionTime WallTime
}

// EmptyTombstone is the dominated-by-everything sentinel.
var EmptyTombstone = Tombstone{Timestamp: MinTimestamp}

// IsEmpty reports whether t carries no deletion information.
func (t Tombstone) IsEmpty() bool {
	return t.Timestamp == MinTimestamp
}

// LessEqual reports whether t is dominated by or equal to o, i.e.
// t <= o under the partial order described above.
func (t Tombstone) LessEqual(o Tombstone) bool {
	if t.IsEmpty() {
		return true
	}
	if o.IsEmpty() {
		return false
	}
	return t.Timestamp <= o.Timestamp
}

// Max returns the tombstone that dominates between t and o.
func Max(t, o Tombstone) Tombstone {
	if t.LessEqual(o) {
		return o
	}
	return t
}

// NoRowTombstone is the "neither component carries a deletion" value.
// Unlike the bare zero value RowTombstone{}, whose Regular and
// Shadowable fields would each hold Timestamp 0 rather than
// MinTimestamp, NoRowTombstone.IsEmpty() is actually true: timestamp 0
// is a legitimate write timestamp in this domain, so "no tombstone"
// must be spelled out rather than left to the zero value.
var NoRowTombstone = RowTombstone{Regular: EmptyTombstone, Shadowable: EmptyTombstone}

// RowTombstone pairs a regular (non-shadowable) deletion with a
// shadowable one (e.g. a row marker's implicit deletion that a later
// write to the same row can shadow without an explicit range delete).
type RowTombstone struct {
	Regular    Tombstone
	Shadowable Tombstone
}

// NewRegularRowTombstone builds a RowTombstone with only a regular
// component set, leaving Shadowable empty; used where the caller only
// has a partition tombstone to fold into a row's effective tombstone.
func NewRegularRowTombstone(t Tombstone) RowTombstone {
	return RowTombstone{Regular: t, Shadowable: EmptyTombstone}
}

// IsEmpty reports whether neither component carries deletion info.
func (rt RowTombstone) IsEmpty() bool {
	return rt.Regular.IsEmpty() && rt.Shadowable.IsEmpty()
}

// MaxDeletionTime returns the later of the two components' deletion
// times. Purging a RowTombstone discards both components at once, so
// the grace-period check that guards a purge uses this rather than
// either component's own deletion time alone, which would let the
// longer-lived component's grace period be cut short by the other's.
func (rt RowTombstone) MaxDeletionTime() WallTime {
	if rt.Regular.DeletionTime.Before(rt.Shadowable.DeletionTime) {
		return rt.Shadowable.DeletionTime
	}
	return rt.Regular.DeletionTime
}

// LessEqual reports whether rt is dominated by or equal to the single
// tombstone t (used to test "row_tombstone <= ctomb").
func (rt RowTombstone) LessEqual(t Tombstone) bool {
	return rt.Regular.LessEqual(t) && rt.Shadowable.LessEqual(t)
}

// AsTombstone collapses a RowTombstone into the single dominating
// Tombstone (the max of the two components), for callers that treat a
// row's tombstone as one plain Tombstone rather than a paired value.
func (rt RowTombstone) AsTombstone() Tombstone {
	return Max(rt.Regular, rt.Shadowable)
}
