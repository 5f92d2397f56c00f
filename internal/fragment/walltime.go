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

// Package fragment contains the data types and interfaces that define
// the mutation compactor's fragment vocabulary: the tagged-variant
// stream (partition start, static row, clustering row, range tombstone
// change, partition end) and the value types those fragments carry.
//
// The goal of keeping this vocabulary in one package, separate from
// the compactor logic itself, is to make it easy to share the same
// types between the compactor, its collaborators (schema, clock,
// oracle), and any fragment producer or consumer without creating
// import cycles.
package fragment

import "time"

// Timestamp is a mutation write timestamp. Higher values are newer.
type Timestamp int64

// MinTimestamp is lower than every real timestamp a mutation can carry.
const MinTimestamp Timestamp = -1 << 63

// WallTime is a wall-clock instant, used for deletion times, gc_before
// cutoffs, and query/compaction times. The zero WallTime is ordered
// before every non-zero WallTime, so an unset deletion time never
// outranks a real one.
type WallTime struct {
	t time.Time
}

// NewWallTime wraps a time.Time as a WallTime.
func NewWallTime(t time.Time) WallTime { return WallTime{t: t} }

// IsZero reports whether this is the empty WallTime.
func (w WallTime) IsZero() bool { return w.t.IsZero() }

// Time returns the underlying time.Time.
func (w WallTime) Time() time.Time { return w.t }

// Compare returns -1, 0, or 1 as w is before, equal to, or after o.
func (w WallTime) Compare(o WallTime) int {
	switch {
	case w.t.Before(o.t):
		return -1
	case w.t.After(o.t):
		return 1
	default:
		return 0
	}
}

// Before reports whether w sorts strictly before o.
func (w WallTime) Before(o WallTime) bool { return w.Compare(o) < 0 }

// String implements fmt.Stringer.
func (w WallTime) String() string {
	if w.IsZero() {
		return "WallTime{}"
	}
	return w.t.UTC().Format(time.RFC3339Nano)
}
