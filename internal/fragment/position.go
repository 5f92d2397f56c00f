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

import "bytes"

// positionKind orders the sentinels relative to real clustering keys:
// partition_start < static_row < key(...) < after_key(...) < end_of_partition.
// after_key(k) sorts immediately after k but before any other key
// greater than k, which is what lets a synthesized "close the range
// right after the last row we saw" position slot in correctly.
type positionKind uint8

const (
	kindPartitionStart positionKind = iota
	kindStaticRow
	kindClusteringKey
	kindAfterKey
	kindEndOfPartition
)

// ClusteringKey is an opaque, pre-encoded clustering key. Ordering
// among clustering keys is a plain byte-wise comparison; whatever
// encodes the key upstream is responsible for making that comparison
// match the schema's declared clustering order.
type ClusteringKey []byte

// Compare does a byte-wise comparison of two clustering keys.
func (k ClusteringKey) Compare(o ClusteringKey) int {
	return bytes.Compare(k, o)
}

// Position is a totally ordered cursor over a partition's clustering
// space, constructed through the constructors below:
// PartitionStartPosition(), StaticRowPosition(), Key(k), AfterKey(pos),
// and EndOfPartition().
type Position struct {
	kind positionKind
	key  ClusteringKey
}

// PartitionStartPosition is the position before any row in the partition.
func PartitionStartPosition() Position { return Position{kind: kindPartitionStart} }

// StaticRowPosition is the position of the partition's static row.
func StaticRowPosition() Position { return Position{kind: kindStaticRow} }

// Key returns the position of the clustering row identified by k.
func Key(k ClusteringKey) Position { return Position{kind: kindClusteringKey, key: k} }

// AfterKey returns the position immediately after pos, used to
// synthesize the closing edge of a range tombstone at a resumable
// pagination boundary.
func AfterKey(pos Position) Position {
	return Position{kind: kindAfterKey, key: pos.key}
}

// EndOfPartition is the position after every row in the partition.
func EndOfPartition() Position { return Position{kind: kindEndOfPartition} }

// ClusteringKey reports the clustering key this position carries, if any.
func (p Position) ClusteringKey() ClusteringKey { return p.key }

// IsPartitionStart reports whether p is the partition-start sentinel.
func (p Position) IsPartitionStart() bool { return p.kind == kindPartitionStart }

// IsEndOfPartition reports whether p is the end-of-partition sentinel.
func (p Position) IsEndOfPartition() bool { return p.kind == kindEndOfPartition }

// Compare returns -1, 0, or 1 as p sorts before, at, or after o.
//
// The two sentinels that carry a clustering key, key(k) and after(k),
// are not ordered by kind alone: after(k) must sort between k and
// every key greater than k, not after every keyed position regardless
// of its key. So whenever both sides carry a key, the key bytes decide
// first, and kind only breaks a tie between key(k) and after(k) at the
// same k. Sentinels with no key (partition_start, static_row,
// end_of_partition) fall back to ordering by kind.
func (p Position) Compare(o Position) int {
	pHasKey := p.kind == kindClusteringKey || p.kind == kindAfterKey
	oHasKey := o.kind == kindClusteringKey || o.kind == kindAfterKey
	if pHasKey && oHasKey {
		if c := p.key.Compare(o.key); c != 0 {
			return c
		}
		if p.kind == o.kind {
			return 0
		}
		if p.kind < o.kind {
			return -1
		}
		return 1
	}
	if p.kind != o.kind {
		if p.kind < o.kind {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether p sorts strictly before o.
func (p Position) Less(o Position) bool { return p.Compare(o) < 0 }

// String renders a position for logging.
func (p Position) String() string {
	switch p.kind {
	case kindPartitionStart:
		return "<partition-start>"
	case kindStaticRow:
		return "<static-row>"
	case kindClusteringKey:
		return "key(" + string(p.key) + ")"
	case kindAfterKey:
		return "after(" + string(p.key) + ")"
	case kindEndOfPartition:
		return "<end-of-partition>"
	default:
		return "<unknown-position>"
	}
}
