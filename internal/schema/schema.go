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

// Package schema defines the metadata collaborator the compactor
// consults for column definitions, the row-range slice a query wants,
// and a self-handle usable from the can_gc predicate's enclosing
// scope. Concrete, database-backed implementations live in
// internal/schema/sqlschema.
package schema

import (
	"time"

	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// ColumnDef describes one column's declared shape; the compactor only
// ever needs to know whether a column carries a TTL policy by default,
// which bottoms out in the cell's own TTL field at runtime, so ColumnDef
// is intentionally thin.
type ColumnDef struct {
	Id   fragment.ColumnId
	Kind fragment.ColumnKind
	Name string
}

// Schema is the table metadata the compactor needs from its caller:
// column lookups by kind and id, a handle that outlives a single call,
// and the unrestricted full-table slice.
type Schema interface {
	// ColumnAt looks up a column definition by kind and id.
	ColumnAt(kind fragment.ColumnKind, id fragment.ColumnId) (ColumnDef, bool)

	// SharedSelfHandle returns a handle to this schema that outlives
	// any one compaction call, for collaborators (like GCPolicy) that
	// need to look up grace period lazily, once per partition, without
	// holding a reference to the compactor itself.
	SharedSelfHandle() Schema

	// FullSlice returns the unrestricted row range: every clustering
	// and static column, no per-partition limit.
	FullSlice() fragment.PartitionSlice

	// GCGraceSeconds returns this table's configured tombstone grace
	// period, consulted by internal/clock.GCPolicy implementations that
	// are schema-driven rather than fixed.
	GCGraceSeconds() time.Duration
}
