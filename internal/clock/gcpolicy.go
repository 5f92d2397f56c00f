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

package clock

import (
	"time"

	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/schema"
)

// GCPolicy answers the one question SSTable-compaction mode needs
// before it can purge a fully-shadowed row or range: how far back from
// now does a tombstone have to have been written before we stop
// worrying that some other replica hasn't seen it yet. A table's grace
// period is schema-derived (it comes from the table's gc_grace_seconds
// property), so it is looked up per table rather than hardcoded.
type GCPolicy interface {
	// GCGraceSeconds returns the table's configured grace period.
	GCGraceSeconds() time.Duration
}

// FixedGCPolicy is a GCPolicy with a single, constant grace period,
// sufficient for any one compaction run against one table.
type FixedGCPolicy struct {
	Grace time.Duration
}

// GCGraceSeconds implements GCPolicy.
func (p FixedGCPolicy) GCGraceSeconds() time.Duration { return p.Grace }

// SchemaGCPolicy reads the grace period straight from a table's
// schema, so a compaction run automatically picks up a per-table
// gc_grace_seconds instead of relying on a single fixed duration.
type SchemaGCPolicy struct {
	Schema schema.Schema
}

// GCGraceSeconds implements GCPolicy.
func (p SchemaGCPolicy) GCGraceSeconds() time.Duration {
	return p.Schema.GCGraceSeconds()
}

// DefaultGCGraceSeconds mirrors the platform default of ten days.
// Neither GCPolicy implementation falls back to it: SchemaGCPolicy
// returns whatever the schema reports, and FixedGCPolicy its own Grace.
const DefaultGCGraceSeconds = 10 * 24 * time.Hour

// GCBefore computes the cutoff instant a tombstone's deletion time
// must be strictly before for it to be eligible for purge: now minus
// the policy's grace period. A tombstone written after this cutoff is
// still within its grace window and must be kept, even if nothing else
// references it, so that a replica that missed the delete has a chance
// to receive it via repair before it disappears everywhere.
func GCBefore(now fragment.WallTime, policy GCPolicy) fragment.WallTime {
	return fragment.NewWallTime(now.Time().Add(-policy.GCGraceSeconds()))
}
