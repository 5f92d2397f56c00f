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
	log "github.com/sirupsen/logrus"

	"github.com/scylladb/mutation-compactor/internal/clock"
	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/schema"
)

// NewQueryState builds a CompactorState in query mode: limits are
// enforced, no GC buffer is allocated, and the GC consumer path is
// never exercised (can_gc is unconditionally true but nothing routes
// to G because that routing is gated on ModeCompaction).
func NewQueryState(
	sch schema.Schema,
	queryTime fragment.WallTime,
	slice fragment.PartitionSlice,
	rowLimit, partitionLimit int,
	logger *log.Entry,
) *CompactorState {
	s := newState(ModeQuery, sch, queryTime, logger)
	s.slice = slice
	s.rowLimit = rowLimit
	s.partitionLimit = partitionLimit
	s.gcPolicy = clock.SchemaGCPolicy{Schema: sch}
	return s
}
