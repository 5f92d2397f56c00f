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
	"github.com/scylladb/mutation-compactor/internal/gcbuffer"
	"github.com/scylladb/mutation-compactor/internal/oracle"
	"github.com/scylladb/mutation-compactor/internal/schema"
)

// NewCompactionState builds a CompactorState in SSTable-compaction
// mode: no row/partition limits, a single GC scratch buffer allocated
// up front, and purged fragments forwarded to the GC consumer.
func NewCompactionState(
	sch schema.Schema,
	compactionTime fragment.WallTime,
	purgeableOracle oracle.PurgeableOracle,
	logger *log.Entry,
) *CompactorState {
	s := newState(ModeCompaction, sch, compactionTime, logger)
	s.slice = sch.FullSlice()
	s.rowLimit = unbounded
	s.partitionLimit = unbounded
	s.oracle = purgeableOracle
	s.gcPolicy = clock.SchemaGCPolicy{Schema: sch}
	s.gcBuf = gcbuffer.New()
	return s
}
