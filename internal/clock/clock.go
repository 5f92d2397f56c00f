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

// Package clock supplies the compactor with its notion of "now" and
// with the schema-derived policy that turns "now" into a per-table GC
// grace cutoff. Both are injected rather than read from time.Now()
// directly, so a compaction run and a query evaluation can be replayed
// deterministically against a fixed instant.
package clock

import (
	"time"

	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// Clock supplies the current wall-clock instant. Production code uses
// SystemClock; tests pin a FixedClock so expiry and GC-grace
// computations are deterministic.
type Clock interface {
	Now() fragment.WallTime
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() fragment.WallTime {
	return fragment.NewWallTime(time.Now())
}

// FixedClock always reports the same instant, for tests and for
// reproducible compaction of a single SSTable run where every row
// should be judged against one consistent "now".
type FixedClock struct {
	At fragment.WallTime
}

// Now implements Clock.
func (f FixedClock) Now() fragment.WallTime { return f.At }
