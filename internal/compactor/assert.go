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
	"fmt"

	"github.com/scylladb/mutation-compactor/internal/util/debug"
)

// assertionError is panicked by assert when debug.Enabled(); it is
// never a recoverable error returned to a caller, because the fatal
// conditions it guards (out-of-order fragments, feeding after an
// unacknowledged stop, a static row after a clustering row, a
// duplicate partition start) are programming errors in the fragment
// producer, not collaborator failures.
type assertionError struct {
	msg string
}

func (e *assertionError) Error() string { return e.msg }

// assert panics with a descriptive assertionError if cond is false and
// debug.Enabled() — gated the way this repository branches on "debug
// build" in the absence of a separate build mode.
func assert(cond bool, format string, args ...interface{}) {
	if cond || !debug.Enabled() {
		return
	}
	panic(&assertionError{msg: fmt.Sprintf(format, args...)})
}
