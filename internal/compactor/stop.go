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

// StopIteration is the value every consume operation returns: whether
// the caller should stop feeding fragments until a new page is
// started.
type StopIteration bool

const (
	// Continue means the caller may keep feeding fragments.
	Continue StopIteration = false
	// Stop means the caller must cease feeding fragments until
	// StartNewPage is called.
	Stop StopIteration = true
)

// Or reports whether either operand requested a stop; used to fold a
// consumer's returned StopIteration into the state's own latch without
// ever downgrading an already-latched stop.
func (s StopIteration) Or(o StopIteration) StopIteration {
	return s || o
}
