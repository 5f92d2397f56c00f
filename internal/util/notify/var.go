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

// Package notify provides a single-writer, multi-reader observable
// value: a Var[T] lets one goroutine publish successive snapshots of T
// while any number of others poll or wait for the next change without
// the publisher knowing who, or how many, are watching.
package notify

import "sync"

// Var holds the latest value of T along with a channel that is closed
// every time Set replaces it, so callers holding an old channel can
// select on it to learn a newer value is available.
type Var[T any] struct {
	mu      sync.Mutex
	value   T
	changed chan struct{}
}

// NewVar constructs a Var with an initial value.
func NewVar[T any](initial T) *Var[T] {
	return &Var[T]{value: initial, changed: make(chan struct{})}
}

// Get returns the current value and a channel that will be closed the
// next time Set is called. A caller that wants to wait for the next
// change selects on the returned channel; it must call Get again
// afterward to see the new value (the channel itself carries no data).
func (v *Var[T]) Get() (T, <-chan struct{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.changed
}

// Set replaces the value and wakes every goroutine waiting on a
// previously returned channel.
func (v *Var[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
	close(v.changed)
	v.changed = make(chan struct{})
}
