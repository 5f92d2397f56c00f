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

// Package nocopy provides a zero-size marker that makes `go vet`'s
// copylocks check flag accidental by-value copies of a struct that
// embeds it.
package nocopy

// NoCopy embed this in any type that captures its own address in a
// closure (as CompactorState does for its can_gc predicate) and must
// therefore never be copied after the closure is created.
//
// Lock and Unlock are unused but give govet's -copylocks analyzer
// something to trip on, the same trick sync.WaitGroup's own noCopy
// type uses.
type NoCopy struct{}

// Lock is a no-op; see type doc.
func (*NoCopy) Lock() {}

// Unlock is a no-op; see type doc.
func (*NoCopy) Unlock() {}
