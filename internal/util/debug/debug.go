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

// Package debug gates expensive, panic-on-violation assertions behind
// an environment variable, since Go has no separate debug/release
// build mode to branch on the way some other languages do.
package debug

import "os"

// envVar is checked once at package init; set MUTATION_COMPACTOR_DEBUG
// to any non-empty value to enable assertions in internal/compactor.
const envVar = "MUTATION_COMPACTOR_DEBUG"

var enabled = os.Getenv(envVar) != ""

// Enabled reports whether debug assertions should run.
func Enabled() bool { return enabled }

// SetEnabled overrides the env-derived default, for tests that want to
// exercise assertion panics deterministically.
func SetEnabled(v bool) { enabled = v }
