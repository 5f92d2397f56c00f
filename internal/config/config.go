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

// Package config contains the user-visible configuration for running
// the mutation compactor, bound to command-line flags through pflag.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Mode selects query vs. SSTable-compaction mode from the command line.
type Mode string

// The two modes a deployment can be started in.
const (
	ModeQuery      Mode = "query"
	ModeCompaction Mode = "compaction"
)

// Config contains the user-visible configuration for running the
// compactor as a standalone process.
type Config struct {
	Mode Mode

	RowLimit       int
	PartitionLimit int
	GCGraceDefault time.Duration

	StagingConnectString string
	SchemaConnectString  string

	MetricsBindAddr string
}

// Bind registers flags on the given FlagSet.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(
		(*string)(&c.Mode),
		"mode",
		string(ModeQuery),
		"operating mode: query or compaction")
	flags.IntVar(
		&c.RowLimit,
		"rowLimit",
		0,
		"maximum live clustering rows to return in query mode; 0 means unlimited")
	flags.IntVar(
		&c.PartitionLimit,
		"partitionLimit",
		0,
		"maximum partitions to touch in query mode; 0 means unlimited")
	flags.DurationVar(
		&c.GCGraceDefault,
		"gcGraceSeconds",
		10*24*time.Hour,
		"default tombstone grace period (must be positive); the compactor takes each table's grace period from its schema and does not consult this value")
	flags.StringVar(
		&c.StagingConnectString,
		"stagingConnection",
		"",
		"connection string for the staging database holding purgeable-timestamp watermarks")
	flags.StringVar(
		&c.SchemaConnectString,
		"schemaConnection",
		"",
		"connection string for the metadata database holding column and grace-period definitions")
	flags.StringVar(
		&c.MetricsBindAddr,
		"metricsBindAddr",
		":9090",
		"the network address the Prometheus metrics endpoint binds to")
}

// Preflight validates the configuration after flags are parsed.
func (c *Config) Preflight() error {
	switch c.Mode {
	case ModeQuery, ModeCompaction:
	default:
		return errors.Errorf("mode must be %q or %q, got %q", ModeQuery, ModeCompaction, c.Mode)
	}
	if c.Mode == ModeCompaction && c.StagingConnectString == "" {
		return errors.New("stagingConnection is required in compaction mode")
	}
	if c.SchemaConnectString == "" {
		return errors.New("schemaConnection unset")
	}
	if c.GCGraceDefault <= 0 {
		return errors.New("gcGraceSeconds must be positive")
	}
	if c.MetricsBindAddr == "" {
		return errors.New("metricsBindAddr unset")
	}
	return nil
}
