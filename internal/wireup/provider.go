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

// Package wireup assembles the compactor's collaborators with
// google/wire: a provider Set describing how each piece is built from
// the process Config, and a hand-authored wire_gen.go standing in for
// what `wire` would otherwise generate.
package wireup

import (
	"context"

	"github.com/google/wire"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scylladb/mutation-compactor/internal/clock"
	compactorpkg "github.com/scylladb/mutation-compactor/internal/compactor"
	"github.com/scylladb/mutation-compactor/internal/config"
	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/oracle"
	"github.com/scylladb/mutation-compactor/internal/oracle/sqloracle"
	"github.com/scylladb/mutation-compactor/internal/schema"
	"github.com/scylladb/mutation-compactor/internal/schema/sqlschema"
)

// Set is used by Wire.
var Set = wire.NewSet(
	ProvideSchema,
	ProvideOracle,
	ProvideGCPolicy,
	ProvideClock,
	ProvideCompactorState,
)

// ProvideSchema is called by wire to open and load the schema store
// named by Config.
func ProvideSchema(ctx context.Context, cfg *config.Config, tableName string) (schema.Schema, error) {
	driver := sqlschema.DriverPostgres
	sch, err := sqlschema.Open(ctx, driver, cfg.SchemaConnectString, tableName)
	if err != nil {
		return nil, errors.Wrap(err, "opening schema store")
	}
	if err := sch.Load(ctx); err != nil {
		return nil, errors.Wrap(err, "loading schema")
	}
	return sch, nil
}

// ProvideOracle is called by wire. It returns oracle.NeverPurgeable in
// query mode, since query mode never consults an oracle.
func ProvideOracle(ctx context.Context, cfg *config.Config) (oracle.PurgeableOracle, error) {
	if cfg.Mode != config.ModeCompaction {
		return oracle.NeverPurgeable{}, nil
	}
	pool, err := openStagingPool(ctx, cfg.StagingConnectString)
	if err != nil {
		return nil, err
	}
	return sqloracle.New(pool), nil
}

// ProvideGCPolicy is called by wire.
func ProvideGCPolicy(sch schema.Schema) clock.GCPolicy {
	return clock.SchemaGCPolicy{Schema: sch}
}

// ProvideClock is called by wire.
func ProvideClock() clock.Clock {
	return clock.SystemClock{}
}

// ProvideCompactorState is called by wire to build the mode-correct
// CompactorState; the caller binds it to concrete consumers with
// compactor.NewCompactor.
func ProvideCompactorState(
	cfg *config.Config, sch schema.Schema, purgeableOracle oracle.PurgeableOracle, clk clock.Clock,
) *compactorpkg.CompactorState {
	now := clk.Now()
	logger := log.WithField("component", "compactor")
	if cfg.Mode == config.ModeCompaction {
		return compactorpkg.NewCompactionState(sch, now, purgeableOracle, logger)
	}
	slice := fragment.FullSlice()
	rowLimit, partitionLimit := cfg.RowLimit, cfg.PartitionLimit
	if rowLimit <= 0 {
		rowLimit = unboundedLimit
	}
	if partitionLimit <= 0 {
		partitionLimit = unboundedLimit
	}
	return compactorpkg.NewQueryState(sch, now, slice, rowLimit, partitionLimit, logger)
}

const unboundedLimit = int(^uint(0) >> 1)
