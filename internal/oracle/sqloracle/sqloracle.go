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

// Package sqloracle implements oracle.PurgeableOracle against a
// staging database: a table of per-partition-token watermarks,
// advanced by every node in the cluster as it durably applies
// mutations for that token range. The oracle's answer for a key is
// just the minimum watermark across all nodes that own the key's
// token range, which is exactly what a staging table keyed by
// (token_range, node_id) -> watermark lets a single query compute.
package sqloracle

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// Oracle answers MaxPurgeable by querying a Postgres-compatible
// staging pool for the lowest watermark recorded against the token
// range containing a key.
type Oracle struct {
	pool *pgxpool.Pool
	// query is parameterized by ($1 token), returning one int8
	// timestamp: the minimum watermark across replicas owning that
	// token's range, or NULL if the range has never reported one.
	query string
}

// New builds an Oracle against an already-opened pool. The watermark
// table and its schema are assumed to have been provisioned out of
// band; New does not attempt to create it.
func New(pool *pgxpool.Pool) *Oracle {
	return &Oracle{
		pool: pool,
		query: `SELECT MIN(watermark) FROM compactor_watermarks
                WHERE token_range_start <= $1 AND token_range_end > $1`,
	}
}

// MaxPurgeable implements oracle.PurgeableOracle.
func (o *Oracle) MaxPurgeable(ctx context.Context, key fragment.DecoratedKey) (fragment.Timestamp, error) {
	var watermark *int64
	if err := o.pool.QueryRow(ctx, o.query, key.Token).Scan(&watermark); err != nil {
		return fragment.MinTimestamp, errors.Wrap(err, "querying purgeable watermark")
	}
	if watermark == nil {
		log.WithField("token", key.Token).Trace("no watermark reported for token range yet")
		return fragment.MinTimestamp, nil
	}
	return fragment.Timestamp(*watermark), nil
}
