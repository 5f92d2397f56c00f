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

// Package sqlschema implements schema.Schema against a metadata table
// reachable over database/sql, registering both the Postgres and MySQL
// drivers; the Driver passed to Open selects which one is used. Load's
// queries use Postgres-style $1 placeholders, which the MySQL driver
// does not accept, so Load succeeds only against a Postgres-family
// store.
package sqlschema

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql" // register mysql driver
	_ "github.com/lib/pq"              // register postgres driver
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scylladb/mutation-compactor/internal/fragment"
	"github.com/scylladb/mutation-compactor/internal/schema"
)

// Driver names a registered database/sql driver. Deployments point the
// compactor's schema store at either family depending on where their
// metadata catalog lives.
type Driver string

// The two driver families wired into this package.
const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Schema loads column definitions and a table's GC grace period from a
// metadata table when Load is called and caches them, since neither
// changes within the lifetime of one compaction run.
type Schema struct {
	db        *sql.DB
	tableName string

	loaded  bool
	columns map[columnKey]schema.ColumnDef
	grace   time.Duration
}

type columnKey struct {
	kind fragment.ColumnKind
	id   fragment.ColumnId
}

// Open opens a database/sql connection for the given driver and
// connect string and returns a Schema bound to tableName.
func Open(ctx context.Context, driver Driver, connectString, tableName string) (*Schema, error) {
	db, err := sql.Open(string(driver), connectString)
	if err != nil {
		return nil, errors.Wrap(err, "opening schema store connection")
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "pinging schema store")
	}
	log.WithFields(log.Fields{"driver": driver, "table": tableName}).Info("opened schema store")
	return &Schema{db: db, tableName: tableName, columns: make(map[columnKey]schema.ColumnDef)}, nil
}

// Load populates the column and grace-period cache. Until Load
// succeeds, ColumnAt finds no column and GCGraceSeconds returns zero.
func (s *Schema) Load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT column_id, column_kind, column_name FROM compactor_columns WHERE table_name = $1`,
		s.tableName)
	if err != nil {
		return errors.Wrap(err, "loading column definitions")
	}
	defer rows.Close()

	for rows.Next() {
		var def schema.ColumnDef
		var kind int
		if err := rows.Scan(&def.Id, &kind, &def.Name); err != nil {
			return errors.Wrap(err, "scanning column definition")
		}
		def.Kind = fragment.ColumnKind(kind)
		s.columns[columnKey{kind: def.Kind, id: def.Id}] = def
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "iterating column definitions")
	}

	var graceSeconds int64
	row := s.db.QueryRowContext(ctx,
		`SELECT gc_grace_seconds FROM compactor_tables WHERE table_name = $1`, s.tableName)
	if err := row.Scan(&graceSeconds); err != nil {
		return errors.Wrap(err, "loading gc grace period")
	}
	s.grace = time.Duration(graceSeconds) * time.Second
	s.loaded = true
	return nil
}

// ColumnAt implements schema.Schema.
func (s *Schema) ColumnAt(kind fragment.ColumnKind, id fragment.ColumnId) (schema.ColumnDef, bool) {
	def, ok := s.columns[columnKey{kind: kind, id: id}]
	return def, ok
}

// SharedSelfHandle implements schema.Schema.
func (s *Schema) SharedSelfHandle() schema.Schema { return s }

// FullSlice implements schema.Schema.
func (s *Schema) FullSlice() fragment.PartitionSlice {
	full := fragment.FullSlice()
	full.HasClusteringSelector = true
	return full
}

// GCGraceSeconds implements schema.Schema.
func (s *Schema) GCGraceSeconds() time.Duration { return s.grace }

// Close releases the underlying connection.
func (s *Schema) Close() error { return s.db.Close() }
