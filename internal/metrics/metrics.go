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

// Package metrics exposes Prometheus counters and histograms for the
// compactor's own activity: rows/partitions touched, synthetic dead
// rows forwarded to the GC consumer, and pages produced.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// modeLabel is the one dimension every compactor metric is split by:
// the two operating modes share an engine but have very different
// steady-state shapes (query mode is latency-sensitive, compaction
// mode is throughput-sensitive).
var modeLabel = []string{"mode"}

var (
	partitionsCompacted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compactor_partitions_total",
		Help: "the number of partitions the compactor has processed",
	}, modeLabel)

	staticRowsCompacted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compactor_static_rows_total",
		Help: "the number of static rows the compactor has processed, by liveness",
	}, []string{"mode", "live"})

	clusteringRowsCompacted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compactor_clustering_rows_total",
		Help: "the number of clustering rows the compactor has processed, by liveness",
	}, []string{"mode", "live"})

	rangeTombstonesCompacted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compactor_range_tombstones_total",
		Help: "the number of range-tombstone changes the compactor has processed",
	}, modeLabel)

	gcRowsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compactor_gc_rows_total",
		Help: "the number of synthetic dead rows forwarded to the GC consumer",
	}, modeLabel)

	pageDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "compactor_page_duration_seconds",
		Help:    "the length of time it took to process one page of fragments",
		Buckets: prometheus.DefBuckets,
	}, modeLabel)

	pagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compactor_pages_total",
		Help: "the number of pages the compactor has completed",
	}, modeLabel)
)

// RecordPage folds a page's CompactionStats into the package metrics
// and observes how long the page took to process.
func RecordPage(mode string, stats fragment.CompactionStats, seconds float64) {
	partitionsCompacted.WithLabelValues(mode).Add(float64(stats.Partitions))
	staticRowsCompacted.WithLabelValues(mode, "true").Add(float64(stats.StaticRows.Live))
	staticRowsCompacted.WithLabelValues(mode, "false").Add(float64(stats.StaticRows.Dead))
	clusteringRowsCompacted.WithLabelValues(mode, "true").Add(float64(stats.ClusteringRows.Live))
	clusteringRowsCompacted.WithLabelValues(mode, "false").Add(float64(stats.ClusteringRows.Dead))
	rangeTombstonesCompacted.WithLabelValues(mode).Add(float64(stats.RangeTombstones))
	pageDurations.WithLabelValues(mode).Observe(seconds)
	pagesProcessed.WithLabelValues(mode).Inc()
}

// RecordGCRow increments the count of synthetic dead rows forwarded to
// the GC consumer, one call per static or clustering row drained from
// the GC buffer.
func RecordGCRow(mode string) {
	gcRowsEmitted.WithLabelValues(mode).Inc()
}
