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

// Command mutation-compactor runs the compactor core against an
// in-memory demo fragment producer and exposes its metrics over HTTP:
// this is ambient scaffolding, not part of the core's public contract.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/scylladb/mutation-compactor/internal/compactor"
	"github.com/scylladb/mutation-compactor/internal/config"
	"github.com/scylladb/mutation-compactor/internal/metrics"
	"github.com/scylladb/mutation-compactor/internal/wireup"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("mutation-compactor exiting")
	}
}

func run() error {
	cfg := &config.Config{}
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()
	if err := cfg.Preflight(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("received shutdown signal, stopping")
		cancel()
	}()

	go serveMetrics(cfg.MetricsBindAddr)

	state, err := wireup.InitializeCompactor(ctx, cfg, "demo_table")
	if err != nil {
		return errors.Wrap(err, "initializing compactor")
	}

	consumers := newLoggingConsumers(string(cfg.Mode))
	c := compactor.NewCompactor(state, consumers, consumers)

	if err := driveDemoStream(ctx, c, string(cfg.Mode)); err != nil {
		return errors.Wrap(err, "driving demo fragment stream")
	}
	return nil
}

// serveMetrics binds the Prometheus handler; a failure here is logged
// but never fatal, since metrics are observability, not correctness.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Warn("metrics server stopped")
	}
}

// driveDemoStream feeds a small, hand-built fragment stream through c
// and stops at the first context cancellation or consumer error, the
// way a real page-driver would stop at the first StopIteration.
func driveDemoStream(ctx context.Context, c *compactor.Compactor, mode string) error {
	started := time.Now()
	for _, partition := range demoPartitions() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := feedPartition(ctx, c, partition); err != nil {
			return err
		}
	}
	mainErr, gcErr := c.ConsumeEndOfStream()
	metrics.RecordPage(mode, c.GetState().Stats(), time.Since(started).Seconds())
	if mainErr != nil {
		return errors.Wrap(mainErr, "main consumer end of stream")
	}
	if gcErr != nil {
		return errors.Wrap(gcErr, "gc consumer end of stream")
	}
	log.Info("demo stream complete")
	return nil
}

func feedPartition(ctx context.Context, c *compactor.Compactor, p demoPartition) error {
	c.ConsumeNewPartition(p.key)
	if !p.tombstone.IsEmpty() {
		if err := c.ConsumePartitionTombstone(ctx, p.tombstone); err != nil {
			return err
		}
	}
	for _, row := range p.clusteringRows {
		if _, err := c.ConsumeClusteringRow(ctx, row); err != nil {
			return err
		}
	}
	if _, err := c.ConsumeEndOfPartition(ctx); err != nil {
		return err
	}
	return nil
}
