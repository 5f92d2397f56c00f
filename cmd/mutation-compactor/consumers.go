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

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/scylladb/mutation-compactor/internal/compactor"
	"github.com/scylladb/mutation-compactor/internal/fragment"
)

// loggingConsumers implements both compactor.MainConsumer and
// compactor.GCConsumer by logging every fragment (partition starts,
// clustering rows and end of stream at info level, everything else at
// trace level); a single instance is bound as both, so its logs do not
// say which of the two streams a fragment came from.
type loggingConsumers struct {
	mode string
}

func newLoggingConsumers(mode string) *loggingConsumers {
	return &loggingConsumers{mode: mode}
}

func (c *loggingConsumers) ConsumeNewPartition(dk fragment.DecoratedKey) {
	log.WithFields(log.Fields{"mode": c.mode, "key": string(dk.RawKey)}).Info("partition start")
}

func (c *loggingConsumers) ConsumeTombstone(t fragment.Tombstone) {
	log.WithFields(log.Fields{"mode": c.mode, "empty": t.IsEmpty()}).Trace("partition tombstone")
}

func (c *loggingConsumers) ConsumeStaticRow(
	sr fragment.StaticRow, effective fragment.RowTombstone, isLive bool,
) compactor.StopIteration {
	log.WithFields(log.Fields{"mode": c.mode, "live": isLive}).Trace("static row")
	return compactor.Continue
}

func (c *loggingConsumers) ConsumeClusteringRow(
	cr fragment.ClusteringRow, effective fragment.RowTombstone, isLive bool,
) compactor.StopIteration {
	log.WithFields(log.Fields{
		"mode": c.mode,
		"pos":  cr.Position.String(),
		"live": isLive,
	}).Info("clustering row")
	return compactor.Continue
}

func (c *loggingConsumers) ConsumeRangeTombstoneChange(
	rtc fragment.RangeTombstoneChange,
) compactor.StopIteration {
	log.WithFields(log.Fields{"mode": c.mode, "pos": rtc.Position.String()}).Trace("range tombstone change")
	return compactor.Continue
}

func (c *loggingConsumers) ConsumeEndOfPartition() compactor.StopIteration {
	log.WithField("mode", c.mode).Trace("partition end")
	return compactor.Continue
}

func (c *loggingConsumers) ConsumeEndOfStream() error {
	log.WithField("mode", c.mode).Info("end of stream")
	return nil
}
