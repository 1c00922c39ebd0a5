// Copyright 2017 The Cockroach Authors.
// Copyright (c) 2022-present, Shanghai Yunxi Technology Co, Ltd. All rights reserved.
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

// Package rowexec is the coprocessor executor pipeline itself: a linear
// pull-based stack of operators, each implementing the Executor contract.
// Control flow is strictly pull (root.Next propagates down to the scan
// executor); data flows upward, one row at a time.
package rowexec

import (
	"context"

	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
)

// Executor is the pull contract every operator in the pipeline implements.
type Executor interface {
	// Next pulls the next row. A nil row with a nil error is
	// end-of-stream.
	Next(ctx context.Context) (*sqlbase.Row, error)

	// CollectOutputCounts appends per-range row counts (scan executors
	// only; others forward to their child) then resets internal
	// counters.
	CollectOutputCounts(counts *[]int64)

	// CollectMetricsInto appends scan/decoding statistics then resets
	// them.
	CollectMetricsInto(stats *storage.Stats)

	// LenOfColumns returns the schema width this executor emits.
	LenOfColumns() int

	// TakeEvalWarnings drains accumulated evaluation warnings. Returns
	// nil for executors with no evaluator of their own (they forward to
	// their child, or to nothing).
	TakeEvalWarnings() []sqlbase.EvalWarning

	// StartScan and StopScan are meaningful only at the scan executor;
	// every other operator forwards them to its child so that a caller
	// holding only the root of the stack can still drive them.
	StartScan()
	StopScan() *storage.KeyRange
}

// child is embedded by every non-leaf executor so that all of Executor's
// side-channel operations (counts, metrics, warnings, scan control) pass
// through to a single upstream child by default, simply by Go's interface
// embedding promotion (the no-op/return-nil behavior applies only at the
// scan executor, which has no child of its own). Wrapping executors that
// carry their own evaluator (Selection, TopN, StreamAgg, HashAgg) override
// TakeEvalWarnings to
// also drain their own warnings sink on top of what they forward.
type child struct {
	Executor
}
