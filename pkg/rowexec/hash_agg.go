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

package rowexec

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/mon"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// hashAggGroup is one group's accumulated state, keyed by its wire-encoded
// group key bytes.
type hashAggGroup struct {
	key    []types.Datum
	keyB   []byte
	states []AggState
}

// HashAggExecutor is the full-consumption hash-based aggregator: unlike
// StreamAggExecutor it requires no input ordering, at the cost of holding
// every distinct group in memory at once. Emit order is an explicit
// first-seen list, a deliberate upgrade over leaving it to platform-
// dependent hash-map iteration order.
type HashAggExecutor struct {
	child
	spec      groupAggSpec
	offsets   []int
	ctx       *sqlbase.EvalContext
	evaluator expr.Evaluator
	mem       *mon.BoundAccount

	consumed bool
	order    []string
	groups   map[string]*hashAggGroup
	emitAt   int
}

// NewHashAggExecutor builds a HashAggExecutor. mem may be nil, leaving the
// memory budget unbounded; a non-nil mem causes group insertion to fail
// with a budget-exceeded error instead of growing without bound.
func NewHashAggExecutor(
	src Executor, groupExprs []*expr.Expr, aggFuncs []AggFuncDesc,
	ctx *sqlbase.EvalContext, evaluator expr.Evaluator, mem *mon.BoundAccount,
) (*HashAggExecutor, error) {
	spec := groupAggSpec{groupExprs: groupExprs, aggFuncs: aggFuncs}
	offsets, err := spec.columnOffsets(src.LenOfColumns())
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = expr.DefaultEvaluator{}
	}
	return &HashAggExecutor{
		child:     child{Executor: src},
		spec:      spec,
		offsets:   offsets,
		ctx:       ctx,
		evaluator: evaluator,
		mem:       mem,
		groups:    make(map[string]*hashAggGroup),
	}, nil
}

// Next implements Executor.
func (h *HashAggExecutor) Next(ctx context.Context) (*sqlbase.Row, error) {
	if !h.consumed {
		h.consumed = true
		if err := h.consumeAll(ctx); err != nil {
			return nil, err
		}
	}
	if h.emitAt >= len(h.order) {
		return nil, nil
	}
	g := h.groups[h.order[h.emitAt]]
	h.emitAt++
	row := finalizeGroup(g.states, g.key, g.keyB)
	return &row, nil
}

func (h *HashAggExecutor) consumeAll(ctx context.Context) error {
	for {
		row, err := h.child.Next(ctx)
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}
		cols, err := row.Origin().InflateColsWithOffsets(h.offsets)
		if err != nil {
			return err
		}
		key, keyB, err := evalGroupKey(h.spec, cols, h.evaluator, h.ctx)
		if err != nil {
			return err
		}
		g, ok := h.groups[string(keyB)]
		if !ok {
			if h.mem != nil {
				if err := h.mem.Grow(estimateGroupSize(keyB, len(h.spec.aggFuncs))); err != nil {
					zlog.Warn().Int("groups", len(h.groups)).Msg("hash aggregation exceeded its memory budget")
					return err
				}
			}
			g = &hashAggGroup{key: key, keyB: keyB, states: h.spec.newStates()}
			h.groups[string(keyB)] = g
			h.order = append(h.order, string(keyB))
		}
		if err := updateStates(g.states, h.spec, cols, h.evaluator, h.ctx); err != nil {
			return err
		}
	}
}

// estimateGroupSize is a coarse per-group byte estimate for the memory
// monitor: the key bytes plus a fixed per-aggregate-function overhead,
// good enough to make a budget actually bite without pretending to track
// Go's real allocator overhead exactly.
func estimateGroupSize(keyB []byte, numAggFuncs int) int64 {
	const perAggFuncOverhead = 32
	return int64(len(keyB)) + int64(numAggFuncs)*perAggFuncOverhead
}

// TakeEvalWarnings implements Executor.
func (h *HashAggExecutor) TakeEvalWarnings() []sqlbase.EvalWarning {
	out := h.child.TakeEvalWarnings()
	return append(out, h.ctx.Warnings.Take()...)
}

var _ Executor = (*HashAggExecutor)(nil)
