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
	"bytes"
	"context"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// StreamAggExecutor implements run-length aggregation over a child already
// sorted by the group-by expressions: it keeps exactly one group's state
// in memory, finalizing and starting a new one the instant the group key
// changes.
type StreamAggExecutor struct {
	child
	spec      groupAggSpec
	offsets   []int
	ctx       *sqlbase.EvalContext
	evaluator expr.Evaluator

	started    bool
	done       bool
	states     []AggState
	curKey     []types.Datum
	curKeyB    []byte
}

// NewStreamAggExecutor builds a StreamAggExecutor. The caller is
// responsible for the child actually being sorted by groupExprs — this
// executor does not verify it.
func NewStreamAggExecutor(
	src Executor, groupExprs []*expr.Expr, aggFuncs []AggFuncDesc,
	ctx *sqlbase.EvalContext, evaluator expr.Evaluator,
) (*StreamAggExecutor, error) {
	spec := groupAggSpec{groupExprs: groupExprs, aggFuncs: aggFuncs}
	offsets, err := spec.columnOffsets(src.LenOfColumns())
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = expr.DefaultEvaluator{}
	}
	return &StreamAggExecutor{
		child:     child{Executor: src},
		spec:      spec,
		offsets:   offsets,
		ctx:       ctx,
		evaluator: evaluator,
	}, nil
}

func (a *StreamAggExecutor) inflate(row *sqlbase.Row) ([]types.Datum, error) {
	return row.Origin().InflateColsWithOffsets(a.offsets)
}

func (a *StreamAggExecutor) consume(row *sqlbase.Row) error {
	cols, err := a.inflate(row)
	if err != nil {
		return err
	}
	return updateStates(a.states, a.spec, cols, a.evaluator, a.ctx)
}

// Next implements Executor, in three steps: initialize from the first
// row, fold matching rows into the running state, and finalize (returning
// the completed group) the instant a different key is seen or the child
// is exhausted.
func (a *StreamAggExecutor) Next(ctx context.Context) (*sqlbase.Row, error) {
	if a.done {
		return nil, nil
	}
	if !a.started {
		a.started = true
		row, err := a.child.Next(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			a.done = true
			return nil, nil
		}
		cols, err := a.inflate(row)
		if err != nil {
			return nil, err
		}
		key, keyB, err := evalGroupKey(a.spec, cols, a.evaluator, a.ctx)
		if err != nil {
			return nil, err
		}
		a.curKey, a.curKeyB = key, keyB
		a.states = a.spec.newStates()
		if err := updateStates(a.states, a.spec, cols, a.evaluator, a.ctx); err != nil {
			return nil, err
		}
	}

	for {
		row, err := a.child.Next(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			result := finalizeGroup(a.states, a.curKey, a.curKeyB)
			a.done = true
			return &result, nil
		}
		cols, err := a.inflate(row)
		if err != nil {
			return nil, err
		}
		key, keyB, err := evalGroupKey(a.spec, cols, a.evaluator, a.ctx)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(keyB, a.curKeyB) {
			if err := updateStates(a.states, a.spec, cols, a.evaluator, a.ctx); err != nil {
				return nil, err
			}
			continue
		}
		result := finalizeGroup(a.states, a.curKey, a.curKeyB)
		a.curKey, a.curKeyB = key, keyB
		a.states = a.spec.newStates()
		if err := updateStates(a.states, a.spec, cols, a.evaluator, a.ctx); err != nil {
			return nil, err
		}
		return &result, nil
	}
}

// TakeEvalWarnings implements Executor.
func (a *StreamAggExecutor) TakeEvalWarnings() []sqlbase.EvalWarning {
	out := a.child.TakeEvalWarnings()
	return append(out, a.ctx.Warnings.Take()...)
}

var _ Executor = (*StreamAggExecutor)(nil)
