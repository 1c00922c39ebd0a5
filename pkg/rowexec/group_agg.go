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
	"gitee.com/kwbasedb/copdag/pkg/encoding"
	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// groupAggSpec is shared configuration between StreamAggExecutor and
// HashAggExecutor: the group-by expressions and the aggregate function
// calls, both evaluated against the same inflated input row.
type groupAggSpec struct {
	groupExprs []*expr.Expr
	aggFuncs   []AggFuncDesc
}

// columnOffsets returns the union of column offsets referenced by every
// group expression and every aggregate function's argument, computed once
// at construction time the same way SelectionExecutor computes its union.
func (g groupAggSpec) columnOffsets(schemaLen int) ([]int, error) {
	exprs := make([]*expr.Expr, 0, len(g.groupExprs)+len(g.aggFuncs))
	exprs = append(exprs, g.groupExprs...)
	for _, f := range g.aggFuncs {
		if f.Arg != nil {
			exprs = append(exprs, f.Arg)
		}
	}
	return expr.CollectColumnOffsets(schemaLen, exprs)
}

func (g groupAggSpec) newStates() []AggState {
	states := make([]AggState, len(g.aggFuncs))
	for i, f := range g.aggFuncs {
		states[i] = NewAggState(f)
	}
	return states
}

// evalGroupKey evaluates every group expression against an already
// inflated row, returning both the datum vector and its wire-encoded byte
// form, used both as the AggCols suffix and as the group identity for
// equality/hashing.
func evalGroupKey(
	g groupAggSpec, cols []types.Datum, evaluator expr.Evaluator, ctx *sqlbase.EvalContext,
) ([]types.Datum, []byte, error) {
	key := make([]types.Datum, len(g.groupExprs))
	for i, e := range g.groupExprs {
		d, err := evaluator.Eval(e, cols, ctx)
		if err != nil {
			return nil, nil, err
		}
		key[i] = d
	}
	return key, encoding.EncodeValues(nil, key, false), nil
}

// updateStates feeds one inflated row into every aggregate function's
// state. Count(*) (Arg == nil) is fed a synthetic non-null datum since it
// counts rows, not values.
func updateStates(
	states []AggState, g groupAggSpec, cols []types.Datum, evaluator expr.Evaluator, ctx *sqlbase.EvalContext,
) error {
	for i, f := range g.aggFuncs {
		d := types.NewInt(0)
		if f.Arg != nil {
			var err error
			d, err = evaluator.Eval(f.Arg, cols, ctx)
			if err != nil {
				return err
			}
		}
		if err := states[i].Update(d); err != nil {
			return err
		}
	}
	return nil
}

// finalizeGroup builds an aggregated row: value is the group key datums
// followed by every aggregate function's finalized result, in order
// (group keys come first); suffix is the group key's wire encoding,
// unchanged.
func finalizeGroup(states []AggState, groupKey []types.Datum, keyBytes []byte) sqlbase.Row {
	value := append([]types.Datum{}, groupKey...)
	for _, s := range states {
		value = append(value, s.Finalize()...)
	}
	return sqlbase.AggRow(sqlbase.NewAggCols(value, keyBytes))
}
