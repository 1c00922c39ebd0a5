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

	"github.com/cockroachdb/errors"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// SelectionExecutor filters its child's rows by a conjunction of boolean
// expressions. A row survives only if every condition evaluates true; null
// is treated as false, matching three-valued SQL boolean semantics.
type SelectionExecutor struct {
	child
	conds     []*expr.Expr
	offsets   []int
	ctx       *sqlbase.EvalContext
	evaluator expr.Evaluator
}

// NewSelectionExecutor builds a SelectionExecutor. conds must be non-empty.
// evaluator may be nil, in which case expr.DefaultEvaluator is used.
func NewSelectionExecutor(
	src Executor, conds []*expr.Expr, ctx *sqlbase.EvalContext, evaluator expr.Evaluator,
) (*SelectionExecutor, error) {
	if len(conds) == 0 {
		return nil, errors.New("rowexec: SelectionExecutor requires at least one condition")
	}
	offsets, err := expr.CollectColumnOffsets(src.LenOfColumns(), conds)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = expr.DefaultEvaluator{}
	}
	return &SelectionExecutor{
		child:     child{Executor: src},
		conds:     conds,
		offsets:   offsets,
		ctx:       ctx,
		evaluator: evaluator,
	}, nil
}

// Next implements Executor.
func (s *SelectionExecutor) Next(ctx context.Context) (*sqlbase.Row, error) {
	for {
		row, err := s.child.Next(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		cols, err := row.Origin().InflateColsWithOffsets(s.offsets)
		if err != nil {
			return nil, err
		}
		keep, err := s.evalConds(cols)
		if err != nil {
			return nil, err
		}
		if keep {
			return row, nil
		}
	}
}

func (s *SelectionExecutor) evalConds(cols []types.Datum) (bool, error) {
	for _, cond := range s.conds {
		d, err := s.evaluator.Eval(cond, cols, s.ctx)
		if err != nil {
			return false, err
		}
		if d.Null || d.Int() == 0 {
			return false, nil
		}
	}
	return true, nil
}

// TakeEvalWarnings implements Executor, draining both the child's warnings
// and whatever this executor's own evaluator recorded against ctx.
func (s *SelectionExecutor) TakeEvalWarnings() []sqlbase.EvalWarning {
	out := s.child.TakeEvalWarnings()
	return append(out, s.ctx.Warnings.Take()...)
}

var _ Executor = (*SelectionExecutor)(nil)
