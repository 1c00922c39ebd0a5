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

package expr

import (
	"fmt"

	"gitee.com/kwbasedb/copdag/pkg/coperr"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// Evaluator is the eval(Expr, Row, Ctx) -> Datum collaborator this
// package pins as an external dependency. cols is the already-inflated
// datum slice for the current row (see sqlbase.OriginCols.
// InflateColsWithOffsets); operators inflate only the columns their
// expressions actually reference before calling Eval.
type Evaluator interface {
	Eval(e *Expr, cols []types.Datum, ctx *sqlbase.EvalContext) (types.Datum, error)
}

// DefaultEvaluator is the minimal concrete Evaluator this module ships so
// the rest of the pipeline (Selection, TopN, aggregate inputs) is
// testable without a real SQL expression engine wired in. It is
// swappable: any type implementing Evaluator can be substituted at
// executor-construction time.
type DefaultEvaluator struct{}

// Eval implements Evaluator.
func (DefaultEvaluator) Eval(e *Expr, cols []types.Datum, ctx *sqlbase.EvalContext) (types.Datum, error) {
	return evalNode(e, cols, ctx)
}

func evalNode(e *Expr, cols []types.Datum, ctx *sqlbase.EvalContext) (types.Datum, error) {
	switch e.Tp {
	case ColumnRef:
		offset := int(e.ColumnOffset())
		if offset < 0 || offset >= len(cols) {
			return types.Datum{}, coperr.NewSchema(offset, len(cols))
		}
		return cols[offset], nil
	case ConstInt, ConstUint, ConstFloat, ConstString, ConstNull:
		return constDatum(e), nil
	case OpAnd, OpOr, OpNot:
		return evalBoolConnective(e, cols, ctx)
	case OpEQ, OpNE, OpLT, OpLE, OpGT, OpGE:
		return evalComparison(e, cols, ctx)
	default:
		return warnOrFail(ctx, types.UnknownFamily, fmt.Sprintf("unsupported expression type %d", e.Tp))
	}
}

func evalBoolConnective(e *Expr, cols []types.Datum, ctx *sqlbase.EvalContext) (types.Datum, error) {
	switch e.Tp {
	case OpNot:
		v, err := evalNode(e.Children[0], cols, ctx)
		if err != nil {
			return types.Datum{}, err
		}
		if v.Null {
			return v, nil
		}
		return types.NewInt(boolToInt(v.Int() == 0)), nil
	case OpAnd:
		l, err := evalNode(e.Children[0], cols, ctx)
		if err != nil {
			return types.Datum{}, err
		}
		if !l.Null && l.Int() == 0 {
			return types.NewInt(0), nil
		}
		r, err := evalNode(e.Children[1], cols, ctx)
		if err != nil {
			return types.Datum{}, err
		}
		if !r.Null && r.Int() == 0 {
			return types.NewInt(0), nil
		}
		if l.Null || r.Null {
			return types.NullDatum(types.IntFamily), nil
		}
		return types.NewInt(1), nil
	case OpOr:
		l, err := evalNode(e.Children[0], cols, ctx)
		if err != nil {
			return types.Datum{}, err
		}
		if !l.Null && l.Int() != 0 {
			return types.NewInt(1), nil
		}
		r, err := evalNode(e.Children[1], cols, ctx)
		if err != nil {
			return types.Datum{}, err
		}
		if !r.Null && r.Int() != 0 {
			return types.NewInt(1), nil
		}
		if l.Null || r.Null {
			return types.NullDatum(types.IntFamily), nil
		}
		return types.NewInt(0), nil
	default:
		return warnOrFail(ctx, types.IntFamily, "unreachable boolean connective")
	}
}

func evalComparison(e *Expr, cols []types.Datum, ctx *sqlbase.EvalContext) (types.Datum, error) {
	l, err := evalNode(e.Children[0], cols, ctx)
	if err != nil {
		return types.Datum{}, err
	}
	r, err := evalNode(e.Children[1], cols, ctx)
	if err != nil {
		return types.Datum{}, err
	}
	if l.Null || r.Null {
		return types.NullDatum(types.IntFamily), nil
	}
	if l.Family != r.Family {
		return warnOrFail(ctx, types.IntFamily, fmt.Sprintf("type mismatch comparing %s and %s", l.Family, r.Family))
	}
	cmp := types.Compare(l, r, ctx.NullsOrdering())
	var result bool
	switch e.Tp {
	case OpEQ:
		result = cmp == 0
	case OpNE:
		result = cmp != 0
	case OpLT:
		result = cmp < 0
	case OpLE:
		result = cmp <= 0
	case OpGT:
		result = cmp > 0
	case OpGE:
		result = cmp >= 0
	}
	return types.NewInt(boolToInt(result)), nil
}

// warnOrFail implements this package's Eval error classification: under
// sqlbase.ModeStrict the condition is fatal and propagates as an error;
// otherwise it is recorded as a warning on ctx.Warnings and evaluation
// proceeds as if the expression had produced null.
func warnOrFail(ctx *sqlbase.EvalContext, resultFamily types.Family, message string) (types.Datum, error) {
	if ctx.Mode&sqlbase.ModeStrict != 0 {
		return types.Datum{}, coperr.NewEval(fmt.Errorf("%s", message))
	}
	ctx.Warnings.Add(message)
	return types.NullDatum(resultFamily), nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Eval is the package-level convenience entry point using DefaultEvaluator,
// matching the "eval(Expr, Row, Ctx) -> Datum" signature shape the rest of
// the pipeline expects from an Evaluator.
func Eval(e *Expr, cols []types.Datum, ctx *sqlbase.EvalContext) (types.Datum, error) {
	return DefaultEvaluator{}.Eval(e, cols, ctx)
}
