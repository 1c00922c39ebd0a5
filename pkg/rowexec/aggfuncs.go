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
	"github.com/cockroachdb/apd/v2"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// AggFuncKind names one of the minimum set of aggregate functions this
// package supports.
type AggFuncKind int

// The aggregate function kinds this module implements.
const (
	AggCount AggFuncKind = iota
	AggSum
	AggAvg
	AggMin
	AggMax
	AggFirst
)

// AggFuncDesc describes one aggregate-function call in a StreamAgg or
// HashAgg plan: which function, over which input expression. Arg is nil
// for Count(*): nulls are ignored by Count(expr) but counted by Count(*).
type AggFuncDesc struct {
	Kind AggFuncKind
	Arg  *expr.Expr
	// Final controls Avg's Finalize shape: false emits the (count, sum)
	// pair a non-final aggregation stage forwards upward; true emits the
	// quotient.
	Final bool
}

// AggState is a single aggregate function's running state machine: feed it
// datums with Update, read the result with Finalize. One AggState exists
// per (aggregate function, group) pair.
type AggState interface {
	Update(d types.Datum) error
	Finalize() []types.Datum
}

// NewAggState builds a fresh, zero-valued state for desc.
func NewAggState(desc AggFuncDesc) AggState {
	switch desc.Kind {
	case AggCount:
		return &countState{isStar: desc.Arg == nil}
	case AggSum:
		return &sumState{}
	case AggAvg:
		return &avgState{final: desc.Final}
	case AggMin:
		return &extremeState{wantMax: false}
	case AggMax:
		return &extremeState{wantMax: true}
	case AggFirst:
		return &firstState{}
	default:
		panic("rowexec: unknown aggregate function kind")
	}
}

// countState implements Count(expr) and Count(*): the latter (isStar) also
// counts null inputs, the former skips them.
type countState struct {
	isStar bool
	count  int64
}

func (s *countState) Update(d types.Datum) error {
	if d.Null && !s.isStar {
		return nil
	}
	s.count++
	return nil
}

func (s *countState) Finalize() []types.Datum { return []types.Datum{types.NewInt(s.count)} }

var decimalSumContext = apd.BaseContext.WithPrecision(34)

// sumState implements Sum: nulls are skipped; empty input yields null.
type sumState struct {
	seen    bool
	family  types.Family
	intSum  int64
	fltSum  float64
	decSum  apd.Decimal
}

func (s *sumState) Update(d types.Datum) error {
	if d.Null {
		return nil
	}
	s.seen = true
	s.family = d.Family
	switch d.Family {
	case types.FloatFamily:
		s.fltSum += d.Float()
	case types.DecimalFamily:
		dec := d.Decimal()
		var res apd.Decimal
		if _, err := decimalSumContext.Add(&res, &s.decSum, &dec); err != nil {
			return err
		}
		s.decSum = res
	default:
		s.intSum += d.Int()
	}
	return nil
}

func (s *sumState) Finalize() []types.Datum {
	if !s.seen {
		return []types.Datum{types.NullDatum(types.IntFamily)}
	}
	switch s.family {
	case types.FloatFamily:
		return []types.Datum{types.NewFloat(s.fltSum)}
	case types.DecimalFamily:
		return []types.Datum{types.NewDecimal(s.decSum)}
	default:
		return []types.Datum{types.NewInt(s.intSum)}
	}
}

// avgState implements Avg, sharing sumState's accumulation and adding a
// row count: emits (count, sum) when the enclosing scope is non-final,
// otherwise the quotient.
type avgState struct {
	sumState
	count int64
	final bool
}

func (s *avgState) Update(d types.Datum) error {
	if d.Null {
		return nil
	}
	s.count++
	return s.sumState.Update(d)
}

func (s *avgState) Finalize() []types.Datum {
	if !s.final {
		return []types.Datum{types.NewInt(s.count), s.sumState.Finalize()[0]}
	}
	if s.count == 0 {
		return []types.Datum{types.NullDatum(types.FloatFamily)}
	}
	sum := s.sumState.Finalize()[0]
	var total float64
	switch sum.Family {
	case types.FloatFamily:
		total = sum.Float()
	case types.DecimalFamily:
		total, _ = sum.Decimal().Float64()
	default:
		total = float64(sum.Int())
	}
	return []types.Datum{types.NewFloat(total / float64(s.count))}
}

// extremeState implements Min (wantMax=false) and Max (wantMax=true):
// nulls are skipped, empty input yields null.
type extremeState struct {
	wantMax bool
	seen    bool
	value   types.Datum
}

func (s *extremeState) Update(d types.Datum) error {
	if d.Null {
		return nil
	}
	if !s.seen {
		s.value, s.seen = d, true
		return nil
	}
	cmp := types.Compare(d, s.value, types.NullsLast)
	if (s.wantMax && cmp > 0) || (!s.wantMax && cmp < 0) {
		s.value = d
	}
	return nil
}

func (s *extremeState) Finalize() []types.Datum {
	if !s.seen {
		return []types.Datum{types.NullDatum(types.UnknownFamily)}
	}
	return []types.Datum{s.value}
}

// firstState implements First: the value of the first row seen in the
// group, null or not — unlike Sum/Avg/Min/Max, First has no null-skipping
// rule.
type firstState struct {
	seen  bool
	value types.Datum
}

func (s *firstState) Update(d types.Datum) error {
	if s.seen {
		return nil
	}
	s.value, s.seen = d, true
	return nil
}

func (s *firstState) Finalize() []types.Datum {
	if !s.seen {
		return []types.Datum{types.NullDatum(types.UnknownFamily)}
	}
	return []types.Datum{s.value}
}
