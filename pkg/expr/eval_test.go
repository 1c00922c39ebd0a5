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
	"testing"

	"github.com/stretchr/testify/require"

	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

func TestEvalColumnRefAndConst(t *testing.T) {
	ctx := sqlbase.NewEvalContext(0)
	cols := []types.Datum{types.NewInt(7), types.NewString("hi")}

	d, err := Eval(Col(0), cols, ctx)
	require.NoError(t, err)
	require.Equal(t, int64(7), d.Int())

	d, err = Eval(ConstIntVal(42), cols, ctx)
	require.NoError(t, err)
	require.Equal(t, int64(42), d.Int())
}

func TestEvalComparisons(t *testing.T) {
	ctx := sqlbase.NewEvalContext(0)
	cols := []types.Datum{types.NewInt(5)}

	cases := []struct {
		e    *Expr
		want int64
	}{
		{Eq(Col(0), ConstIntVal(5)), 1},
		{Eq(Col(0), ConstIntVal(6)), 0},
		{Lt(Col(0), ConstIntVal(6)), 1},
		{Ge(Col(0), ConstIntVal(5)), 1},
		{Gt(Col(0), ConstIntVal(5)), 0},
	}
	for _, c := range cases {
		d, err := Eval(c.e, cols, ctx)
		require.NoError(t, err)
		require.Equal(t, c.want, d.Int())
	}
}

func TestEvalBooleanConnectivesWithNulls(t *testing.T) {
	ctx := sqlbase.NewEvalContext(0)
	cols := []types.Datum{}

	// true AND null -> null
	v, err := Eval(And(ConstIntVal(1), ConstNullVal()), cols, ctx)
	require.NoError(t, err)
	require.True(t, v.Null)

	// false AND null -> false (short-circuits, does not propagate null)
	v, err = Eval(And(ConstIntVal(0), ConstNullVal()), cols, ctx)
	require.NoError(t, err)
	require.False(t, v.Null)
	require.Equal(t, int64(0), v.Int())

	// false OR null -> null
	v, err = Eval(Or(ConstIntVal(0), ConstNullVal()), cols, ctx)
	require.NoError(t, err)
	require.True(t, v.Null)

	// true OR null -> true (short-circuits)
	v, err = Eval(Or(ConstIntVal(1), ConstNullVal()), cols, ctx)
	require.NoError(t, err)
	require.False(t, v.Null)
	require.Equal(t, int64(1), v.Int())

	// NOT null -> null
	v, err = Eval(Not(ConstNullVal()), cols, ctx)
	require.NoError(t, err)
	require.True(t, v.Null)
}

func TestEvalNullComparisonYieldsNull(t *testing.T) {
	ctx := sqlbase.NewEvalContext(0)
	cols := []types.Datum{}
	v, err := Eval(Eq(ConstNullVal(), ConstIntVal(1)), cols, ctx)
	require.NoError(t, err)
	require.True(t, v.Null)
}

func TestEvalColumnRefOutOfRangeIsError(t *testing.T) {
	ctx := sqlbase.NewEvalContext(0)
	cols := []types.Datum{types.NewInt(1)}
	v, err := Eval(Col(5), cols, ctx)
	require.Error(t, err, "evalNode surfaces an out-of-range column ref directly, not via warnOrFail")
	_ = v
}

func TestEvalUnsupportedExpressionPermissiveVsStrict(t *testing.T) {
	bogus := &Expr{Tp: 999}

	permissive := sqlbase.NewEvalContext(0)
	v, err := Eval(bogus, nil, permissive)
	require.NoError(t, err)
	require.True(t, v.Null)
	require.NotEmpty(t, permissive.Warnings.Take())

	strict := sqlbase.NewEvalContext(sqlbase.ModeStrict)
	_, err = Eval(bogus, nil, strict)
	require.Error(t, err)
}
