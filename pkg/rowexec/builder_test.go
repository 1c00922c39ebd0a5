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
	"testing"

	"github.com/stretchr/testify/require"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/leaktest"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
)

func TestBuildScanSelectLimitStack(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prefix := []byte("t1")
	kvs, r := demoTableKVs(prefix, 10) // column 1 = handle*10
	snap := storage.NewMemSnapshot(kvs)

	plan := PlanSpec{Nodes: []PlanNode{
		{Type: NodeTableScan, Schema: demoSchema(), Ranges: []storage.KeyRange{r}},
		{Type: NodeSelection, Conds: []*expr.Expr{expr.Ge(expr.Col(1), expr.ConstIntVal(50))}},
		{Type: NodeLimit, Limit: 2},
	}}

	exec, err := Build(snap, plan, sqlbase.NewEvalContext(0), nil)
	require.NoError(t, err)
	require.Equal(t, []int64{5, 6}, drainHandles(t, exec))
}

func TestBuildScanTopNStack(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prefix := []byte("t1")
	kvs, r := demoTableKVs(prefix, 5)
	snap := storage.NewMemSnapshot(kvs)

	plan := PlanSpec{Nodes: []PlanNode{
		{Type: NodeTableScan, Schema: demoSchema(), Ranges: []storage.KeyRange{r}},
		{Type: NodeTopN, OrderExprs: []*expr.Expr{expr.Col(1)}, OrderDesc: []bool{true}, K: 2},
	}}

	exec, err := Build(snap, plan, sqlbase.NewEvalContext(0), nil)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 3}, drainHandles(t, exec))
}

func TestBuildScanHashAggStack(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prefix := []byte("t1")
	snap := groupedTable(prefix, []int64{0, 1, 0, 1}, []int64{1, 2, 3, 4})
	r := storage.KeyRange{Start: prefix, End: storage.PrefixEnd(prefix)}

	plan := PlanSpec{Nodes: []PlanNode{
		{Type: NodeTableScan, Schema: groupedSchema(), Ranges: []storage.KeyRange{r}},
		{
			Type:       NodeHashAgg,
			GroupExprs: []*expr.Expr{expr.Col(1)},
			AggFuncs:   []AggFuncDesc{{Kind: AggSum, Arg: expr.Col(2)}},
		},
	}}

	exec, err := Build(snap, plan, sqlbase.NewEvalContext(0), nil)
	require.NoError(t, err)
	groups := drainAggGroups(t, exec)
	require.Equal(t, [][]int64{{0, 4}, {1, 6}}, groups)
}

func TestBuildRejectsEmptyPlan(t *testing.T) {
	_, err := Build(storage.NewMemSnapshot(nil), PlanSpec{}, sqlbase.NewEvalContext(0), nil)
	require.Error(t, err)
}

func TestBuildRejectsSelectionWithNoChild(t *testing.T) {
	plan := PlanSpec{Nodes: []PlanNode{
		{Type: NodeSelection, Conds: []*expr.Expr{expr.ConstIntVal(1)}},
	}}
	_, err := Build(storage.NewMemSnapshot(nil), plan, sqlbase.NewEvalContext(0), nil)
	require.Error(t, err)
}

func TestBuildRejectsSecondScanNode(t *testing.T) {
	prefix := []byte("t1")
	_, r := demoTable(prefix, 1)
	plan := PlanSpec{Nodes: []PlanNode{
		{Type: NodeTableScan, Schema: demoSchema(), Ranges: []storage.KeyRange{r}},
		{Type: NodeTableScan, Schema: demoSchema(), Ranges: []storage.KeyRange{r}},
	}}
	_, err := Build(storage.NewMemSnapshot(nil), plan, sqlbase.NewEvalContext(0), nil)
	require.Error(t, err)
}
