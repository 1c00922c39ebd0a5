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
	"testing"

	"github.com/stretchr/testify/require"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/leaktest"
	"gitee.com/kwbasedb/copdag/pkg/mon"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
)

// unsortedGroupedTable is groupedTable under a name for the callers below,
// whose group IDs are not in runs across handle order, which is exactly
// what HashAggExecutor tolerates and StreamAggExecutor does not.
func unsortedGroupedTable(prefix []byte, groupIDs, values []int64) *storage.MemSnapshot {
	return groupedTable(prefix, groupIDs, values)
}

func TestHashAggGroupsOutOfOrderInput(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prefix := []byte("t1")
	groupIDs := []int64{2, 0, 1, 0, 2}
	values := []int64{1, 10, 100, 20, 2}
	snap := unsortedGroupedTable(prefix, groupIDs, values)
	r := storage.KeyRange{Start: prefix, End: storage.PrefixEnd(prefix)}
	scan := NewTableScanExecutor(snap, []storage.KeyRange{r}, false, false, groupedSchema())
	scan.StartScan()

	agg, err := NewHashAggExecutor(
		scan, []*expr.Expr{expr.Col(1)},
		[]AggFuncDesc{{Kind: AggCount}, {Kind: AggSum, Arg: expr.Col(2)}},
		sqlbase.NewEvalContext(0), nil, nil,
	)
	require.NoError(t, err)

	groups := drainAggGroups(t, agg)
	// first-seen order: group 2 (handle 0), then group 0 (handle 1), then
	// group 1 (handle 2).
	require.Equal(t, [][]int64{
		{2, 2, 3},
		{0, 2, 30},
		{1, 1, 100},
	}, groups)
}

func TestHashAggEmptyInputEmitsNothing(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prefix := []byte("t1")
	snap := unsortedGroupedTable(prefix, nil, nil)
	r := storage.KeyRange{Start: prefix, End: storage.PrefixEnd(prefix)}
	scan := NewTableScanExecutor(snap, []storage.KeyRange{r}, false, false, groupedSchema())
	scan.StartScan()

	agg, err := NewHashAggExecutor(
		scan, []*expr.Expr{expr.Col(1)},
		[]AggFuncDesc{{Kind: AggCount}},
		sqlbase.NewEvalContext(0), nil, nil,
	)
	require.NoError(t, err)
	require.Empty(t, drainAggGroups(t, agg))
}

// TestHashAggBudgetExceededFailsOnNewGroup confirms a tight BoundAccount
// budget causes the first group insertion it cannot afford to fail, rather
// than silently growing past the budget.
func TestHashAggBudgetExceededFailsOnNewGroup(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prefix := []byte("t1")
	groupIDs := []int64{0, 1, 2}
	values := []int64{1, 2, 3}
	snap := unsortedGroupedTable(prefix, groupIDs, values)
	r := storage.KeyRange{Start: prefix, End: storage.PrefixEnd(prefix)}
	scan := NewTableScanExecutor(snap, []storage.KeyRange{r}, false, false, groupedSchema())
	scan.StartScan()

	budget := mon.NewBoundAccount(1) // too small for even one group
	agg, err := NewHashAggExecutor(
		scan, []*expr.Expr{expr.Col(1)},
		[]AggFuncDesc{{Kind: AggCount}},
		sqlbase.NewEvalContext(0), nil, budget,
	)
	require.NoError(t, err)

	_, err = agg.Next(context.Background())
	require.Error(t, err)
}

func TestHashAggUnboundedBudgetAllowsManyGroups(t *testing.T) {
	defer leaktest.AfterTest(t)()
	prefix := []byte("t1")
	groupIDs := []int64{0, 1, 2, 3, 4}
	values := []int64{1, 2, 3, 4, 5}
	snap := unsortedGroupedTable(prefix, groupIDs, values)
	r := storage.KeyRange{Start: prefix, End: storage.PrefixEnd(prefix)}
	scan := NewTableScanExecutor(snap, []storage.KeyRange{r}, false, false, groupedSchema())
	scan.StartScan()

	budget := mon.NewBoundAccount(0) // unlimited
	agg, err := NewHashAggExecutor(
		scan, []*expr.Expr{expr.Col(1)},
		[]AggFuncDesc{{Kind: AggSum, Arg: expr.Col(2)}},
		sqlbase.NewEvalContext(0), nil, budget,
	)
	require.NoError(t, err)
	require.Len(t, drainAggGroups(t, agg), 5)
}
