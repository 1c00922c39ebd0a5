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
	"container/heap"
	"context"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// topNEntry is one retained candidate: its evaluated sort key alongside the
// original row. Deliberately no insertion counter is attached — ties among
// sort keys break by heap order, which this module does not make stable.
type topNEntry struct {
	key []types.Datum
	row sqlbase.Row
}

// topNHeap is a bounded max-heap over topNEntry.key under a multi-column,
// per-column-direction composite order: its root is always the worst
// (largest, under the requested composite order) of the currently retained
// candidates, so TopNExecutor can cheaply test "does this new row beat the
// current worst" and evict in O(log k).
type topNHeap struct {
	entries    []topNEntry
	dirs       []bool // true = descending, per order_expr
	nullsOrder types.NullsOrdering
}

func (h *topNHeap) Len() int { return len(h.entries) }

func (h *topNHeap) Less(i, j int) bool {
	return compareSortKeys(h.entries[i].key, h.entries[j].key, h.dirs, h.nullsOrder) > 0
}

func (h *topNHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *topNHeap) Push(x interface{}) { h.entries = append(h.entries, x.(topNEntry)) }

func (h *topNHeap) Pop() interface{} {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return e
}

// compareSortKeys compares two composite sort keys lexicographically,
// applying dirs[i] (descending) per column, and nullsOrder to each
// pairwise null comparison.
func compareSortKeys(a, b []types.Datum, dirs []bool, nullsOrder types.NullsOrdering) int {
	for i := range a {
		cmp := types.Compare(a[i], b[i], nullsOrder)
		if dirs[i] {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}

// TopNExecutor is the bounded top-N operator: on first Next it fully
// consumes its child, retaining only the k best rows under a composite
// order, then emits them in ascending composite order on subsequent calls.
type TopNExecutor struct {
	child
	orderExprs []*expr.Expr
	dirs       []bool
	k          int
	ctx        *sqlbase.EvalContext
	evaluator  expr.Evaluator
	offsets    []int

	heap     *topNHeap
	consumed bool
	drained  []topNEntry
	drainAt  int
}

// NewTopNExecutor builds a TopNExecutor. orderExprs and dirs must be the
// same length: dirs[i] is true when orderExprs[i] sorts descending.
func NewTopNExecutor(
	src Executor, orderExprs []*expr.Expr, dirs []bool, k int,
	ctx *sqlbase.EvalContext, evaluator expr.Evaluator,
) (*TopNExecutor, error) {
	offsets, err := expr.CollectColumnOffsets(src.LenOfColumns(), orderExprs)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = expr.DefaultEvaluator{}
	}
	return &TopNExecutor{
		child:      child{Executor: src},
		orderExprs: orderExprs,
		dirs:       dirs,
		k:          k,
		ctx:        ctx,
		evaluator:  evaluator,
		offsets:    offsets,
		heap:       &topNHeap{dirs: dirs, nullsOrder: ctx.NullsOrdering()},
	}, nil
}

// Next implements Executor.
func (t *TopNExecutor) Next(ctx context.Context) (*sqlbase.Row, error) {
	if !t.consumed {
		t.consumed = true
		if err := t.consumeAll(ctx); err != nil {
			return nil, err
		}
	}
	if t.drainAt >= len(t.drained) {
		return nil, nil
	}
	row := t.drained[t.drainAt].row
	t.drainAt++
	return &row, nil
}

func (t *TopNExecutor) consumeAll(ctx context.Context) error {
	for {
		row, err := t.child.Next(ctx)
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		key, err := t.sortKey(row)
		if err != nil {
			return err
		}
		entry := topNEntry{key: key, row: *row}
		switch {
		case t.heap.Len() < t.k:
			heap.Push(t.heap, entry)
		case t.heap.Len() > 0 && compareSortKeys(entry.key, t.heap.entries[0].key, t.dirs, t.ctx.NullsOrdering()) < 0:
			heap.Pop(t.heap)
			heap.Push(t.heap, entry)
		}
	}

	drained := make([]topNEntry, 0, t.heap.Len())
	for t.heap.Len() > 0 {
		drained = append(drained, heap.Pop(t.heap).(topNEntry))
	}
	// heap.Pop yields the current worst (largest under the composite order)
	// first, i.e. descending order overall; reverse for ascending emission.
	for i, j := 0, len(drained)-1; i < j; i, j = i+1, j-1 {
		drained[i], drained[j] = drained[j], drained[i]
	}
	t.drained = drained
	return nil
}

func (t *TopNExecutor) sortKey(row *sqlbase.Row) ([]types.Datum, error) {
	cols, err := row.Origin().InflateColsWithOffsets(t.offsets)
	if err != nil {
		return nil, err
	}
	key := make([]types.Datum, len(t.orderExprs))
	for i, e := range t.orderExprs {
		d, err := t.evaluator.Eval(e, cols, t.ctx)
		if err != nil {
			return nil, err
		}
		key[i] = d
	}
	return key, nil
}

// TakeEvalWarnings implements Executor, draining both the child's warnings
// and whatever this executor's own evaluator recorded evaluating order_exprs.
func (t *TopNExecutor) TakeEvalWarnings() []sqlbase.EvalWarning {
	out := t.child.TakeEvalWarnings()
	return append(out, t.ctx.Warnings.Take()...)
}

var _ Executor = (*TopNExecutor)(nil)
