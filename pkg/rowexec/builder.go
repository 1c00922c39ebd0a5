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
	"github.com/cockroachdb/errors"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/mon"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
)

// NodeType names one stack frame of a PlanSpec, bottom (the scan) to top.
type NodeType int

// The node kinds Build understands, one per executor component.
const (
	NodeTableScan NodeType = iota
	NodeIndexScan
	NodeSelection
	NodeLimit
	NodeTopN
	NodeStreamAgg
	NodeHashAgg
)

// PlanNode is one stack frame's configuration. Only the fields relevant to
// its Type are read; the rest are ignored — one wide struct, tag picks the
// fields, the same shape a processor stack pushed down from a SQL plan
// typically takes.
type PlanNode struct {
	Type NodeType

	// NodeTableScan / NodeIndexScan
	Schema            sqlbase.Schema
	Ranges            []storage.KeyRange
	Desc              bool
	KeyOnly           bool
	IndexUnique       bool
	IndexKeyPrefixLen int

	// NodeSelection
	Conds []*expr.Expr

	// NodeLimit
	Limit uint64

	// NodeTopN
	OrderExprs []*expr.Expr
	OrderDesc  []bool
	K          int

	// NodeStreamAgg / NodeHashAgg
	GroupExprs []*expr.Expr
	AggFuncs   []AggFuncDesc
	MemBudget  int64 // NodeHashAgg only; <= 0 means unbounded
}

// PlanSpec is a linear executor stack, leaf (index 0) to root (last),
// standing in for the wire-deserialized plan the RPC layer (out of scope
// here) would otherwise hand the coprocessor.
type PlanSpec struct {
	Nodes []PlanNode
}

// Build assembles a PlanSpec into a runnable Executor stack against snap.
// It is a thin factory, not a planner: it does not choose access paths,
// join orders, or push-down eligibility (those remain Non-goals).
func Build(snap storage.Snapshot, plan PlanSpec, ctx *sqlbase.EvalContext, evaluator expr.Evaluator) (Executor, error) {
	var cur Executor
	for i, n := range plan.Nodes {
		var err error
		switch n.Type {
		case NodeTableScan:
			if cur != nil {
				return nil, errors.Newf("rowexec: table scan node at position %d must be the bottom of the stack", i)
			}
			cur = NewTableScanExecutor(snap, n.Ranges, n.Desc, n.KeyOnly, n.Schema)
		case NodeIndexScan:
			if cur != nil {
				return nil, errors.Newf("rowexec: index scan node at position %d must be the bottom of the stack", i)
			}
			cur = NewIndexScanExecutor(snap, n.Ranges, n.Desc, n.KeyOnly, n.Schema, n.IndexUnique, n.IndexKeyPrefixLen)
		case NodeSelection:
			cur, err = requireChild(cur, i, "selection")
			if err == nil {
				cur, err = NewSelectionExecutor(cur, n.Conds, ctx, evaluator)
			}
		case NodeLimit:
			cur, err = requireChild(cur, i, "limit")
			if err == nil {
				cur = NewLimitExecutor(cur, n.Limit)
			}
		case NodeTopN:
			cur, err = requireChild(cur, i, "top-n")
			if err == nil {
				cur, err = NewTopNExecutor(cur, n.OrderExprs, n.OrderDesc, n.K, ctx, evaluator)
			}
		case NodeStreamAgg:
			cur, err = requireChild(cur, i, "stream aggregation")
			if err == nil {
				cur, err = NewStreamAggExecutor(cur, n.GroupExprs, n.AggFuncs, ctx, evaluator)
			}
		case NodeHashAgg:
			cur, err = requireChild(cur, i, "hash aggregation")
			if err == nil {
				var mem *mon.BoundAccount
				if n.MemBudget > 0 {
					mem = mon.NewBoundAccount(n.MemBudget)
				}
				cur, err = NewHashAggExecutor(cur, n.GroupExprs, n.AggFuncs, ctx, evaluator, mem)
			}
		default:
			return nil, errors.Newf("rowexec: unknown plan node type %d at position %d", n.Type, i)
		}
		if err != nil {
			return nil, err
		}
	}
	if cur == nil {
		return nil, errors.New("rowexec: empty plan")
	}
	return cur, nil
}

func requireChild(cur Executor, pos int, what string) (Executor, error) {
	if cur == nil {
		return nil, errors.Newf("rowexec: %s node at position %d has no child", what, pos)
	}
	return cur, nil
}
