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

// Command copdag assembles a small executor stack over an in-memory
// snapshot and runs it to completion, printing every emitted row. It
// exists for manual smoke-testing of the pipeline without a real RPC
// transport or storage engine in front of it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"gitee.com/kwbasedb/copdag/pkg/expr"
	"gitee.com/kwbasedb/copdag/pkg/rowexec"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

const (
	handleColID sqlbase.ColumnID = 0
	amountColID sqlbase.ColumnID = 1
)

func main() {
	var (
		numRows   = pflag.Int("rows", 10, "number of demo table rows to generate")
		minAmount = pflag.Int64("min-amount", 0, "selection threshold: only rows with amount >= this value pass")
		limit     = pflag.Uint64("limit", 0, "cap the number of output rows; 0 means unbounded")
		topN      = pflag.Int("top-n", 0, "if > 0, keep only the top-n rows ordered by amount descending instead of applying --limit")
		groupBy   = pflag.Bool("group", false, "count and sum amounts per handle (one group per row) via a hash aggregation instead of emitting rows directly")
		desc      = pflag.Bool("desc", false, "scan the table in descending handle order")
		strict    = pflag.Bool("strict", false, "fail the query on evaluation errors instead of warning and treating the expression as null")
		logLevel  = pflag.String("log-level", "info", "zerolog level: debug, info, warn, error")
	)
	pflag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "copdag: invalid log level %q: %v\n", *logLevel, err)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(level)
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	if err := run(*numRows, *minAmount, *limit, *topN, *groupBy, *desc, *strict, log); err != nil {
		log.Error().Err(err).Msg("copdag: query failed")
		os.Exit(1)
	}
}

// run builds the demo table, assembles the requested executor stack, and
// prints every row it emits.
func run(numRows int, minAmount int64, limit uint64, topN int, groupBy, desc, strict bool, log zerolog.Logger) error {
	schema := sqlbase.Schema{
		{ID: handleColID, Family: types.IntFamily, Flags: sqlbase.ColumnFlagPKHandle | sqlbase.ColumnFlagNotNull},
		{ID: amountColID, Family: types.IntFamily, Flags: sqlbase.ColumnFlagNotNull},
	}

	tablePrefix := []byte("t1")
	kvs := make(map[string][]byte, numRows)
	for i := 0; i < numRows; i++ {
		handle := int64(i)
		amount := int64((i%7)*10 + 1)
		key := rowexec.EncodeTableRowKey(tablePrefix, handle)
		value := sqlbase.EncodeRowValue([]sqlbase.ColumnID{amountColID}, []types.Datum{types.NewInt(amount)})
		kvs[string(key)] = value
	}
	snap := storage.NewMemSnapshot(kvs)

	ranges := []storage.KeyRange{{Start: tablePrefix, End: storage.PrefixEnd(tablePrefix)}}

	mode := sqlbase.SQLMode(0)
	if strict {
		mode = sqlbase.ModeStrict
	}
	ctx := sqlbase.NewEvalContext(mode)
	evaluator := expr.DefaultEvaluator{}

	nodes := []rowexec.PlanNode{
		{Type: rowexec.NodeTableScan, Schema: schema, Ranges: ranges, Desc: desc},
		{
			Type:  rowexec.NodeSelection,
			Conds: []*expr.Expr{expr.Ge(expr.Col(1), expr.ConstIntVal(minAmount))},
		},
	}
	switch {
	case groupBy:
		nodes = append(nodes, rowexec.PlanNode{
			Type:       rowexec.NodeHashAgg,
			GroupExprs: []*expr.Expr{expr.Col(0)},
			AggFuncs: []rowexec.AggFuncDesc{
				{Kind: rowexec.AggCount},
				{Kind: rowexec.AggSum, Arg: expr.Col(1)},
			},
		})
	case topN > 0:
		nodes = append(nodes, rowexec.PlanNode{
			Type:       rowexec.NodeTopN,
			OrderExprs: []*expr.Expr{expr.Col(1)},
			OrderDesc:  []bool{true},
			K:          topN,
		})
	case limit > 0:
		nodes = append(nodes, rowexec.PlanNode{Type: rowexec.NodeLimit, Limit: limit})
	}

	plan := rowexec.PlanSpec{Nodes: nodes}
	exec, err := rowexec.Build(snap, plan, ctx, evaluator)
	if err != nil {
		return err
	}

	runCtx := context.Background()
	outputOffsets := []int{0, 1}
	n := 0
	for {
		row, err := exec.Next(runCtx)
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		printRow(log, n, *row, outputOffsets)
		n++
	}

	var stats storage.Stats
	exec.CollectMetricsInto(&stats)
	for _, w := range exec.TakeEvalWarnings() {
		log.Warn().Msg(w.Message)
	}
	log.Info().Int("rowsEmitted", n).Int64("keysScanned", stats.KeysScanned).
		Int64("bytesScanned", stats.BytesScanned).Int64("seeksDone", stats.SeeksDone).
		Msg("query complete")
	return nil
}

func printRow(log zerolog.Logger, n int, row sqlbase.Row, outputOffsets []int) {
	if row.Kind == sqlbase.RowKindAgg {
		agg := row.Agg()
		fmt.Printf("row %d (agg):", n)
		for _, d := range agg.Value {
			fmt.Printf(" %s", d.String())
		}
		fmt.Println()
		return
	}
	origin := row.Origin()
	cols, err := origin.InflateColsWithOffsets(outputOffsets)
	if err != nil {
		log.Error().Err(err).Msg("copdag: failed to inflate row for printing")
		return
	}
	fmt.Printf("row %d: handle=%d amount=%s\n", n, origin.Handle, cols[1].String())
}
