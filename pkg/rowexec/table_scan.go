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
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
)

// TableScanExecutor is the bottom-most executor of a table scan: it
// decodes each row's value bytes into a RowColsDict and pulls the handle
// from the row key's fixed-width tail, regardless of how much prefix
// (table id, etc.) precedes it.
type TableScanExecutor struct {
	*ScanExecutor
	schema sqlbase.Schema
}

// NewTableScanExecutor builds a TableScanExecutor over ranges of table-row
// keys. schema is the full column set the request projects; only the
// columns actually present in a given row's value bytes (intersected with
// schema) are decoded eagerly.
func NewTableScanExecutor(
	snap storage.Snapshot, ranges []storage.KeyRange, desc, keyOnly bool, schema sqlbase.Schema,
) *TableScanExecutor {
	t := &TableScanExecutor{schema: schema}
	t.ScanExecutor = NewScanExecutor(snap, ranges, desc, keyOnly, schema.Len(), t.decodeRow)
	return t
}

func (t *TableScanExecutor) decodeRow(kv storage.KV) (sqlbase.Row, error) {
	handle, err := decodeTableRowHandle(kv.Key)
	if err != nil {
		return sqlbase.Row{}, err
	}
	dict, err := sqlbase.DecodeRowColsDict(t.schema, kv.Value)
	if err != nil {
		return sqlbase.Row{}, err
	}
	return sqlbase.OriginRow(sqlbase.NewOriginCols(handle, dict, t.schema)), nil
}

var _ Executor = (*TableScanExecutor)(nil)
