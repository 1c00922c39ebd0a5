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
	"gitee.com/kwbasedb/copdag/pkg/coperr"
	"gitee.com/kwbasedb/copdag/pkg/encoding"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// IndexScanExecutor decodes index rows: each key holds the memcomparable
// encoding of the indexed columns' datums, in index-column
// order, behind a caller-fixed prefix (table_id, index_id); the handle is
// either the key's trailing datum (non-unique index) or the key's value
// bytes (unique index).
type IndexScanExecutor struct {
	*ScanExecutor
	indexSchema  sqlbase.Schema // synthetic column_ids, one per indexed column, in key order
	unique       bool
	keyPrefixLen int
}

// NewIndexScanExecutor builds an IndexScanExecutor. keyPrefixLen is the
// number of leading key bytes to skip before the first indexed column's
// encoding begins (the table_id/index_id prefix the caller's key layout
// uses).
func NewIndexScanExecutor(
	snap storage.Snapshot, ranges []storage.KeyRange, desc, keyOnly bool,
	indexSchema sqlbase.Schema, unique bool, keyPrefixLen int,
) *IndexScanExecutor {
	e := &IndexScanExecutor{indexSchema: indexSchema, unique: unique, keyPrefixLen: keyPrefixLen}
	e.ScanExecutor = NewScanExecutor(snap, ranges, desc, keyOnly, indexSchema.Len(), e.decodeRow)
	return e
}

func (e *IndexScanExecutor) decodeRow(kv storage.KV) (sqlbase.Row, error) {
	rest := kv.Key[e.keyPrefixLen:]
	cols := make(map[sqlbase.ColumnID][]byte, len(e.indexSchema))
	for _, col := range e.indexSchema {
		var (
			d   types.Datum
			err error
		)
		rest, d, err = encoding.DecodeKeyDatum(rest, col.Family)
		if err != nil {
			return sqlbase.Row{}, coperr.NewCodec(err)
		}
		cols[col.ID] = encoding.EncodeValue(nil, d, false)
	}

	var handle int64
	if e.unique {
		_, hd, err := encoding.DecodeValue(kv.Value, types.IntFamily)
		if err != nil {
			return sqlbase.Row{}, coperr.NewCodec(err)
		}
		handle = hd.Int()
	} else {
		_, hd, err := encoding.DecodeKeyDatum(rest, types.IntFamily)
		if err != nil {
			return sqlbase.Row{}, coperr.NewCodec(err)
		}
		handle = hd.Int()
	}

	dict := sqlbase.NewRowColsDict(cols, kv.Value)
	return sqlbase.OriginRow(sqlbase.NewOriginCols(handle, dict, e.indexSchema)), nil
}

var _ Executor = (*IndexScanExecutor)(nil)
