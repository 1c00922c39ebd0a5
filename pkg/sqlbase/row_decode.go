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

package sqlbase

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"gitee.com/kwbasedb/copdag/pkg/coperr"
	"gitee.com/kwbasedb/copdag/pkg/encoding"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// DecodeRowColsDict splits a stored row's value bytes into a RowColsDict:
// a concatenation of (column_id_varint, datum_body) pairs in unspecified
// order. Columns not present in schema are skipped rather than rejected,
// matching TableScanExecutor's "only columns listed in the request are
// decoded eagerly" — a stored row may carry columns the current request
// does not project.
func DecodeRowColsDict(schema Schema, buf []byte) (RowColsDict, error) {
	wanted := make(map[ColumnID]struct{}, len(schema))
	for _, col := range schema {
		wanted[col.ID] = struct{}{}
	}
	cols := make(map[ColumnID][]byte)
	rest := buf
	for len(rest) > 0 {
		id, n := binary.Uvarint(rest)
		if n <= 0 {
			return RowColsDict{}, coperr.NewCodec(errors.New("malformed column-id varint in row value"))
		}
		rest = rest[n:]
		bodyStart := len(buf) - len(rest)
		after, _, err := encoding.DecodeValue(rest, types.UnknownFamily)
		if err != nil {
			return RowColsDict{}, coperr.NewCodec(err)
		}
		bodyLen := len(rest) - len(after)
		body := buf[bodyStart : bodyStart+bodyLen : bodyStart+bodyLen]
		if _, ok := wanted[ColumnID(id)]; ok {
			cols[ColumnID(id)] = body
		}
		rest = after
	}
	return NewRowColsDict(cols, buf), nil
}

// EncodeRowValue builds a row's stored value bytes from parallel column-id
// and datum slices, the inverse of DecodeRowColsDict. Used by tests and by
// cmd/copdag's smoke-test data loader to construct fixture rows.
func EncodeRowValue(ids []ColumnID, vals []types.Datum) []byte {
	var out []byte
	for i, id := range ids {
		var tmp [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(tmp[:], uint64(id))
		out = append(out, tmp[:n]...)
		out = encoding.EncodeValue(out, vals[i], false)
	}
	return out
}
