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

	"gitee.com/kwbasedb/copdag/pkg/coperr"
	"gitee.com/kwbasedb/copdag/pkg/encoding"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// handleKeyWidth is the fixed width of a memcomparable-encoded i64 handle:
// one not-null marker byte plus eight big-endian value bytes (pkg/encoding's
// EncodeVarintAscending).
const handleKeyWidth = 9

// EncodeTableRowKey builds a table row key: a caller-supplied prefix
// (table_id and anything else the caller's key layout needs) followed by
// the handle, memcomparable-encoded.
func EncodeTableRowKey(prefix []byte, handle int64) []byte {
	out := make([]byte, 0, len(prefix)+handleKeyWidth)
	out = append(out, prefix...)
	return encoding.EncodeVarintAscending(out, handle)
}

// decodeTableRowHandle extracts the handle from a table row key's tail:
// the key's final handleKeyWidth bytes, regardless of prefix length, since
// the handle encoding is fixed-width.
func decodeTableRowHandle(key []byte) (int64, error) {
	if len(key) < handleKeyWidth {
		return 0, coperr.NewCodec(errors.New("rowexec: table row key shorter than a handle encoding"))
	}
	_, handle, err := encoding.DecodeVarintAscending(key[len(key)-handleKeyWidth:])
	if err != nil {
		return 0, coperr.NewCodec(err)
	}
	return handle, nil
}

// EncodeIndexKey builds an index key: a caller-supplied prefix (table_id
// and index_id) followed by the memcomparable encoding of each indexed
// column's datum, followed by the handle when the index is non-unique.
// Unique indexes omit the trailing handle from the key entirely — it is
// carried in the value instead (see EncodeUniqueIndexValue).
func EncodeIndexKey(prefix []byte, datums []types.Datum, handle int64, unique bool) []byte {
	out := append([]byte(nil), prefix...)
	for _, d := range datums {
		out = encoding.EncodeKeyDatum(out, d)
	}
	if !unique {
		out = encoding.EncodeVarintAscending(out, handle)
	}
	return out
}

// EncodeUniqueIndexValue builds the value bytes of a unique index entry:
// the handle, wire-encoded.
func EncodeUniqueIndexValue(handle int64) []byte {
	return encoding.EncodeValue(nil, types.NewInt(handle), false)
}
