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
	"testing"

	"github.com/stretchr/testify/require"

	"gitee.com/kwbasedb/copdag/pkg/encoding"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

func testSchema() Schema {
	return Schema{
		{ID: 0, Family: types.IntFamily, Flags: ColumnFlagPKHandle | ColumnFlagNotNull},
		{ID: 1, Family: types.IntFamily, Flags: ColumnFlagNotNull},
		{ID: 2, Family: types.StringFamily},
		{ID: 3, Family: types.IntFamily, DefaultVal: encoding.EncodeValue(nil, types.NewInt(99), false)},
	}
}

func TestDecodeRowColsDictAndEncodeRowValueRoundTrip(t *testing.T) {
	schema := testSchema()
	value := EncodeRowValue([]ColumnID{1, 2}, []types.Datum{types.NewInt(5), types.NewString("hi")})
	dict, err := DecodeRowColsDict(schema, value)
	require.NoError(t, err)
	require.Equal(t, 2, dict.Len())

	raw, ok := dict.Get(1)
	require.True(t, ok)
	_, d, err := encoding.DecodeValue(raw, types.IntFamily)
	require.NoError(t, err)
	require.Equal(t, int64(5), d.Int())
}

func TestOriginColsInflateAppliesHandleDefaultAndNull(t *testing.T) {
	schema := testSchema()
	value := EncodeRowValue([]ColumnID{1}, []types.Datum{types.NewInt(5)})
	dict, err := DecodeRowColsDict(schema, value)
	require.NoError(t, err)

	origin := NewOriginCols(42, dict, schema)
	cols, err := origin.InflateColsWithOffsets([]int{0, 1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, int64(42), cols[0].Int(), "offset 0 is the PK handle column")
	require.Equal(t, int64(5), cols[1].Int())
	require.True(t, cols[2].Null, "column 2 was never stored and has no default")
	require.Equal(t, int64(99), cols[3].Int(), "column 3 falls back to its declared default")
}

func TestOriginColsMissingNotNullColumnIsAnError(t *testing.T) {
	schema := Schema{
		{ID: 0, Family: types.IntFamily, Flags: ColumnFlagPKHandle},
		{ID: 1, Family: types.IntFamily, Flags: ColumnFlagNotNull},
	}
	dict, err := DecodeRowColsDict(schema, nil)
	require.NoError(t, err)
	origin := NewOriginCols(1, dict, schema)
	_, err = origin.InflateColsWithOffsets([]int{1})
	require.Error(t, err)
}

func TestRowUnionPanicsOnKindMismatch(t *testing.T) {
	row := OriginRow(OriginCols{})
	require.Panics(t, func() { row.Agg() })

	agg := AggRow(AggCols{})
	require.Panics(t, func() { agg.Origin() })
}

func TestAggColsGetBinaryAppendsSuffixUnchanged(t *testing.T) {
	suffix := []byte{0xAB, 0xCD}
	agg := NewAggCols([]types.Datum{types.NewInt(3)}, suffix)
	out := agg.GetBinary()
	require.Equal(t, suffix, out[len(out)-len(suffix):])
}
