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

package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitee.com/kwbasedb/copdag/pkg/types"
)

func TestEncodeDecodeValueRoundTrip(t *testing.T) {
	cases := []types.Datum{
		types.NewInt(-7),
		types.NewUint(42),
		types.NewString("hello"),
		types.NewBytes([]byte{1, 2, 3}),
		types.NullDatum(types.IntFamily),
	}
	for _, d := range cases {
		b := EncodeValue(nil, d, true)
		rest, got, err := DecodeValue(b, d.Family)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, d.Null, got.Null)
		if !d.Null {
			require.Equal(t, d.String(), got.String())
		}
	}
}

func TestEncodeValueUnsignedFlagCollapse(t *testing.T) {
	d := types.NewUint(9)
	withFlag := EncodeValue(nil, d, true)
	withoutFlag := EncodeValue(nil, d, false)
	require.NotEqual(t, withFlag, withoutFlag)

	_, got, err := DecodeValue(withoutFlag, types.UintFamily)
	require.NoError(t, err)
	require.Equal(t, uint64(9), got.Uint())
}

func TestKeyDatumRoundTrip(t *testing.T) {
	cases := []types.Datum{
		types.NewInt(123),
		types.NewInt(-123),
		types.NewString("index-key"),
		types.NullDatum(types.StringFamily),
	}
	for _, d := range cases {
		b := EncodeKeyDatum(nil, d)
		rest, got, err := DecodeKeyDatum(b, d.Family)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, d.Null, got.Null)
	}
}

func TestKeyDatumPreservesOrderAcrossMultipleColumns(t *testing.T) {
	lo := EncodeKeyDatum(EncodeKeyDatum(nil, types.NewInt(1)), types.NewString("a"))
	hi := EncodeKeyDatum(EncodeKeyDatum(nil, types.NewInt(1)), types.NewString("b"))
	require.True(t, compareBytes(lo, hi) < 0)
}
