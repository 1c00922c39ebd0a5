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
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintAscendingRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40)} {
		b := EncodeVarintAscending(nil, v)
		rest, got, err := DecodeVarintAscending(b)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, v, got)
	}
}

func TestVarintAscendingPreservesNumericOrder(t *testing.T) {
	values := []int64{5, -100, 0, 100, -5, 1 << 62, -(1 << 62)}
	encoded := make([][]byte, len(values))
	for i, v := range values {
		encoded[i] = EncodeVarintAscending(nil, v)
	}
	sortedIdx := make([]int, len(values))
	for i := range sortedIdx {
		sortedIdx[i] = i
	}
	sort.Slice(sortedIdx, func(i, j int) bool {
		return values[sortedIdx[i]] < values[sortedIdx[j]]
	})
	byBytes := make([]int, len(values))
	copy(byBytes, sortedIdx)
	sort.Slice(byBytes, func(i, j int) bool {
		return compareBytes(encoded[byBytes[i]], encoded[byBytes[j]]) < 0
	})
	require.Equal(t, sortedIdx, byBytes)
}

func TestVarintDescendingIsReverseOfAscending(t *testing.T) {
	a := EncodeVarintDescending(nil, 1)
	b := EncodeVarintDescending(nil, 2)
	require.True(t, compareBytes(a, b) > 0, "1 must sort after 2 in descending byte order")
	_, v, err := DecodeVarintDescending(a)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestBytesAscendingRoundTripWithEmbeddedZero(t *testing.T) {
	vals := [][]byte{{}, {0x00}, {0x00, 0x01, 0x00}, []byte("hello")}
	for _, v := range vals {
		b := EncodeBytesAscending(nil, v)
		rest, got, err := DecodeBytesAscending(b, nil)
		require.NoError(t, err)
		require.Empty(t, rest)
		require.Equal(t, v, got)
	}
}

func TestNullMarkerRoundTrip(t *testing.T) {
	b := EncodeNullAscending(nil)
	rest, ok := DecodeIfNull(b)
	require.True(t, ok)
	require.Empty(t, rest)

	b = EncodeVarintAscending(nil, 7)
	_, ok = DecodeIfNull(b)
	require.False(t, ok)
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
