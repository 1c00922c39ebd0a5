// Copyright 2018 The Cockroach Authors.
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

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareNullsOrdering(t *testing.T) {
	one := NewInt(1)
	two := NewInt(2)
	null := NullDatum(IntFamily)

	require.Equal(t, -1, Compare(one, two, NullsFirst))
	require.Equal(t, 1, Compare(two, one, NullsFirst))
	require.Equal(t, 0, Compare(one, one, NullsFirst))

	require.Equal(t, -1, Compare(null, one, NullsFirst))
	require.Equal(t, 1, Compare(one, null, NullsFirst))
	require.Equal(t, 1, Compare(null, one, NullsLast))
	require.Equal(t, -1, Compare(one, null, NullsLast))

	require.Equal(t, 0, Compare(null, NullDatum(IntFamily), NullsFirst))
}

func TestEqualTreatsNullAsUnequal(t *testing.T) {
	null1 := NullDatum(IntFamily)
	null2 := NullDatum(IntFamily)
	require.False(t, Equal(null1, null2), "two nulls must not be Equal, even though Compare ties them")
	require.True(t, Equal(NewInt(5), NewInt(5)))
	require.False(t, Equal(NewInt(5), NewInt(6)))
}

func TestCompareBytesAndString(t *testing.T) {
	require.Equal(t, -1, Compare(NewString("a"), NewString("b"), NullsFirst))
	require.Equal(t, 0, Compare(NewBytes([]byte("x")), NewBytes([]byte("x")), NullsFirst))
}
