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

package mon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundAccountGrowAndShrink(t *testing.T) {
	a := NewBoundAccount(100)
	require.NoError(t, a.Grow(40))
	require.NoError(t, a.Grow(40))
	require.Equal(t, int64(80), a.Reserved())

	require.Error(t, a.Grow(30), "40+40+30 exceeds the 100 byte budget")
	require.Equal(t, int64(80), a.Reserved(), "a failed Grow must not partially reserve")

	a.Shrink(50)
	require.Equal(t, int64(30), a.Reserved())
	require.NoError(t, a.Grow(30))
}

func TestBoundAccountShrinkFloorsAtZero(t *testing.T) {
	a := NewBoundAccount(100)
	require.NoError(t, a.Grow(10))
	a.Shrink(50)
	require.Equal(t, int64(0), a.Reserved())
}

func TestBoundAccountZeroOrNegativeBudgetIsUnlimited(t *testing.T) {
	a := NewBoundAccount(0)
	require.NoError(t, a.Grow(1<<40))

	b := NewBoundAccount(-1)
	require.NoError(t, b.Grow(1<<40))
}

func TestNilBoundAccountAlwaysGrants(t *testing.T) {
	var a *BoundAccount
	require.NoError(t, a.Grow(1<<40))
	require.Equal(t, int64(0), a.Reserved())
	a.Shrink(10) // must not panic
}
