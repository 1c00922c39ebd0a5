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
	"testing"

	"github.com/stretchr/testify/require"

	"gitee.com/kwbasedb/copdag/pkg/leaktest"
	"gitee.com/kwbasedb/copdag/pkg/storage"
)

func TestLimitTruncatesChildOutput(t *testing.T) {
	defer leaktest.AfterTest(t)()
	snap, r := demoTable([]byte("t1"), 10)
	scan := NewTableScanExecutor(snap, []storage.KeyRange{r}, false, false, demoSchema())
	scan.StartScan()

	lim := NewLimitExecutor(scan, 3)
	require.Equal(t, []int64{0, 1, 2}, drainHandles(t, lim))
}

func TestLimitZeroEmitsNothing(t *testing.T) {
	defer leaktest.AfterTest(t)()
	snap, r := demoTable([]byte("t1"), 3)
	scan := NewTableScanExecutor(snap, []storage.KeyRange{r}, false, false, demoSchema())
	scan.StartScan()

	lim := NewLimitExecutor(scan, 0)
	require.Empty(t, drainHandles(t, lim))
}

func TestLimitGreaterThanChildLengthEmitsAll(t *testing.T) {
	defer leaktest.AfterTest(t)()
	snap, r := demoTable([]byte("t1"), 2)
	scan := NewTableScanExecutor(snap, []storage.KeyRange{r}, false, false, demoSchema())
	scan.StartScan()

	lim := NewLimitExecutor(scan, 100)
	require.Equal(t, []int64{0, 1}, drainHandles(t, lim))
}
