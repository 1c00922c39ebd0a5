// Copyright 2013 The Go Authors. All rights reserved.
// Copyright (c) 2022-present, Shanghai Yunxi Technology Co, Ltd. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in licenses/BSD-golang.txt.
//
// Portions of this file are additionally subject to the following
// license and copyright.
//
// Copyright 2016 The Cockroach Authors.
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

// Package leaktest provides a trimmed goroutine-leak guard for tests that
// open a scanner and must confirm it was closed. Call
// "defer leaktest.AfterTest(t)()" at the top of such a test.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// AfterTest snapshots the current goroutine count and returns a function
// to be run at the end of a test that fails it if the count has not
// returned to the snapshot within a short grace period. This counts
// rather than diffs goroutine stacks: the executor pipeline here is
// single-threaded and pull-based, so a simple count is enough to catch a
// scanner left open across test boundaries without pulling in a
// stack-parsing dependency.
func AfterTest(t testing.TB) func() {
	orig := runtime.NumGoroutine()
	return func() {
		if t.Failed() {
			return
		}
		deadline := time.Now().Add(2 * time.Second)
		for {
			if n := runtime.NumGoroutine(); n <= orig {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf("leaktest: goroutine count grew from %d to %d and did not shrink back", orig, runtime.NumGoroutine())
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
	}
}
