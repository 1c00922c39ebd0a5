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
	"context"

	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
)

// LimitExecutor emits at most limit rows from its child, in child order.
type LimitExecutor struct {
	child
	limit uint64
	seen  uint64
}

// NewLimitExecutor builds a LimitExecutor.
func NewLimitExecutor(src Executor, limit uint64) *LimitExecutor {
	return &LimitExecutor{child: child{Executor: src}, limit: limit}
}

// Next implements Executor.
func (l *LimitExecutor) Next(ctx context.Context) (*sqlbase.Row, error) {
	if l.seen >= l.limit {
		return nil, nil
	}
	row, err := l.child.Next(ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	l.seen++
	return row, nil
}

var _ Executor = (*LimitExecutor)(nil)
