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
	"sync"
	"time"

	"gitee.com/kwbasedb/copdag/pkg/types"
)

// SQLMode is a bitmask of the truncation/overflow strictness flags that
// decide whether an Eval error is fatal or warning-and-null.
type SQLMode uint32

// The SQL-mode bits this module understands.
const (
	// ModeStrict makes Eval errors (overflow, division, type mismatch)
	// fatal. Without it, they are recorded as a warning and the
	// expression evaluates to null instead of aborting the query.
	ModeStrict SQLMode = 1 << iota
	// ModeNullsAreHigh changes comparison/sort null placement from lowest
	// (the zero-value default) to highest.
	ModeNullsAreHigh
)

// EvalWarning is a single non-fatal condition raised during expression
// evaluation: an Eval error recorded as a warning (and the expression
// evaluated to null) because the EvalContext lacks ModeStrict.
type EvalWarning struct {
	Message string
}

// EvalWarnings accumulates EvalWarning values raised over the lifetime of
// a query. It is shared by every executor in one query's stack and
// drained once at the top via TakeEvalWarnings.
type EvalWarnings struct {
	mu       sync.Mutex
	warnings []EvalWarning
}

// Add appends a warning.
func (w *EvalWarnings) Add(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = append(w.warnings, EvalWarning{Message: message})
}

// Take drains and returns all accumulated warnings, resetting internal
// state, matching every executor's TakeEvalWarnings contract.
func (w *EvalWarnings) Take() []EvalWarning {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.warnings) == 0 {
		return nil
	}
	out := w.warnings
	w.warnings = nil
	return out
}

// EvalContext carries session-level evaluation parameters and the
// warnings sink.
type EvalContext struct {
	Location *time.Location
	Mode     SQLMode
	Warnings *EvalWarnings
}

// NewEvalContext builds an EvalContext with a fresh warnings sink and UTC
// location, the default a coprocessor request would fall back on absent
// an explicit timezone in the pushed-down plan.
func NewEvalContext(mode SQLMode) *EvalContext {
	return &EvalContext{
		Location: time.UTC,
		Mode:     mode,
		Warnings: &EvalWarnings{},
	}
}

// NullsOrdering returns the null placement policy this context's SQL mode
// implies, for use by operators comparing datums.
func (c *EvalContext) NullsOrdering() types.NullsOrdering {
	if c.Mode&ModeNullsAreHigh != 0 {
		return types.NullsLast
	}
	return types.NullsFirst
}
