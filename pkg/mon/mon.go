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

// Package mon gives HashAggExecutor's group table an optional byte-budget
// hook: just enough to track reservations and fail loudly when a budget
// is exceeded, without a full allocator-profiling or cluster-settings
// integration (out of scope for this component).
package mon

import "github.com/cockroachdb/errors"

// BoundAccount tracks bytes reserved against a parent budget. A nil
// *BoundAccount is valid and always grants every reservation, giving an
// unbounded memory budget to callers that do not opt into accounting.
type BoundAccount struct {
	budget   int64
	reserved int64
}

// NewBoundAccount creates an account with the given byte budget. A budget
// of 0 or less means unlimited, the same sentinel convention effectively-
// unbounded monitors tend to use.
func NewBoundAccount(budget int64) *BoundAccount {
	return &BoundAccount{budget: budget}
}

// Grow reserves n additional bytes, failing with a budget-exceeded error
// if doing so would exceed the account's budget.
func (a *BoundAccount) Grow(n int64) error {
	if a == nil || a.budget <= 0 {
		return nil
	}
	if a.reserved+n > a.budget {
		return NewBudgetExceededError(n, a.reserved, a.budget)
	}
	a.reserved += n
	return nil
}

// Shrink releases n bytes previously reserved via Grow.
func (a *BoundAccount) Shrink(n int64) {
	if a == nil {
		return
	}
	a.reserved -= n
	if a.reserved < 0 {
		a.reserved = 0
	}
}

// Reserved reports the bytes currently reserved against this account.
func (a *BoundAccount) Reserved() int64 {
	if a == nil {
		return 0
	}
	return a.reserved
}

// NewBudgetExceededError builds the error Grow returns when a reservation
// would exceed its account's budget, with no pgcode/pgerror wiring: the
// pgwire/postgres error-code layer is part of the SQL front end, out of
// scope for a coprocessor component.
func NewBudgetExceededError(requestedBytes, reservedBytes, budgetBytes int64) error {
	return errors.Newf(
		"memory budget exceeded: %d bytes requested, %d currently allocated, %d bytes in budget",
		errors.Safe(requestedBytes), errors.Safe(reservedBytes), errors.Safe(budgetBytes))
}
