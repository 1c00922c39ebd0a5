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

package expr

import "gitee.com/kwbasedb/copdag/pkg/coperr"

// ColumnRefVisitor walks a forest of push-down expressions and records the
// set of referenced column offsets. Each operator builds
// one at construction time to compute the minimal set of columns it must
// inflate for evaluation.
type ColumnRefVisitor struct {
	schemaLen int
	seen      map[int]struct{}
}

// NewColumnRefVisitor builds a visitor that validates offsets against a
// schema of the given length.
func NewColumnRefVisitor(schemaLen int) *ColumnRefVisitor {
	return &ColumnRefVisitor{schemaLen: schemaLen, seen: make(map[int]struct{})}
}

// Visit walks a single expression tree, recording every ColumnRef offset
// it finds. Returns coperr.NewSchema if any decoded offset is negative or
// >= the declared schema length.
func (v *ColumnRefVisitor) Visit(e *Expr) error {
	if e == nil {
		return nil
	}
	if e.Tp == ColumnRef {
		offset := int(e.ColumnOffset())
		if offset < 0 || offset >= v.schemaLen {
			return coperr.NewSchema(offset, v.schemaLen)
		}
		v.seen[offset] = struct{}{}
		return nil
	}
	for _, c := range e.Children {
		if err := v.Visit(c); err != nil {
			return err
		}
	}
	return nil
}

// BatchVisit walks every expression in exprs.
func (v *ColumnRefVisitor) BatchVisit(exprs []*Expr) error {
	for _, e := range exprs {
		if err := v.Visit(e); err != nil {
			return err
		}
	}
	return nil
}

// ColumnOffsets returns the deduplicated set of referenced offsets seen so
// far, in unspecified order.
func (v *ColumnRefVisitor) ColumnOffsets() []int {
	out := make([]int, 0, len(v.seen))
	for off := range v.seen {
		out = append(out, off)
	}
	return out
}

// CollectColumnOffsets is a convenience wrapper for the common case of a
// single batch of expressions evaluated against a schema of the given
// length: it builds a visitor, visits every expression, and returns the
// resulting offset set or the first schema error encountered.
func CollectColumnOffsets(schemaLen int, exprs []*Expr) ([]int, error) {
	v := NewColumnRefVisitor(schemaLen)
	if err := v.BatchVisit(exprs); err != nil {
		return nil, err
	}
	return v.ColumnOffsets(), nil
}
