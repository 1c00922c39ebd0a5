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

// Package expr implements the push-down expression tree the executor
// pipeline evaluates: a minimal, self-contained stand-in for the
// wire-deserialized expression forest a SQL layer would otherwise push
// down (the real evaluator is an external collaborator assumed
// available; this package gives that assumption a concrete, testable
// body).
package expr

import "gitee.com/kwbasedb/copdag/pkg/types"

// Type tags the kind of a push-down expression node, the same role
// tipb.ExprType plays in the pushed-down plans this pipeline is modeled
// after: a closed, wire-stable enumeration rather than a Go interface
// hierarchy, so that a column-ref leaf's payload can be inspected without
// a type switch.
type Type int32

// The expression node kinds this module understands. Kept minimal: just
// enough to drive Selection's conjunctions, TopN's sort keys, and
// aggregate-function inputs.
const (
	ColumnRef Type = iota
	ConstInt
	ConstUint
	ConstFloat
	ConstString
	ConstNull
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpAnd
	OpOr
	OpNot
)

// Expr is a node in a push-down expression tree. Leaves (ColumnRef,
// Const*) carry their payload in Val; interior nodes (Op*) carry their
// operands in Children. A ColumnRef leaf's Val is the little-endian
// signed 64-bit column offset.
type Expr struct {
	Tp       Type
	Val      []byte
	Children []*Expr
}

// Col builds a ColumnRef leaf referencing the given schema offset.
func Col(offset int) *Expr {
	return &Expr{Tp: ColumnRef, Val: encodeOffset(int64(offset))}
}

// ConstIntVal builds a signed-integer constant leaf.
func ConstIntVal(v int64) *Expr {
	return &Expr{Tp: ConstInt, Val: encodeOffset(v)}
}

// ConstNullVal builds a null constant leaf.
func ConstNullVal() *Expr { return &Expr{Tp: ConstNull} }

// Eq, Ne, Lt, Le, Gt, Ge build binary comparison nodes.
func Eq(l, r *Expr) *Expr { return &Expr{Tp: OpEQ, Children: []*Expr{l, r}} }
func Ne(l, r *Expr) *Expr { return &Expr{Tp: OpNE, Children: []*Expr{l, r}} }
func Lt(l, r *Expr) *Expr { return &Expr{Tp: OpLT, Children: []*Expr{l, r}} }
func Le(l, r *Expr) *Expr { return &Expr{Tp: OpLE, Children: []*Expr{l, r}} }
func Gt(l, r *Expr) *Expr { return &Expr{Tp: OpGT, Children: []*Expr{l, r}} }
func Ge(l, r *Expr) *Expr { return &Expr{Tp: OpGE, Children: []*Expr{l, r}} }

// And, Or, Not build boolean connective nodes.
func And(l, r *Expr) *Expr { return &Expr{Tp: OpAnd, Children: []*Expr{l, r}} }
func Or(l, r *Expr) *Expr  { return &Expr{Tp: OpOr, Children: []*Expr{l, r}} }
func Not(c *Expr) *Expr    { return &Expr{Tp: OpNot, Children: []*Expr{c}} }

// ColumnOffset decodes a ColumnRef leaf's payload. It does not check Tp:
// any 8-byte payload decodes, and a shorter one panics — callers (the
// visitor, the evaluator) check Tp first.
func (e *Expr) ColumnOffset() int64 {
	return decodeOffset(e.Val)
}

func encodeOffset(v int64) []byte {
	u := uint64(v)
	return []byte{
		byte(u), byte(u >> 8), byte(u >> 16), byte(u >> 24),
		byte(u >> 32), byte(u >> 40), byte(u >> 48), byte(u >> 56),
	}
}

func decodeOffset(b []byte) int64 {
	var u uint64
	for i := 7; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return int64(u)
}

// constDatum decodes a Const* leaf into its Datum value. Only used by the
// default Evaluator; kept here since it operates purely on Expr payloads.
func constDatum(e *Expr) types.Datum {
	switch e.Tp {
	case ConstInt:
		return types.NewInt(decodeOffset(e.Val))
	case ConstUint:
		return types.NewUint(uint64(decodeOffset(e.Val)))
	case ConstNull:
		return types.NullDatum(types.UnknownFamily)
	default:
		return types.NullDatum(types.UnknownFamily)
	}
}
