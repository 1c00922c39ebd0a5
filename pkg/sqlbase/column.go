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

// Package sqlbase holds the row-level data model the coprocessor executor
// pipeline operates on: column metadata, the decoded-row dictionary, and
// the tagged Row union.
package sqlbase

import "gitee.com/kwbasedb/copdag/pkg/types"

// ColumnID identifies a column within a table or index, independent of
// its position in any particular row's schema slice.
type ColumnID int64

// ColumnFlags is a bitmask of per-column properties.
type ColumnFlags uint32

// The type-flag bits ColumnInfo names explicitly.
const (
	ColumnFlagNotNull ColumnFlags = 1 << iota
	ColumnFlagPKHandle
)

// Has reports whether every bit in want is set in f.
func (f ColumnFlags) Has(want ColumnFlags) bool { return f&want == want }

// ColumnInfo is an immutable descriptor for a single column, as declared
// by the schema the coprocessor request carries.
type ColumnInfo struct {
	ID         ColumnID
	Family     types.Family
	Flags      ColumnFlags
	DefaultVal []byte // wire-encoded default value, or nil if none
}

// NotNull reports whether this column is declared NOT NULL.
func (c ColumnInfo) NotNull() bool { return c.Flags.Has(ColumnFlagNotNull) }

// IsPKHandle reports whether this column is the table's integer handle
// column, whose value is not stored in the row body.
func (c ColumnInfo) IsPKHandle() bool { return c.Flags.Has(ColumnFlagPKHandle) }

// HasDefault reports whether a default-value byte string was declared.
func (c ColumnInfo) HasDefault() bool { return c.DefaultVal != nil }

// Schema is the shared-immutable column list a scan executor hands to
// every row it emits: the one piece of state shared (read-only) between
// an executor and its rows' lifetime. Go's garbage collector makes
// explicit refcounting unnecessary; plain sharing of an immutable slice
// header suffices, as long as nothing mutates the slice in place after
// construction.
type Schema []ColumnInfo

// Len returns the schema width — the LenOfColumns an executor reports.
func (s Schema) Len() int { return len(s) }

// OffsetOf returns the schema offset of the column with the given ID, or
// -1 if the schema does not declare that column.
func (s Schema) OffsetOf(id ColumnID) int {
	for i, c := range s {
		if c.ID == id {
			return i
		}
	}
	return -1
}
