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

// RowColsDict is the decoded byte body of a stored row: a mapping from
// column ID to the byte slice (already in wire form) holding that
// column's encoded value, plus the backing buffer the slices point into.
// The backing buffer is kept alongside the map purely to
// keep it alive for as long as any reader still needs to decode a column
// from it; callers never index into it directly.
type RowColsDict struct {
	cols   map[ColumnID][]byte
	buffer []byte
}

// NewRowColsDict builds a dict over the given backing buffer. cols is
// taken as-is (not copied) since the decoder that builds it owns the
// slicing.
func NewRowColsDict(cols map[ColumnID][]byte, buffer []byte) RowColsDict {
	return RowColsDict{cols: cols, buffer: buffer}
}

// Get returns the raw wire-form bytes for columnID, and whether it was
// present in the decoded row body at all.
func (d RowColsDict) Get(columnID ColumnID) ([]byte, bool) {
	b, ok := d.cols[columnID]
	return b, ok
}

// Len reports how many columns this row's stored body actually contains
// (not the schema width — a row may omit columns with defaults or nulls).
func (d RowColsDict) Len() int { return len(d.cols) }
