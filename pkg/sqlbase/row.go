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
	"gitee.com/kwbasedb/copdag/pkg/coperr"
	"gitee.com/kwbasedb/copdag/pkg/encoding"
	"gitee.com/kwbasedb/copdag/pkg/types"
)

// OriginCols is a scanned row: a handle, its decoded column-id -> bytes
// dictionary, and the shared-immutable schema it was decoded against.
// The handle column's physical type is always integer — an invariant
// callers that build an OriginCols are responsible for.
type OriginCols struct {
	Handle int64
	Dict   RowColsDict
	Schema Schema
}

// NewOriginCols constructs an OriginCols row. len(schema) is asserted by
// callers to equal the number of logical columns the row decodes against;
// this constructor does not re-validate it on every row for performance,
// validating shapes once at plan construction time rather than per row.
func NewOriginCols(handle int64, dict RowColsDict, schema Schema) OriginCols {
	return OriginCols{Handle: handle, Dict: dict, Schema: schema}
}

// GetBinaryCols produces the full row, one wire-form byte string per
// column in schema order.
func (o OriginCols) GetBinaryCols() ([][]byte, error) {
	out := make([][]byte, len(o.Schema))
	for i := range o.Schema {
		b, err := o.binaryForOffset(i)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// GetBinary concatenates the wire forms of the requested output offsets,
// in the requested order.
func (o OriginCols) GetBinary(outputOffsets []int) ([]byte, error) {
	var out []byte
	for _, off := range outputOffsets {
		b, err := o.binaryForOffset(off)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// binaryForOffset applies the null/default/handle rules to a single
// schema offset.
func (o OriginCols) binaryForOffset(offset int) ([]byte, error) {
	col := o.Schema[offset]
	if col.IsPKHandle() {
		return encoding.EncodeValue(nil, types.NewInt(o.Handle), false), nil
	}
	if raw, ok := o.Dict.Get(col.ID); ok {
		return raw, nil
	}
	if col.HasDefault() {
		return col.DefaultVal, nil
	}
	if col.NotNull() {
		return nil, coperr.NewMissingColumn(int64(col.ID), o.Handle)
	}
	return encoding.EncodeValue(nil, types.NullDatum(col.Family), false), nil
}

// InflateColsWithOffsets decodes the listed schema offsets into a
// len(schema)-wide slice of Datum, prefilled with nulls so expressions can
// index by offset regardless of which columns were actually requested.
func (o OriginCols) InflateColsWithOffsets(offsets []int) ([]types.Datum, error) {
	out := make([]types.Datum, len(o.Schema))
	for i, col := range o.Schema {
		out[i] = types.NullDatum(col.Family)
	}
	for _, offset := range offsets {
		col := o.Schema[offset]
		if col.IsPKHandle() {
			out[offset] = types.NewInt(o.Handle)
			continue
		}
		raw, ok := o.Dict.Get(col.ID)
		if !ok {
			if col.HasDefault() {
				raw = col.DefaultVal
			} else if col.NotNull() {
				return nil, coperr.NewMissingColumn(int64(col.ID), o.Handle)
			} else {
				out[offset] = types.NullDatum(col.Family)
				continue
			}
		}
		_, d, err := encoding.DecodeValue(raw, col.Family)
		if err != nil {
			return nil, coperr.NewCodec(err)
		}
		out[offset] = d
	}
	return out, nil
}

// AggCols is an aggregated row: the encoded group-by key (suffix) used to
// disambiguate groups in the output stream, and the aggregate-state
// values.
type AggCols struct {
	Suffix []byte
	Value  []types.Datum
}

// NewAggCols constructs an AggCols row.
func NewAggCols(value []types.Datum, suffix []byte) AggCols {
	return AggCols{Suffix: suffix, Value: value}
}

// GetBinary emits the wire-encoded value datums followed by the suffix
// bytes unchanged.
func (a AggCols) GetBinary() []byte {
	out := encoding.EncodeValues(nil, a.Value, false)
	return append(out, a.Suffix...)
}

// RowKind tags which variant a Row currently holds.
type RowKind int

// The two Row variants this package models.
const (
	RowKindOrigin RowKind = iota
	RowKindAgg
)

// Row is a tagged union over {OriginCols, AggCols}: a closed variant with
// exactly two cases, deliberately not modeled as inheritance. Go has no
// sum types, so the union is modeled as a struct carrying a
// discriminant plus both payload fields, with accessors that panic on a
// kind mismatch, rather than reaching for an interface and two wrapper
// types.
type Row struct {
	Kind   RowKind
	origin OriginCols
	agg    AggCols
}

// OriginRow wraps an OriginCols as a Row.
func OriginRow(o OriginCols) Row { return Row{Kind: RowKindOrigin, origin: o} }

// AggRow wraps an AggCols as a Row.
func AggRow(a AggCols) Row { return Row{Kind: RowKindAgg, agg: a} }

// Origin returns the OriginCols payload; panics if Kind is not
// RowKindOrigin.
func (r Row) Origin() OriginCols {
	if r.Kind != RowKindOrigin {
		panic("sqlbase: Origin() called on a Row that is not RowKindOrigin")
	}
	return r.origin
}

// Agg returns the AggCols payload; panics if Kind is not RowKindAgg.
func (r Row) Agg() AggCols {
	if r.Kind != RowKindAgg {
		panic("sqlbase: Agg() called on a Row that is not RowKindAgg")
	}
	return r.agg
}

// GetBinary dispatches to the appropriate variant's encoding, applying
// outputOffsets only to OriginCols rows — AggCols rows ignore it and
// always emit their values in internal order.
func (r Row) GetBinary(outputOffsets []int) ([]byte, error) {
	switch r.Kind {
	case RowKindOrigin:
		return r.origin.GetBinary(outputOffsets)
	case RowKindAgg:
		return r.agg.GetBinary(), nil
	default:
		panic("sqlbase: Row with unknown Kind")
	}
}
