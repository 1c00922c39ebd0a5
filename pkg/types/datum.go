// Copyright 2018 The Cockroach Authors.
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

// Package types describes the value-level type system of the coprocessor:
// the tagged Datum union and the column type family used to interpret it.
package types

import (
	"time"

	"github.com/cockroachdb/apd/v2"
)

// Family identifies the physical storage kind of a column or datum.
type Family int

// The set of datum families the executor pipeline understands. Kept
// minimal relative to a full SQL type system: only what TableScan,
// IndexScan, Selection, TopN and the aggregate functions need to decode,
// compare, and re-encode.
const (
	UnknownFamily Family = iota
	IntFamily
	UintFamily
	FloatFamily
	DecimalFamily
	DurationFamily
	TimestampFamily
	BytesFamily
	StringFamily
	JSONFamily
)

// String implements fmt.Stringer.
func (f Family) String() string {
	switch f {
	case IntFamily:
		return "int"
	case UintFamily:
		return "uint"
	case FloatFamily:
		return "float"
	case DecimalFamily:
		return "decimal"
	case DurationFamily:
		return "duration"
	case TimestampFamily:
		return "timestamp"
	case BytesFamily:
		return "bytes"
	case StringFamily:
		return "string"
	case JSONFamily:
		return "json"
	default:
		return "unknown"
	}
}

// Datum is a tagged, possibly-null SQL value. It is a value type (not an
// interface) so that rows of datums can live in flat slices without one
// allocation per cell, favoring small value structs over boxed interfaces
// on the row hot path.
type Datum struct {
	Family Family
	Null   bool

	int    int64
	float  float64
	dec    apd.Decimal
	dur    time.Duration
	tstamp time.Time
	bytes  []byte
}

// NullDatum constructs a null datum of the given family. The family is
// kept even for nulls so that downstream type checks (e.g. "is this column
// an integer handle") do not need a separate nullable-family side table.
func NullDatum(f Family) Datum {
	return Datum{Family: f, Null: true}
}

// NewInt constructs a signed integer datum.
func NewInt(v int64) Datum { return Datum{Family: IntFamily, int: v} }

// NewUint constructs an unsigned integer datum, stored in the same 64-bit
// backing field as signed; Family disambiguates interpretation.
func NewUint(v uint64) Datum { return Datum{Family: UintFamily, int: int64(v)} }

// NewFloat constructs a floating-point datum.
func NewFloat(v float64) Datum { return Datum{Family: FloatFamily, float: v} }

// NewDecimal constructs a decimal datum.
func NewDecimal(v apd.Decimal) Datum { return Datum{Family: DecimalFamily, dec: v} }

// NewDuration constructs a duration datum.
func NewDuration(v time.Duration) Datum { return Datum{Family: DurationFamily, dur: v} }

// NewTimestamp constructs a timestamp datum.
func NewTimestamp(v time.Time) Datum { return Datum{Family: TimestampFamily, tstamp: v} }

// NewBytes constructs a bytes datum.
func NewBytes(v []byte) Datum { return Datum{Family: BytesFamily, bytes: v} }

// NewString constructs a string datum, stored as its UTF-8 bytes.
func NewString(v string) Datum { return Datum{Family: StringFamily, bytes: []byte(v)} }

// NewJSON constructs a JSON datum from its canonical encoded form. The JSON
// codec itself is an external collaborator; this module only carries the
// bytes through.
func NewJSON(encoded []byte) Datum { return Datum{Family: JSONFamily, bytes: encoded} }

// Int returns the signed integer value. Panics if Family is not IntFamily
// or UintFamily: accessors on Datum type-assert rather than silently
// coercing.
func (d Datum) Int() int64 {
	if d.Family != IntFamily && d.Family != UintFamily {
		panic("types: Int() called on non-integer datum")
	}
	return d.int
}

// Uint returns the unsigned integer value.
func (d Datum) Uint() uint64 {
	if d.Family != UintFamily {
		panic("types: Uint() called on non-uint datum")
	}
	return uint64(d.int)
}

// Float returns the float value.
func (d Datum) Float() float64 {
	if d.Family != FloatFamily {
		panic("types: Float() called on non-float datum")
	}
	return d.float
}

// Decimal returns the decimal value.
func (d Datum) Decimal() apd.Decimal {
	if d.Family != DecimalFamily {
		panic("types: Decimal() called on non-decimal datum")
	}
	return d.dec
}

// Duration returns the duration value.
func (d Datum) Duration() time.Duration {
	if d.Family != DurationFamily {
		panic("types: Duration() called on non-duration datum")
	}
	return d.dur
}

// Timestamp returns the timestamp value.
func (d Datum) Timestamp() time.Time {
	if d.Family != TimestampFamily {
		panic("types: Timestamp() called on non-timestamp datum")
	}
	return d.tstamp
}

// Bytes returns the raw bytes backing a Bytes, String or JSON datum.
func (d Datum) Bytes() []byte {
	switch d.Family {
	case BytesFamily, StringFamily, JSONFamily:
		return d.bytes
	default:
		panic("types: Bytes() called on a datum without a byte representation")
	}
}

// String implements fmt.Stringer for debugging and error messages.
func (d Datum) String() string {
	if d.Null {
		return "NULL"
	}
	switch d.Family {
	case IntFamily:
		return int64ToString(d.int)
	case UintFamily:
		return uint64ToString(uint64(d.int))
	case BytesFamily, StringFamily:
		return string(d.bytes)
	default:
		return d.Family.String()
	}
}

func int64ToString(v int64) string {
	return string(appendInt(nil, v))
}

func uint64ToString(v uint64) string {
	return string(appendUint(nil, v))
}

func appendInt(buf []byte, v int64) []byte {
	if v < 0 {
		buf = append(buf, '-')
		return appendUint(buf, uint64(-v))
	}
	return appendUint(buf, uint64(v))
}

func appendUint(buf []byte, v uint64) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}
