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

package types

import "bytes"

// NullsOrdering controls where a null datum sorts relative to non-null
// datums of the same family: lowest or highest, per operator policy.
type NullsOrdering int

// The two null placement policies an operator can request.
const (
	NullsFirst NullsOrdering = iota
	NullsLast
)

// Compare returns -1, 0 or 1 as d is less than, equal to, or greater than
// other. Nulls compare per nullsOrder; among two nulls the result is
// always 0. Comparing datums of different families is a programmer error
// (the column-ref visitor and row schema guarantee same-family comparisons
// upstream) and returns 0 defensively rather than panicking, since this
// function sits on the hot sort/filter path.
func Compare(d, other Datum, nullsOrder NullsOrdering) int {
	if d.Null && other.Null {
		return 0
	}
	if d.Null {
		if nullsOrder == NullsFirst {
			return -1
		}
		return 1
	}
	if other.Null {
		if nullsOrder == NullsFirst {
			return 1
		}
		return -1
	}
	if d.Family != other.Family {
		return 0
	}
	switch d.Family {
	case IntFamily:
		return compareInt64(d.int, other.int)
	case UintFamily:
		return compareUint64(uint64(d.int), uint64(other.int))
	case FloatFamily:
		return compareFloat64(d.float, other.float)
	case DecimalFamily:
		return d.dec.Cmp(&other.dec)
	case DurationFamily:
		return compareInt64(int64(d.dur), int64(other.dur))
	case TimestampFamily:
		if d.tstamp.Before(other.tstamp) {
			return -1
		}
		if d.tstamp.After(other.tstamp) {
			return 1
		}
		return 0
	case BytesFamily, StringFamily, JSONFamily:
		return bytes.Compare(d.bytes, other.bytes)
	default:
		return 0
	}
}

// Equal reports value equality under SQL-nullable semantics: two nulls are
// NOT equal (null compares as absent in equality), even though Compare
// treats them as tied for ordering purposes.
func Equal(d, other Datum) bool {
	if d.Null || other.Null {
		return false
	}
	return Compare(d, other, NullsLast) == 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
