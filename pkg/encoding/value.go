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

package encoding

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cockroachdb/apd/v2"
	"github.com/cockroachdb/errors"

	"gitee.com/kwbasedb/copdag/pkg/types"
)

// valueTag identifies the family of an encoded datum so the output row's
// wire form is self-describing: a minimal, concrete, self-contained
// tag+body scheme.
type valueTag byte

const (
	tagNull valueTag = iota
	tagInt
	tagUint
	tagFloat
	tagDecimal
	tagDuration
	tagTimestamp
	tagBytes
	tagString
	tagJSON
)

// EncodeValue appends the wire-form encoding of a single datum to b. If
// withUnsignedFlag is false, unsigned datums are encoded using the same
// tag as signed ones, matching AggCols.GetBinary's call, which collapses
// the sign distinction for aggregate output since the consuming SQL layer
// already knows the declared result type.
func EncodeValue(b []byte, d types.Datum, withUnsignedFlag bool) []byte {
	if d.Null {
		return append(b, byte(tagNull))
	}
	switch d.Family {
	case types.IntFamily:
		b = append(b, byte(tagInt))
		return appendVarintBody(b, d.Int())
	case types.UintFamily:
		tag := tagUint
		if !withUnsignedFlag {
			tag = tagInt
		}
		b = append(b, byte(tag))
		return appendVarintBody(b, int64(d.Uint()))
	case types.FloatFamily:
		b = append(b, byte(tagFloat))
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], floatBits(d.Float()))
		return append(b, buf[:]...)
	case types.DecimalFamily:
		b = append(b, byte(tagDecimal))
		dec := d.Decimal()
		body := []byte(dec.Text('G'))
		b = appendVarintBody(b, int64(len(body)))
		return append(b, body...)
	case types.DurationFamily:
		b = append(b, byte(tagDuration))
		return appendVarintBody(b, int64(d.Duration()))
	case types.TimestampFamily:
		b = append(b, byte(tagTimestamp))
		return appendVarintBody(b, d.Timestamp().UnixNano())
	case types.BytesFamily:
		b = append(b, byte(tagBytes))
		return appendLenPrefixed(b, d.Bytes())
	case types.StringFamily:
		b = append(b, byte(tagString))
		return appendLenPrefixed(b, d.Bytes())
	case types.JSONFamily:
		b = append(b, byte(tagJSON))
		return appendLenPrefixed(b, d.Bytes())
	default:
		return append(b, byte(tagNull))
	}
}

// EncodeValues appends the wire form of every datum in vs, in order.
func EncodeValues(b []byte, vs []types.Datum, withUnsignedFlag bool) []byte {
	for _, d := range vs {
		b = EncodeValue(b, d, withUnsignedFlag)
	}
	return b
}

// DecodeValue decodes a single datum previously written by EncodeValue,
// coercing the wire tag to the requested column family — the type-coercing
// decoder InflateColsWithOffsets relies on.
func DecodeValue(b []byte, family types.Family) ([]byte, types.Datum, error) {
	if len(b) == 0 {
		return nil, types.Datum{}, errors.AssertionFailedf("encoding: empty buffer decoding value")
	}
	tag := valueTag(b[0])
	b = b[1:]
	if tag == tagNull {
		return b, types.NullDatum(family), nil
	}
	switch tag {
	case tagInt, tagUint:
		rest, v, err := readVarintBody(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		if family == types.UintFamily {
			return rest, types.NewUint(uint64(v)), nil
		}
		return rest, types.NewInt(v), nil
	case tagFloat:
		if len(b) < 8 {
			return nil, types.Datum{}, errors.AssertionFailedf("encoding: truncated float")
		}
		f := floatFromBits(binary.BigEndian.Uint64(b[:8]))
		return b[8:], types.NewFloat(f), nil
	case tagDecimal:
		rest, n, err := readVarintBody(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		if int64(len(rest)) < n {
			return nil, types.Datum{}, errors.AssertionFailedf("encoding: truncated decimal")
		}
		var dec apd.Decimal
		if _, _, err := dec.SetString(string(rest[:n])); err != nil {
			return nil, types.Datum{}, errors.Wrap(err, "encoding: malformed decimal")
		}
		return rest[n:], types.NewDecimal(dec), nil
	case tagDuration:
		rest, v, err := readVarintBody(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		return rest, types.NewDuration(time.Duration(v)), nil
	case tagTimestamp:
		rest, v, err := readVarintBody(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		return rest, types.NewTimestamp(time.Unix(0, v).UTC()), nil
	case tagBytes:
		rest, body, err := readLenPrefixed(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		return rest, types.NewBytes(body), nil
	case tagString:
		rest, body, err := readLenPrefixed(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		return rest, types.NewString(string(body)), nil
	case tagJSON:
		rest, body, err := readLenPrefixed(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		return rest, types.NewJSON(body), nil
	default:
		return nil, types.Datum{}, errors.AssertionFailedf("encoding: unknown value tag %d", tag)
	}
}

func appendVarintBody(b []byte, v int64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	return append(b, tmp[:n]...)
}

func readVarintBody(b []byte) ([]byte, int64, error) {
	v, n := binary.Varint(b)
	if n <= 0 {
		return nil, 0, errors.AssertionFailedf("encoding: malformed varint")
	}
	return b[n:], v, nil
}

func appendLenPrefixed(b []byte, v []byte) []byte {
	b = appendVarintBody(b, int64(len(v)))
	return append(b, v...)
}

func readLenPrefixed(b []byte) ([]byte, []byte, error) {
	rest, n, err := readVarintBody(b)
	if err != nil {
		return nil, nil, err
	}
	if n < 0 || int64(len(rest)) < n {
		return nil, nil, errors.AssertionFailedf("encoding: truncated length-prefixed value")
	}
	return rest[n:], rest[:n:n], nil
}

func floatBits(f float64) uint64 {
	return math.Float64bits(f)
}

func floatFromBits(u uint64) float64 {
	return math.Float64frombits(u)
}
