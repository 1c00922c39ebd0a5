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
	"github.com/cockroachdb/errors"

	"gitee.com/kwbasedb/copdag/pkg/types"
)

// EncodeKeyDatum appends the memcomparable key-encoding of d to b,
// dispatching on family to pick an encode function per column type. Only
// the families an index key can carry are supported; anything else is a
// construction-time programmer error.
func EncodeKeyDatum(b []byte, d types.Datum) []byte {
	if d.Null {
		return EncodeNullAscending(b)
	}
	switch d.Family {
	case types.IntFamily:
		return EncodeVarintAscending(b, d.Int())
	case types.UintFamily:
		return EncodeVarintAscending(b, int64(d.Uint()))
	case types.BytesFamily, types.StringFamily:
		return EncodeBytesAscending(b, d.Bytes())
	default:
		panic("encoding: family has no memcomparable key encoding")
	}
}

// DecodeKeyDatum decodes a single memcomparable-encoded datum of the given
// family off the front of b, mirroring EncodeKeyDatum. This is the key-side
// counterpart of DecodeValue (value.go), used to reconstruct index column
// datums from an index key's tail.
func DecodeKeyDatum(b []byte, family types.Family) ([]byte, types.Datum, error) {
	if rest, ok := DecodeIfNull(b); ok {
		return rest, types.NullDatum(family), nil
	}
	switch family {
	case types.IntFamily:
		rest, v, err := DecodeVarintAscending(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		return rest, types.NewInt(v), nil
	case types.UintFamily:
		rest, v, err := DecodeVarintAscending(b)
		if err != nil {
			return nil, types.Datum{}, err
		}
		return rest, types.NewUint(uint64(v)), nil
	case types.BytesFamily, types.StringFamily:
		rest, body, err := DecodeBytesAscending(b, nil)
		if err != nil {
			return nil, types.Datum{}, err
		}
		if family == types.StringFamily {
			return rest, types.NewString(string(body)), nil
		}
		return rest, types.NewBytes(body), nil
	default:
		return nil, types.Datum{}, errors.AssertionFailedf("encoding: family %s has no memcomparable key encoding", family)
	}
}
