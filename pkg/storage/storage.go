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

// Package storage pins the external interfaces the scan executor
// consumes: a read-only MVCC snapshot with ranged scans. This package
// does not implement a storage engine (explicitly out of scope) — it
// only defines the collaborator surface, plus an
// in-memory implementation (storage_mem.go) used by tests and the
// cmd/copdag smoke-test driver.
package storage

import "bytes"

// KeyRange is a half-open [start, end) byte-string interval.
type KeyRange struct {
	Start []byte
	End   []byte
}

// IsPoint reports whether this range's end is PrefixEnd of its start. Under
// the fixed-width memcomparable row-key encoding no stored key extends
// another, so such a range covers exactly the one key start.
func (r KeyRange) IsPoint() bool {
	return bytes.Equal(r.End, PrefixEnd(r.Start))
}

// PrefixEnd returns the lexicographically smallest byte string that is
// strictly greater than every string with prefix b: b with its trailing
// 0xFF bytes stripped and the last remaining byte incremented. This is
// the "increment the key" operation point-get ranges and prefix seeks
// both rely on.
func PrefixEnd(b []byte) []byte {
	end := make([]byte, len(b))
	copy(end, b)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xFF {
			end[i]++
			return end[:i+1]
		}
	}
	// b was all 0xFF bytes (or empty); there is no successor, signal
	// "unbounded" in the caller's encoding, an empty slice meaning "+inf".
	return nil
}

// Stats accumulates scan statistics the scan executor reports through
// CollectMetricsInto: counters a real storage engine would maintain for
// observability, kept here as plain accumulators since the storage
// engine itself is out of scope.
type Stats struct {
	KeysScanned   int64
	BytesScanned  int64
	SeeksDone     int64
	RangesSkipped int64
}

// Add accumulates other's counters into s.
func (s *Stats) Add(other Stats) {
	s.KeysScanned += other.KeysScanned
	s.BytesScanned += other.BytesScanned
	s.SeeksDone += other.SeeksDone
	s.RangesSkipped += other.RangesSkipped
}

// KV is a single decoded key/value pair read off a Scanner.
type KV struct {
	Key   []byte
	Value []byte
}

// Scanner iterates a single KeyRange against a Snapshot, in either forward
// or reverse byte order depending on how it was obtained from
// Snapshot.NewScanner.
type Scanner interface {
	// Next advances to, and returns, the next key/value pair, or
	// (KV{}, false, nil) at range exhaustion.
	Next() (KV, bool, error)
	// Stats returns the statistics accumulated since the Scanner was
	// opened.
	Stats() Stats
	// Close releases resources held by the scanner. Safe to call more
	// than once.
	Close()
}

// Snapshot is the read-only MVCC storage collaborator the scan executor
// drives.
type Snapshot interface {
	// Get performs a point lookup. A nil value with ok=false means the
	// key does not exist; it is not an error.
	Get(key []byte, stats *Stats) (value []byte, ok bool, err error)
	// BatchGet performs multiple point lookups in one round-trip.
	BatchGet(keys [][]byte, stats *Stats) ([]GetResult, error)
	// NewScanner opens a Scanner over [lower, upper). desc requests
	// reverse byte order; keyOnly requests that values not be read off
	// disk (used when the caller only needs keys, e.g. a keys-only
	// count).
	NewScanner(desc, keyOnly bool, lower, upper []byte) (Scanner, error)
}

// GetResult is one element of a BatchGet response: storage errors are
// reported per-key rather than failing the whole batch.
type GetResult struct {
	Value []byte
	Ok    bool
	Err   error
}
