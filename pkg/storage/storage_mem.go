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

package storage

import "sort"

// MemSnapshot is a trivial in-memory Snapshot over a sorted key/value
// set, used by tests and the cmd/copdag smoke-test driver in place of a
// real MVCC engine (which is out of scope here).
type MemSnapshot struct {
	keys   [][]byte
	values [][]byte
}

// NewMemSnapshot builds a MemSnapshot from an unsorted set of key/value
// pairs, sorting them once up front so scans can binary-search.
func NewMemSnapshot(kvs map[string][]byte) *MemSnapshot {
	s := &MemSnapshot{}
	for k, v := range kvs {
		s.keys = append(s.keys, []byte(k))
		s.values = append(s.values, v)
	}
	idx := make([]int, len(s.keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return string(s.keys[idx[i]]) < string(s.keys[idx[j]])
	})
	sortedKeys := make([][]byte, len(idx))
	sortedValues := make([][]byte, len(idx))
	for i, j := range idx {
		sortedKeys[i] = s.keys[j]
		sortedValues[i] = s.values[j]
	}
	s.keys, s.values = sortedKeys, sortedValues
	return s
}

func (s *MemSnapshot) search(key []byte) int {
	return sort.Search(len(s.keys), func(i int) bool {
		return string(s.keys[i]) >= string(key)
	})
}

// Get implements Snapshot.
func (s *MemSnapshot) Get(key []byte, stats *Stats) ([]byte, bool, error) {
	i := s.search(key)
	if stats != nil {
		stats.SeeksDone++
	}
	if i >= len(s.keys) || string(s.keys[i]) != string(key) {
		return nil, false, nil
	}
	if stats != nil {
		stats.KeysScanned++
		stats.BytesScanned += int64(len(s.values[i]))
	}
	return s.values[i], true, nil
}

// BatchGet implements Snapshot.
func (s *MemSnapshot) BatchGet(keys [][]byte, stats *Stats) ([]GetResult, error) {
	out := make([]GetResult, len(keys))
	for i, k := range keys {
		v, ok, err := s.Get(k, stats)
		out[i] = GetResult{Value: v, Ok: ok, Err: err}
	}
	return out, nil
}

// NewScanner implements Snapshot.
func (s *MemSnapshot) NewScanner(desc, keyOnly bool, lower, upper []byte) (Scanner, error) {
	lo := 0
	if len(lower) > 0 {
		lo = s.search(lower)
	}
	hi := len(s.keys)
	if len(upper) > 0 {
		hi = s.search(upper)
	}
	if lo > hi {
		lo = hi
	}
	return &memScanner{
		snap: s, lo: lo, hi: hi, desc: desc, keyOnly: keyOnly,
		cur: -1,
	}, nil
}

type memScanner struct {
	snap            *MemSnapshot
	lo, hi          int
	desc, keyOnly   bool
	cur             int // index of the last-returned key; -1 before the first Next
	started         bool
	stats           Stats
}

// Next implements Scanner.
func (m *memScanner) Next() (KV, bool, error) {
	if !m.started {
		m.started = true
		if m.desc {
			m.cur = m.hi - 1
		} else {
			m.cur = m.lo
		}
	} else if m.desc {
		m.cur--
	} else {
		m.cur++
	}
	if m.cur < m.lo || m.cur >= m.hi {
		return KV{}, false, nil
	}
	m.stats.SeeksDone++
	m.stats.KeysScanned++
	key := m.snap.keys[m.cur]
	var value []byte
	if !m.keyOnly {
		value = m.snap.values[m.cur]
		m.stats.BytesScanned += int64(len(value))
	}
	return KV{Key: key, Value: value}, true, nil
}

// Stats implements Scanner.
func (m *memScanner) Stats() Stats { return m.stats }

// Close implements Scanner.
func (m *memScanner) Close() {}
