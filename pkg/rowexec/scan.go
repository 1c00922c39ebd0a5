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

package rowexec

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"gitee.com/kwbasedb/copdag/pkg/coperr"
	"gitee.com/kwbasedb/copdag/pkg/sqlbase"
	"gitee.com/kwbasedb/copdag/pkg/storage"
)

// scanState is the scan's own state machine: Idle, Scanning, Advancing,
// Stopped, Done. Advancing has no separate representation here
// — it is folded into the loop in Next that closes the exhausted range's
// scanner and opens the next one in the same call, the same way the
// unistore tableScanExec's Cursor() advances ranges inline rather than
// returning control to the caller between them.
type scanState int

const (
	scanIdle scanState = iota
	scanActive
	scanDone
	scanStopped
)

// RowDecoder turns one storage key/value pair into a decoded Row. It is
// the seam TableScanExecutor and IndexScanExecutor each plug their own
// key/value layout into; ScanExecutor itself knows nothing about row-key
// formats.
type RowDecoder func(kv storage.KV) (sqlbase.Row, error)

// ScanExecutor is the shared base scan state machine: it drives one or
// more KeyRanges against a storage.Snapshot and hands each key/value pair
// to a RowDecoder, without knowing whether the rows being produced are
// table rows or index rows. Grounded on the scan/advance/cursor loop of
// the unistore tableScanExec (fillRows / fillRowsFromPoint /
// fillRowsFromRange / Cursor), generalized here into a decoder-parametric
// base so TableScanExecutor and IndexScanExecutor can share it verbatim.
type ScanExecutor struct {
	snap      storage.Snapshot
	ranges    []storage.KeyRange
	desc      bool
	keyOnly   bool
	decode    RowDecoder
	schemaLen int

	state   scanState
	rangeAt int
	scanner storage.Scanner

	rangeStart   []byte // start of the range currently (or last) open, for stop_scan reporting
	lastKey      []byte // last key actually emitted
	curRangeRows int64
	outputCounts []int64
	stats        storage.Stats
}

// NewScanExecutor builds a ScanExecutor over ranges, read in list order (or
// reverse list order when desc is set).
func NewScanExecutor(snap storage.Snapshot, ranges []storage.KeyRange, desc, keyOnly bool, schemaLen int, decode RowDecoder) *ScanExecutor {
	return &ScanExecutor{
		snap:      snap,
		ranges:    ranges,
		desc:      desc,
		keyOnly:   keyOnly,
		decode:    decode,
		schemaLen: schemaLen,
		state:     scanIdle,
	}
}

// StartScan transitions Idle -> Scanning. It is otherwise a no-op: Next
// opens the first range's scanner lazily on its first call regardless, but
// every scan executor still implements StartScan explicitly as the
// documented entry point into the state machine.
func (s *ScanExecutor) StartScan() {
	if s.state == scanIdle {
		s.state = scanActive
	}
}

// StopScan halts the scan, closes any open scanner, and reports the
// KeyRange actually consumed: from the start of the range that was open (or
// being opened) when Stop was called, up to the successor of the last key
// emitted. Returns nil if nothing was ever emitted.
func (s *ScanExecutor) StopScan() *storage.KeyRange {
	if s.scanner != nil {
		s.scanner.Close()
		s.scanner = nil
	}
	s.state = scanStopped
	if s.lastKey == nil {
		zlog.Debug().Msg("stop_scan before any row was emitted")
		return nil
	}
	consumed := &storage.KeyRange{Start: s.rangeStart, End: storage.PrefixEnd(s.lastKey)}
	zlog.Debug().Int64("rows", s.curRangeRows).Msg("stop_scan")
	return consumed
}

// LenOfColumns implements Executor.
func (s *ScanExecutor) LenOfColumns() int { return s.schemaLen }

// TakeEvalWarnings implements Executor: a bare scan has no evaluator of its
// own.
func (s *ScanExecutor) TakeEvalWarnings() []sqlbase.EvalWarning { return nil }

// CollectOutputCounts implements Executor: appends the row counts of every
// range fully consumed since the last call, then resets.
func (s *ScanExecutor) CollectOutputCounts(counts *[]int64) {
	*counts = append(*counts, s.outputCounts...)
	s.outputCounts = nil
}

// CollectMetricsInto implements Executor.
func (s *ScanExecutor) CollectMetricsInto(stats *storage.Stats) {
	stats.Add(s.stats)
	s.stats = storage.Stats{}
}

// Next implements Executor's pull contract, driving the Idle/Scanning/
// Advancing/Done transitions of the scan state machine.
func (s *ScanExecutor) Next(ctx context.Context) (*sqlbase.Row, error) {
	if s.state == scanDone || s.state == scanStopped {
		return nil, nil
	}
	s.state = scanActive
	for {
		select {
		case <-ctx.Done():
			return nil, coperr.ErrCancelled
		default:
		}
		if s.scanner == nil {
			opened, err := s.openNextRange()
			if err != nil {
				return nil, err
			}
			if !opened {
				s.state = scanDone
				return nil, nil
			}
		}
		kv, ok, err := s.scanner.Next()
		if err != nil {
			return nil, coperr.NewStorage(err)
		}
		if !ok {
			s.finishCurrentRange()
			continue
		}
		s.curRangeRows++
		s.lastKey = kv.Key
		row, err := s.decode(kv)
		if err != nil {
			return nil, err
		}
		return &row, nil
	}
}

// openNextRange advances rangeAt (in forward or reverse list order per
// desc) and opens a scanner over it, or performs a point get directly when
// the range is a point-get. Returns false once every range has been
// consumed.
func (s *ScanExecutor) openNextRange() (bool, error) {
	if s.rangeAt >= len(s.ranges) {
		return false, nil
	}
	idx := s.rangeAt
	if s.desc {
		idx = len(s.ranges) - 1 - s.rangeAt
	}
	s.rangeAt++
	r := s.ranges[idx]
	s.rangeStart = r.Start
	s.outputCounts = append(s.outputCounts, 0)
	s.curRangeRows = 0
	zlog.Debug().Int("rangeIndex", idx).Bool("point", r.IsPoint()).Msg("opening scan range")

	if r.IsPoint() {
		// Stats for this point-get are folded in via singleKVScanner.Stats()
		// when the range finishes below, not here, to avoid double-counting.
		value, ok, err := s.snap.Get(r.Start, nil)
		if err != nil {
			return false, coperr.NewStorage(err)
		}
		if !ok {
			s.finishCurrentRange()
			return s.openNextRange()
		}
		s.scanner = newSingleKVScanner(storage.KV{Key: r.Start, Value: value})
		return true, nil
	}

	scanner, err := s.snap.NewScanner(s.desc, s.keyOnly, r.Start, r.End)
	if err != nil {
		return false, coperr.NewStorage(err)
	}
	s.scanner = scanner
	return true, nil
}

// finishCurrentRange closes the active scanner (if any), folds its
// statistics in, and records the row count of the range just finished.
func (s *ScanExecutor) finishCurrentRange() {
	if s.scanner != nil {
		s.stats.Add(s.scanner.Stats())
		s.scanner.Close()
		s.scanner = nil
	}
	if n := len(s.outputCounts); n > 0 {
		s.outputCounts[n-1] = s.curRangeRows
	}
	s.curRangeRows = 0
}

// singleKVScanner adapts a single point-get result to the Scanner
// interface so ScanExecutor's main loop can treat point-gets and ranged
// scans identically after the first Next call.
type singleKVScanner struct {
	kv   storage.KV
	done bool
}

func newSingleKVScanner(kv storage.KV) *singleKVScanner { return &singleKVScanner{kv: kv} }

func (s *singleKVScanner) Next() (storage.KV, bool, error) {
	if s.done {
		return storage.KV{}, false, nil
	}
	s.done = true
	return s.kv, true, nil
}

func (s *singleKVScanner) Stats() storage.Stats {
	return storage.Stats{KeysScanned: 1, BytesScanned: int64(len(s.kv.Value)), SeeksDone: 1}
}

func (s *singleKVScanner) Close() {}
